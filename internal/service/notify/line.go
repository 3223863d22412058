package notify

import (
	"context"
	"fmt"
	"time"

	xhttp "EtfView/pkg/http"
)

const lineNotifyURL = "https://notify-api.line.me/api/notify"

// LineClient delivers messages through LINE Notify. An empty token
// turns Send into a no-op so a missing credential never breaks the
// watcher loop.
type LineClient struct {
	token string
	url   string
	http  *xhttp.Client
}

type LineOption func(*LineClient)

// WithEndpoint overrides the notify endpoint (tests).
func WithEndpoint(url string) LineOption {
	return func(c *LineClient) { c.url = url }
}

func NewLine(token string, opts ...LineOption) *LineClient {
	c := &LineClient{
		token: token,
		url:   lineNotifyURL,
		http:  xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LineClient) Send(ctx context.Context, message string) error {
	if c.token == "" {
		return nil
	}
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.url,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.token,
			"Content-Type":  "application/x-www-form-urlencoded",
		},
		Body: map[string]string{"message": message},
	})
	if err != nil {
		return fmt.Errorf("line notify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("line notify: unexpected status %d", resp.StatusCode)
	}
	return nil
}
