package jpx

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"EtfView/internal/domain/models"
	xhttp "EtfView/pkg/http"

	"github.com/PuerkitoBio/goquery"
)

// Client scrapes the exchange's ETF issues page. The page is a plain
// HTML table: benchmark, code, name, management company, fee.
type Client struct {
	listURL  string
	http     *xhttp.Client
	retryMax int
}

func New(listURL string, timeout time.Duration, retryMax int) *Client {
	if retryMax <= 0 {
		retryMax = 3
	}
	return &Client{
		listURL:  listURL,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		retryMax: retryMax,
	}
}

// List fetches and parses the listing page. Unlike history fetches,
// a listing failure is fatal to the fetch cycle: without the
// universe there is nothing to enrich.
func (c *Client) List(ctx context.Context) ([]models.Instrument, error) {
	var body []byte
	var lastErr error
	for attempt := 0; attempt < c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		lastErr = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.listURL,
		}, &body)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("fetch listing page: %w", lastErr)
	}

	return Parse(body)
}

// Parse extracts instruments from the listing page HTML.
func Parse(body []byte) ([]models.Instrument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("listing page has no table")
	}

	var out []models.Instrument
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		// Header rows use th and are skipped; a data row needs the
		// five listing columns.
		if cells.Length() < 5 {
			return
		}
		text := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }

		inst := models.Instrument{
			Benchmark:  text(0),
			Code:       text(1),
			Name:       text(2),
			Management: text(3),
			Fee:        text(4),
		}
		if code := alnum(inst.Code); code != "" {
			inst.Symbol = code + ".T"
		}
		out = append(out, inst)
	})
	return out, nil
}

// alnum keeps only letters and digits: the listed code occasionally
// carries annotations around the securities code itself.
func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
