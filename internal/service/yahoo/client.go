package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"EtfView/internal/domain/models"
	"EtfView/internal/service/ratelimit"
	xhttp "EtfView/pkg/http"
	"EtfView/pkg/util"
)

// Client fetches price/dividend history from the Yahoo Finance v8
// chart API. One Client is shared by the dashboard (daily bars with
// dividend events) and the FX watcher (intraday bars).
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter

	rateCapacity float64
	rateRefill   float64

	loc *time.Location
}

func New(baseURL string, timeout time.Duration, limiter *ratelimit.Limiter, capacity, refill float64) *Client {
	if capacity <= 0 {
		capacity = 2
	}
	if refill <= 0 {
		refill = 2
	}
	return &Client{
		baseURL:      baseURL,
		http:         xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:      limiter,
		rateCapacity: capacity,
		rateRefill:   refill,
		loc:          time.FixedZone("JST", 9*60*60),
	}
}

// chartResponse is the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns daily close prices joined with dividend events for
// [from, to). Days with no close (halts, nulls) are omitted, so the
// result can have gaps beyond weekends; callers walk backward over
// them.
func (c *Client) History(ctx context.Context, symbol string, from, to time.Time) (models.History, error) {
	params := map[string][]string{
		"period1":  {strconv.FormatInt(from.Unix(), 10)},
		"period2":  {strconv.FormatInt(to.Unix(), 10)},
		"interval": {"1d"},
		"events":   {"div"},
	}
	resp, err := c.fetch(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	r := resp.Chart.Result[0]
	h := make(models.History, len(r.Timestamp))
	if len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		for i, ts := range r.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			day := util.UnixDay(ts, c.loc)
			rec := h[day]
			rec.Close = *closes[i]
			h[day] = rec
		}
	}
	for _, div := range r.Events.Dividends {
		if div.Amount <= 0 {
			continue
		}
		day := util.UnixDay(div.Date, c.loc)
		rec := h[day]
		rec.Dividend += div.Amount
		h[day] = rec
	}
	return h, nil
}

// Candles returns intraday OHLC bars, e.g. rng="2d" interval="15m".
func (c *Client) Candles(ctx context.Context, symbol, rng, interval string) ([]models.Candle, error) {
	params := map[string][]string{
		"range":    {rng},
		"interval": {interval},
	}
	resp, err := c.fetch(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	r := resp.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, nil
	}
	q := r.Indicators.Quote[0]
	out := make([]models.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || i >= len(q.High) || i >= len(q.Low) {
			continue
		}
		if q.Close[i] == nil || q.High[i] == nil || q.Low[i] == nil {
			continue
		}
		bar := models.Candle{Timestamp: ts, High: *q.High[i], Low: *q.Low[i], Close: *q.Close[i]}
		if i < len(q.Open) && q.Open[i] != nil {
			bar.Open = *q.Open[i]
		}
		out = append(out, bar)
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, symbol string, params map[string][]string) (*chartResponse, error) {
	c.waitForToken(ctx)

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		QueryParams: params,
		Headers:     map[string]string{"User-Agent": "Mozilla/5.0"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s (%s)", symbol, resp.Chart.Error.Description, resp.Chart.Error.Code)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}
	return &resp, nil
}

// waitForToken blocks until the shared limiter grants a request slot.
func (c *Client) waitForToken(ctx context.Context) {
	if c.limiter == nil {
		return
	}
	for !c.limiter.Allow("yahoo", c.rateCapacity, c.rateRefill) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}
