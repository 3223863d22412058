package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EtfView/internal/domain/models"
	"EtfView/internal/market"
	"EtfView/internal/service/cache"
	"EtfView/pkg/logger"
)

var jst = time.FixedZone("JST", 9*60*60)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, string)  {}
func (nopMetrics) RecordError(string)          {}
func (nopMetrics) RecordRows(int)              {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordAlert(string)          {}

type fakeLister struct {
	instruments []models.Instrument
	err         error
}

func (f *fakeLister) List(context.Context) ([]models.Instrument, error) {
	return f.instruments, f.err
}

type fakeHistories struct {
	mu        sync.Mutex
	histories map[string]models.History
	calls     map[string]int
}

func (f *fakeHistories) History(_ context.Context, symbol string, _, _ time.Time) (models.History, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[symbol]++
	h, ok := f.histories[symbol]
	if !ok {
		return nil, errors.New("no data for " + symbol)
	}
	return h, nil
}

func (f *fakeHistories) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

func (f *fakeHistories) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func TestDashboardRefreshDegradesFailedRows(t *testing.T) {
	// Friday 2025-06-20 after the close: target date is the same day.
	clock := market.FixedClock(time.Date(2025, 6, 20, 16, 0, 0, 0, jst))

	lister := &fakeLister{instruments: []models.Instrument{
		{Code: "1306", Name: "TOPIX連動型", Symbol: "1306.T"},
		{Code: "9999", Name: "欠測ファンド", Symbol: "9999.T"},
	}}
	histories := &fakeHistories{histories: map[string]models.History{
		"1306.T": {"2025-06-20": {Close: 100}},
	}}

	d := NewDashboard(lister, histories, nil, market.NewEngine(clock), clock,
		testLogger(t), nopMetrics{}, DashboardConfig{})

	require.NoError(t, d.Refresh(context.Background(), 0))

	snap := d.Snapshot()
	assert.Equal(t, "2025-06-20", snap.TargetDate)
	require.Len(t, snap.Rows, 2)

	require.NotNil(t, snap.Rows[0].Price)
	assert.Equal(t, 100.0, *snap.Rows[0].Price)

	assert.Nil(t, snap.Rows[1].Price)
	assert.Equal(t, "-", snap.Rows[1].DividendYield)
	assert.Equal(t, "-", snap.Rows[1].DividendDate)
	assert.Equal(t, "欠測ファンド", snap.Rows[1].Name)
}

func TestDashboardRefreshListingFailureKeepsSnapshot(t *testing.T) {
	clock := market.FixedClock(time.Date(2025, 6, 20, 16, 0, 0, 0, jst))
	lister := &fakeLister{instruments: []models.Instrument{{Code: "1306", Symbol: "1306.T"}}}
	histories := &fakeHistories{histories: map[string]models.History{
		"1306.T": {"2025-06-20": {Close: 100}},
	}}

	d := NewDashboard(lister, histories, nil, market.NewEngine(clock), clock,
		testLogger(t), nopMetrics{}, DashboardConfig{})
	require.NoError(t, d.Refresh(context.Background(), 0))

	lister.err = errors.New("listing down")
	err := d.Refresh(context.Background(), 0)
	require.Error(t, err)

	// Previous snapshot survives the failed cycle.
	assert.Len(t, d.Snapshot().Rows, 1)
}

func TestDashboardHistoryCacheThrough(t *testing.T) {
	clock := market.FixedClock(time.Date(2025, 6, 20, 16, 0, 0, 0, jst))
	lister := &fakeLister{instruments: []models.Instrument{{Code: "1306", Symbol: "1306.T"}}}
	histories := &fakeHistories{histories: map[string]models.History{
		"1306.T": {"2025-06-20": {Close: 100}},
	}}

	c := cache.NewTTLCache(0)
	defer c.Close()

	d := NewDashboard(lister, histories, c, market.NewEngine(clock), clock,
		testLogger(t), nopMetrics{}, DashboardConfig{CacheTTL: time.Minute})

	require.NoError(t, d.Refresh(context.Background(), 0))
	require.NoError(t, d.Refresh(context.Background(), 0))

	assert.Equal(t, 1, histories.callCount("1306.T"))
}

func TestDashboardRefreshLimitBoundsFetches(t *testing.T) {
	clock := market.FixedClock(time.Date(2025, 6, 20, 16, 0, 0, 0, jst))

	instruments := make([]models.Instrument, 50)
	histories := &fakeHistories{histories: map[string]models.History{}}
	for i := range instruments {
		code := fmt.Sprintf("%04d", 1300+i)
		instruments[i] = models.Instrument{Code: code, Symbol: code + ".T"}
		histories.histories[code+".T"] = models.History{"2025-06-20": {Close: 100}}
	}
	lister := &fakeLister{instruments: instruments}

	d := NewDashboard(lister, histories, nil, market.NewEngine(clock), clock,
		testLogger(t), nopMetrics{}, DashboardConfig{})

	require.NoError(t, d.Refresh(context.Background(), 5))

	// A capped cycle fetches only the capped prefix of the universe.
	assert.Equal(t, 5, histories.totalCalls())
	assert.Len(t, d.Snapshot().Rows, 5)

	// Zero means the whole universe.
	histories.calls = nil
	require.NoError(t, d.Refresh(context.Background(), 0))
	assert.Equal(t, 50, histories.totalCalls())
	assert.Len(t, d.Snapshot().Rows, 50)
}

func TestDashboardRefreshHonorsCancellation(t *testing.T) {
	clock := market.FixedClock(time.Date(2025, 6, 20, 16, 0, 0, 0, jst))
	lister := &fakeLister{instruments: []models.Instrument{
		{Code: "1306", Symbol: "1306.T"},
		{Code: "1308", Symbol: "1308.T"},
	}}
	histories := &fakeHistories{histories: map[string]models.History{}}

	d := NewDashboard(lister, histories, nil, market.NewEngine(clock), clock,
		testLogger(t), nopMetrics{}, DashboardConfig{Delay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Refresh(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
}
