package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EtfView/internal/domain/models"
	"EtfView/internal/market"
)

type fakeCandles struct {
	series map[string][]models.Candle // keyed by rng+interval
	err    error
}

func (f *fakeCandles) Candles(_ context.Context, _, rng, interval string) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.series[rng+interval], nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message)
	return nil
}

type fakeAnalyst struct{ comment string }

func (f fakeAnalyst) Comment(context.Context, string) (string, error) {
	return f.comment, nil
}

func flatBars(n int, high, low, close float64) []models.Candle {
	bars := make([]models.Candle, n)
	for i := range bars {
		bars[i] = models.Candle{High: high, Low: low, Close: close}
	}
	return bars
}

// Long series: flat at 150.0/149.5 with one spike to 150.5, giving a
// single resistance wall near the current price of 150.45.
func wallSeries() map[string][]models.Candle {
	long := flatBars(25, 150.0, 149.5, 149.8)
	long[12].High = 150.5

	short := flatBars(12, 150.6, 149.0, 150.45)
	return map[string][]models.Candle{
		"2d15m": short,
		"14d1h": long,
	}
}

func TestFXWatcherLongTopAlert(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewFXWatcher(&fakeCandles{series: wallSeries()}, notifier, fakeAnalyst{comment: "戻り売り優勢。"},
		nopMetrics{}, market.FixedClock(time.Now()), testLogger(t), FXWatcherConfig{})

	msg, err := w.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, msg, "激アツ")
	assert.Contains(t, msg, "レジスタンス帯")
	assert.Contains(t, msg, "150.50円")
	assert.Contains(t, msg, "150.45円")
	assert.Contains(t, msg, "AIアナリストのひとこと")
	assert.Contains(t, msg, "戻り売り優勢。")
}

func TestFXWatcherCooldownSuppressesRepeat(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewFXWatcher(&fakeCandles{series: wallSeries()}, notifier, nil,
		nopMetrics{}, market.FixedClock(time.Now()), testLogger(t), FXWatcherConfig{})

	msg, err := w.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, msg)

	// Same fixed clock: the wall kind is still inside its cooldown, and
	// the short-term walls are out of reach (0.15 > 0.10 threshold).
	msg, err = w.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Len(t, notifier.sent, 1)
}

func TestFXWatcherRangeAlert(t *testing.T) {
	series := map[string][]models.Candle{
		"2d15m": flatBars(48, 150.10, 150.00, 150.05),
		"14d1h": flatBars(25, 151.0, 148.0, 150.0),
	}
	notifier := &fakeNotifier{}
	w := NewFXWatcher(&fakeCandles{series: series}, notifier, nil,
		nopMetrics{}, market.FixedClock(time.Now()), testLogger(t), FXWatcherConfig{})

	msg, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg, "レンジ相場")
	assert.Contains(t, msg, "上限: 150.10円")
	assert.Contains(t, msg, "下限: 150.00円")
}

func TestFXWatcherProviderError(t *testing.T) {
	w := NewFXWatcher(&fakeCandles{err: errors.New("upstream down")}, &fakeNotifier{}, nil,
		nopMetrics{}, market.FixedClock(time.Now()), testLogger(t), FXWatcherConfig{})

	_, err := w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "short candles"))
}
