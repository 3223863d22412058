package repository

import (
	"context"
	"time"

	"EtfView/internal/domain/models"
)

// InstrumentLister supplies the instrument universe (the exchange
// listing page). A listing failure aborts the whole fetch cycle.
type InstrumentLister interface {
	List(ctx context.Context) ([]models.Instrument, error)
}

// HistoryProvider supplies a daily price+dividend history for one
// instrument. Failures are per-instrument and never abort the batch.
type HistoryProvider interface {
	History(ctx context.Context, symbol string, from, to time.Time) (models.History, error)
}

// CandleProvider supplies intraday bars for the FX watcher.
type CandleProvider interface {
	Candles(ctx context.Context, symbol, rng, interval string) ([]models.Candle, error)
}

// Notifier delivers an alert message to an external channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Analyst produces a short commentary for a market situation.
// Implementations may return "" when no commentary is available.
type Analyst interface {
	Comment(ctx context.Context, marketContext string) (string, error)
}

type Metrics interface {
	RecordFetch(source, symbol string)
	RecordError(kind string)
	RecordRows(n int)
	RecordLatency(op string, seconds float64)
	RecordAlert(kind string)
}
