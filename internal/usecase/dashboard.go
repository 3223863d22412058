package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"EtfView/internal/domain/models"
	"EtfView/internal/domain/repository"
	"EtfView/internal/market"
	"EtfView/internal/service/cache"
	"EtfView/pkg/logger"
	"EtfView/pkg/util"
)

// historyWindowDays is how far before the year anchor the history fetch
// starts, so the trailing dividend window and the payout projection have
// enough records behind the oldest price anchor.
const historyWindowDays = 550

// Snapshot is one completed fetch cycle: the enriched table plus the
// target date it was computed against.
type Snapshot struct {
	Rows        []models.EnrichedRow
	TargetDate  string
	RefreshedAt time.Time
}

// Dashboard owns the fetch cycle: list the instrument universe, pull
// each instrument's history, enrich, and publish the result as an
// atomic snapshot. Readers never see a half-built table.
type Dashboard struct {
	lister    repository.InstrumentLister
	histories repository.HistoryProvider
	cache     cache.BytesCache
	engine    *market.Engine
	clock     market.Clock
	log       *logger.Logger
	metrics   repository.Metrics

	delay    time.Duration
	cacheTTL time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

type DashboardConfig struct {
	Delay    time.Duration
	CacheTTL time.Duration
}

func NewDashboard(
	lister repository.InstrumentLister,
	histories repository.HistoryProvider,
	c cache.BytesCache,
	engine *market.Engine,
	clock market.Clock,
	log *logger.Logger,
	m repository.Metrics,
	cfg DashboardConfig,
) *Dashboard {
	if clock == nil {
		clock = market.SystemClock()
	}
	return &Dashboard{
		lister:    lister,
		histories: histories,
		cache:     c,
		engine:    engine,
		clock:     clock,
		log:       log,
		metrics:   m,
		delay:     cfg.Delay,
		cacheTTL:  cfg.CacheTTL,
	}
}

// Refresh runs one fetch cycle and swaps in the new snapshot. limit
// bounds how many instruments are fetched (0 = the whole universe):
// the sequential per-instrument delay makes an unbounded cycle take
// minutes, so a capped request must cap the fetching itself.
// A listing failure aborts the cycle and keeps the previous snapshot;
// per-instrument history failures degrade that row to its sentinels.
func (d *Dashboard) Refresh(ctx context.Context, limit int) error {
	started := d.clock.Now()
	target := market.TargetDate(started)
	refs := market.NewReferenceDates(target)

	instruments, err := d.lister.List(ctx)
	if err != nil {
		d.metrics.RecordError("listing")
		return fmt.Errorf("list instruments: %w", err)
	}
	if limit > 0 && limit < len(instruments) {
		instruments = instruments[:limit]
	}

	from := refs.Year.AddDate(0, 0, -historyWindowDays)
	to := refs.Target.AddDate(0, 0, 1)

	rows := make([]models.EnrichedRow, 0, len(instruments))
	for i, inst := range instruments {
		if i > 0 && d.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.delay):
			}
		}

		h, err := d.history(ctx, inst.Symbol, from, to)
		if err != nil {
			d.metrics.RecordError("history")
			d.log.Warn("history fetch failed, row degraded",
				logger.String("symbol", inst.Symbol),
				logger.Error(err))
			rows = append(rows, models.NewUnenrichedRow(inst))
			continue
		}
		rows = append(rows, d.engine.Enrich(inst, h, refs))
	}

	d.mu.Lock()
	d.snap = Snapshot{
		Rows:        rows,
		TargetDate:  util.FormatDay(target),
		RefreshedAt: d.clock.Now(),
	}
	d.mu.Unlock()

	d.metrics.RecordRows(len(rows))
	d.metrics.RecordLatency("refresh", time.Since(started).Seconds())
	d.log.Info("dashboard refreshed",
		logger.String("target_date", util.FormatDay(target)),
		logger.Int("rows", len(rows)))
	return nil
}

// Snapshot returns the last published snapshot. Rows are shared, not
// copied: callers must treat them as read-only.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// history is a cache-through wrapper around the upstream provider.
// The key carries the window end so a new target date misses cleanly.
func (d *Dashboard) history(ctx context.Context, symbol string, from, to time.Time) (models.History, error) {
	key := fmt.Sprintf("history:%s:%s", symbol, util.FormatDay(to))
	if d.cache != nil {
		if b, ok := d.cache.GetBytes(ctx, key); ok {
			var h models.History
			if err := json.Unmarshal(b, &h); err == nil {
				d.metrics.RecordFetch("cache", symbol)
				return h, nil
			}
			d.cache.Delete(ctx, key)
		}
	}

	h, err := d.histories.History(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	d.metrics.RecordFetch("upstream", symbol)

	if d.cache != nil && d.cacheTTL > 0 {
		if b, err := json.Marshal(h); err == nil {
			d.cache.SetBytes(ctx, key, b, d.cacheTTL)
		}
	}
	return h, nil
}
