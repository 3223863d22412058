package market

import (
	"fmt"
	"math"
	"sort"
	"time"

	"EtfView/internal/domain/models"
	"EtfView/pkg/util"
)

const (
	// priceWalkAttempts bounds the backward scan for the nearest
	// prior trading day: the anchor date itself plus 9 days back.
	priceWalkAttempts = 10

	// recentDividendCap bounds the payout-pattern lookback to the
	// most recent payments (~6 years for a quarterly payer). Tunable.
	recentDividendCap = 24

	// defaultPayoutDay is used when a payout month has no recorded
	// days to average over.
	defaultPayoutDay = 10

	noData = "-"
)

// Engine derives dashboard fields from one instrument's raw history.
// It performs no I/O and holds no mutable state; a single Engine is
// safe to share across concurrent enrichments.
type Engine struct {
	clock Clock
}

func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{clock: clock}
}

// ResolvePriceNear returns the close price at date, or at the nearest
// prior calendar day present in the history. After 10 total attempts
// the lookup gives up and reports no data. Bounded loop on purpose:
// trivially terminating, no trading calendar needed.
func ResolvePriceNear(h models.History, date time.Time) (float64, bool) {
	for i := 0; i < priceWalkAttempts; i++ {
		if rec, ok := h[date.Format(DateFormat)]; ok {
			return rec.Close, true
		}
		date = date.AddDate(0, 0, -1)
	}
	return 0, false
}

// PctChange returns (new-old)/old*100, unrounded. A nil or zero old
// price and a nil new price all degrade to nil: "no data" propagates,
// it never errors.
func PctChange(oldPrice, newPrice *float64) *float64 {
	if oldPrice == nil || newPrice == nil {
		return nil
	}
	if *oldPrice == 0 || math.IsNaN(*oldPrice) || math.IsNaN(*newPrice) {
		return nil
	}
	pct := (*newPrice - *oldPrice) / *oldPrice * 100
	return &pct
}

// Enrich computes every derived field for one instrument. Price
// anchors are relative to refs; the dividend trailing window and the
// payout projection are relative to the engine clock's "now". That
// asymmetry is inherited behavior and must stay.
func (e *Engine) Enrich(inst models.Instrument, h models.History, refs ReferenceDates) models.EnrichedRow {
	row := models.NewUnenrichedRow(inst)

	current := resolve(h, refs.Target)
	prev := resolve(h, refs.Prev)
	week := resolve(h, refs.Week)
	twoWeeks := resolve(h, refs.TwoWeeks)
	year := resolve(h, refs.Year)

	// Percentages use the unrounded looked-up price; only the
	// displayed price is rounded.
	if current != nil {
		p := math.Round(*current*100) / 100
		row.Price = &p
	}
	row.Change1dPct = PctChange(prev, current)
	row.Change1wPct = PctChange(week, current)
	row.Change2wPct = PctChange(twoWeeks, current)
	row.Change1yPct = PctChange(year, current)

	now := e.clock.Now().In(tokyo)
	row.DividendYield = trailingYield(h, current, now)
	row.DividendDate = projectNextDividend(h, now)

	return row
}

func resolve(h models.History, date time.Time) *float64 {
	if v, ok := ResolvePriceNear(h, date); ok {
		return &v
	}
	return nil
}

// trailingYield sums dividends paid within the most recent 365 days
// counted from now (wall clock, not the target date) and divides by
// the current price.
func trailingYield(h models.History, current *float64, now time.Time) string {
	cutoff := now.AddDate(0, 0, -365)

	paying := false
	var annual float64
	for k, rec := range h {
		if rec.Dividend <= 0 {
			continue
		}
		paying = true
		d, ok := util.ParseDay(k)
		if !ok {
			continue
		}
		if d.After(cutoff) {
			annual += rec.Dividend
		}
	}
	if !paying || annual <= 0 {
		return noData
	}
	if current == nil || *current <= 0 {
		return noData
	}
	return fmt.Sprintf("%.2f%%", annual / *current * 100)
}

// projectNextDividend infers the next payout date from the months and
// days of the most recent dividend payments.
func projectNextDividend(h models.History, now time.Time) string {
	var paid []time.Time
	for k, rec := range h {
		if rec.Dividend <= 0 {
			continue
		}
		if d, ok := util.ParseDay(k); ok {
			paid = append(paid, d)
		}
	}
	if len(paid) == 0 {
		return noData
	}
	sort.Slice(paid, func(i, j int) bool { return paid[i].Before(paid[j]) })
	if len(paid) > recentDividendCap {
		paid = paid[len(paid)-recentDividendCap:]
	}

	// Distinct payout months, ascending, with the average day of
	// month each one pays on.
	seen := make(map[int][]int)
	for _, d := range paid {
		m := int(d.Month())
		seen[m] = append(seen[m], d.Day())
	}
	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)

	avgDay := make(map[int]int, len(months))
	for _, m := range months {
		days := seen[m]
		if len(days) == 0 {
			avgDay[m] = defaultPayoutDay
			continue
		}
		sum := 0
		for _, d := range days {
			sum += d
		}
		avgDay[m] = int(math.Round(float64(sum) / float64(len(days))))
	}

	curMonth, curDay := int(now.Month()), now.Day()
	nextYear := now.Year()
	nextMonth, nextDay := 0, 0
	for _, m := range months {
		if m == curMonth && curDay < avgDay[m] {
			nextMonth, nextDay = m, avgDay[m]
			break
		}
		if m > curMonth {
			nextMonth, nextDay = m, avgDay[m]
			break
		}
	}
	if nextMonth == 0 {
		// Every payout month has passed this year; wrap to the
		// earliest one next year.
		nextMonth = months[0]
		nextDay = avgDay[nextMonth]
		nextYear++
	}

	return fmt.Sprintf("次回予想: %d年%d月%d日頃", nextYear, nextMonth, nextDay)
}
