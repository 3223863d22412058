package market

import (
	"testing"
	"time"

	"EtfView/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePriceNear(t *testing.T) {
	h := models.History{
		"2025-06-13": {Close: 101.5}, // Friday
		"2025-06-16": {Close: 102.0}, // Monday
	}

	tests := []struct {
		name   string
		date   time.Time
		want   float64
		wantOK bool
	}{
		{name: "exact hit walks zero steps", date: day(2025, 6, 16), want: 102.0, wantOK: true},
		{name: "weekend falls back to friday", date: day(2025, 6, 15), want: 101.5, wantOK: true},
		{name: "nine days back still found", date: day(2025, 6, 25), want: 102.0, wantOK: true},
		{name: "ten days back is out of reach", date: day(2025, 6, 26), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolvePriceNear(h, tt.date)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolvePriceNearEmptyHistory(t *testing.T) {
	_, ok := ResolvePriceNear(models.History{}, day(2025, 6, 16))
	assert.False(t, ok)
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name string
		old  *float64
		new  *float64
		want *float64
	}{
		{name: "up ten percent", old: fptr(100), new: fptr(110), want: fptr(10)},
		{name: "down ten percent", old: fptr(100), new: fptr(90), want: fptr(-10)},
		{name: "zero old price", old: fptr(0), new: fptr(50), want: nil},
		{name: "nil old price", old: nil, new: fptr(50), want: nil},
		{name: "nil new price", old: fptr(50), new: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PctChange(tt.old, tt.new)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

// noon returns a JST wall-clock instant suitable for freezing the
// engine's "now".
func noon(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, tokyo)
}

func TestEnrichPricesAndChanges(t *testing.T) {
	// Target Friday 2025-06-20; anchors resolved by backward walk.
	refs := NewReferenceDates(day(2025, 6, 20))
	h := models.History{
		refs.Target.Format(DateFormat):   {Close: 110.456},
		refs.Prev.Format(DateFormat):     {Close: 100},
		refs.Week.Format(DateFormat):     {Close: 100},
		refs.TwoWeeks.Format(DateFormat): {Close: 50},
		refs.Year.Format(DateFormat):     {Close: 220.912},
	}

	e := NewEngine(FixedClock(noon(2025, 6, 20)))
	row := e.Enrich(models.Instrument{Code: "1306"}, h, refs)

	require.NotNil(t, row.Price)
	assert.Equal(t, 110.46, *row.Price) // display rounding only

	require.NotNil(t, row.Change1dPct)
	assert.InDelta(t, 10.456, *row.Change1dPct, 1e-9) // unrounded math

	require.NotNil(t, row.Change2wPct)
	assert.InDelta(t, 120.912, *row.Change2wPct, 1e-9)

	require.NotNil(t, row.Change1yPct)
	assert.InDelta(t, -50.0, *row.Change1yPct, 1e-9)
}

func TestEnrichNoDataAtAll(t *testing.T) {
	refs := NewReferenceDates(day(2025, 6, 20))
	e := NewEngine(FixedClock(noon(2025, 6, 20)))
	row := e.Enrich(models.Instrument{Code: "1306"}, models.History{}, refs)

	assert.Nil(t, row.Price)
	assert.Nil(t, row.Change1dPct)
	assert.Nil(t, row.Change1yPct)
	assert.Equal(t, "-", row.DividendYield)
	assert.Equal(t, "-", row.DividendDate)
}

func TestTrailingYield(t *testing.T) {
	refs := NewReferenceDates(day(2025, 6, 20))
	now := noon(2025, 6, 20)

	t.Run("no dividend records means dash regardless of price", func(t *testing.T) {
		h := models.History{refs.Target.Format(DateFormat): {Close: 100}}
		row := NewEngine(FixedClock(now)).Enrich(models.Instrument{}, h, refs)
		assert.Equal(t, "-", row.DividendYield)
	})

	t.Run("trailing 365d sum over current price", func(t *testing.T) {
		h := models.History{
			refs.Target.Format(DateFormat): {Close: 100},
			"2025-03-10":                   {Close: 98, Dividend: 1.5},
			"2024-09-10":                   {Close: 95, Dividend: 1.5},
			"2023-09-10":                   {Close: 90, Dividend: 9}, // outside window
		}
		row := NewEngine(FixedClock(now)).Enrich(models.Instrument{}, h, refs)
		assert.Equal(t, "3.00%", row.DividendYield)
	})

	t.Run("paying history but nothing in the window", func(t *testing.T) {
		h := models.History{
			refs.Target.Format(DateFormat): {Close: 100},
			"2022-03-10":                   {Close: 98, Dividend: 1.5},
		}
		row := NewEngine(FixedClock(now)).Enrich(models.Instrument{}, h, refs)
		assert.Equal(t, "-", row.DividendYield)
	})

	t.Run("no resolvable price means dash", func(t *testing.T) {
		h := models.History{
			"2025-03-10": {Close: 98, Dividend: 1.5},
		}
		row := NewEngine(FixedClock(now)).Enrich(models.Instrument{}, h, refs)
		assert.Equal(t, "-", row.DividendYield)
	})
}

// dividend history paying in March and September, always on the 15th.
func marchSeptemberHistory() models.History {
	h := models.History{}
	for _, k := range []string{
		"2023-03-15", "2023-09-15",
		"2024-03-15", "2024-09-15",
		"2025-03-15",
	} {
		h[k] = models.DailyRecord{Close: 100, Dividend: 1}
	}
	return h
}

func TestProjectNextDividend(t *testing.T) {
	refs := NewReferenceDates(day(2025, 2, 28))
	h := marchSeptemberHistory()

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "before average day in payout month", now: noon(2025, 3, 10), want: "次回予想: 2025年3月15日頃"},
		{name: "past average day rolls to next payout month", now: noon(2025, 3, 20), want: "次回予想: 2025年9月15日頃"},
		{name: "past all payout months wraps to next year", now: noon(2025, 10, 1), want: "次回予想: 2026年3月15日頃"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewEngine(FixedClock(tt.now)).Enrich(models.Instrument{}, h, refs)
			assert.Equal(t, tt.want, row.DividendDate)
		})
	}
}

func TestProjectionCapsAtRecentPayments(t *testing.T) {
	// 30 monthly payments on the 1st, then the cap should retain only
	// the most recent 24; all months still covered for a monthly payer.
	h := models.History{}
	d := day(2022, 1, 1)
	for i := 0; i < 30; i++ {
		h[d.Format(DateFormat)] = models.DailyRecord{Close: 100, Dividend: 0.5}
		d = d.AddDate(0, 1, 0)
	}
	refs := NewReferenceDates(day(2024, 6, 14))
	row := NewEngine(FixedClock(noon(2024, 6, 10))).Enrich(models.Instrument{}, h, refs)
	// Monthly payer paying on the 1st: the 10th is already past June's
	// average day, so July 1st is next.
	assert.Equal(t, "次回予想: 2024年7月1日頃", row.DividendDate)
}

func TestEnrichDeterministic(t *testing.T) {
	refs := NewReferenceDates(day(2025, 6, 20))
	h := marchSeptemberHistory()
	h[refs.Target.Format(DateFormat)] = models.DailyRecord{Close: 123.456}

	clock := FixedClock(noon(2025, 6, 20))
	a := NewEngine(clock).Enrich(models.Instrument{Code: "1306"}, h, refs)
	b := NewEngine(clock).Enrich(models.Instrument{Code: "1306"}, h, refs)
	assert.Equal(t, a, b)
}
