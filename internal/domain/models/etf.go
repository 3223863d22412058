package models

// Instrument is one exchange-traded fund as listed on the exchange page.
// Identity fields are kept verbatim as scraped; Symbol is the derived
// market-data ticker (securities code + ".T").
type Instrument struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Benchmark  string `json:"benchmark"`
	Management string `json:"management"`
	Fee        string `json:"fee"`
	Symbol     string `json:"-"`
}

// DailyRecord is one trading day of an instrument's history.
type DailyRecord struct {
	Close    float64 `json:"close"`
	Dividend float64 `json:"dividend"`
}

// History maps ISO dates (YYYY-MM-DD) to daily records. Non-trading
// days are simply absent; the map is never mutated by consumers.
type History map[string]DailyRecord

// EnrichedRow is an Instrument plus the fields derived from its price
// and dividend history. Pointer fields are nil when no data could be
// resolved; the string fields degrade to "-".
type EnrichedRow struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Benchmark  string `json:"benchmark"`
	Management string `json:"management"`
	Fee        string `json:"fee"`

	Price         *float64 `json:"price"`
	Change1dPct   *float64 `json:"change_1d_pct"`
	Change1wPct   *float64 `json:"change_1w_pct"`
	Change2wPct   *float64 `json:"change_2w_pct"`
	Change1yPct   *float64 `json:"change_1y_pct"`
	DividendYield string   `json:"dividend_yield"`
	DividendDate  string   `json:"dividend_date"`
}

// NewUnenrichedRow returns a row carrying only the identity fields,
// with every derived field at its "no data" sentinel. Used when the
// history fetch for an instrument fails: the batch continues.
func NewUnenrichedRow(inst Instrument) EnrichedRow {
	return EnrichedRow{
		Code:          inst.Code,
		Name:          inst.Name,
		Benchmark:     inst.Benchmark,
		Management:    inst.Management,
		Fee:           inst.Fee,
		DividendYield: "-",
		DividendDate:  "-",
	}
}

// Candle is one OHLC bar of an intraday series (FX watcher input).
type Candle struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
}
