package market

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"EtfView/internal/domain/models"
	"EtfView/pkg/util"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column keys, matching the JSON field names of EnrichedRow.
const (
	ColumnCode          = "code"
	ColumnName          = "name"
	ColumnBenchmark     = "benchmark"
	ColumnManagement    = "management"
	ColumnFee           = "fee"
	ColumnPrice         = "price"
	ColumnChange1d      = "change_1d_pct"
	ColumnChange1w      = "change_1w_pct"
	ColumnChange2w      = "change_2w_pct"
	ColumnChange1y      = "change_1y_pct"
	ColumnDividendYield = "dividend_yield"
	ColumnDividendDate  = "dividend_date"
)

const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

var (
	isoDateRe    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	payoutDateRe = regexp.MustCompile(`次回予想:\s*(\d{4})年(\d{1,2})月(\d{1,2})日`)
)

// SortRows returns a freshly ordered copy of rows; the input slice is
// untouched so re-renders keep the original fetch order. The sort is
// stable: equal keys preserve relative input order.
//
// Three comparison regimes, on purpose kept distinct:
//   - numeric-like columns map "no data" to ±Inf so it lands last in
//     either direction;
//   - the projection column maps unparsable text to the zero time, so
//     it sorts first ascending and last descending;
//   - everything else collates as Japanese text.
func SortRows(rows []models.EnrichedRow, column, direction string) []models.EnrichedRow {
	out := slices.Clone(rows)
	desc := direction == DirectionDesc

	switch column {
	case ColumnPrice, ColumnChange1d, ColumnChange1w, ColumnChange2w, ColumnChange1y, ColumnDividendYield:
		slices.SortStableFunc(out, func(a, b models.EnrichedRow) int {
			ka := numericKey(a, column, desc)
			kb := numericKey(b, column, desc)
			if desc {
				ka, kb = kb, ka
			}
			switch {
			case ka < kb:
				return -1
			case ka > kb:
				return 1
			default:
				return 0
			}
		})
	case ColumnDividendDate:
		slices.SortStableFunc(out, func(a, b models.EnrichedRow) int {
			ta := parseEmbeddedDate(a.DividendDate)
			tb := parseEmbeddedDate(b.DividendDate)
			if desc {
				ta, tb = tb, ta
			}
			return ta.Compare(tb)
		})
	default:
		col := collate.New(language.Japanese)
		slices.SortStableFunc(out, func(a, b models.EnrichedRow) int {
			va := textValue(a, column)
			vb := textValue(b, column)
			if desc {
				va, vb = vb, va
			}
			return col.CompareString(va, vb)
		})
	}
	return out
}

// numericKey coerces a cell to a sortable float. Missing or
// unparsable values become +Inf ascending and -Inf descending, which
// places them last under either direction.
func numericKey(r models.EnrichedRow, column string, desc bool) float64 {
	missing := math.Inf(1)
	if desc {
		missing = math.Inf(-1)
	}

	var v *float64
	switch column {
	case ColumnPrice:
		v = r.Price
	case ColumnChange1d:
		v = r.Change1dPct
	case ColumnChange1w:
		v = r.Change1wPct
	case ColumnChange2w:
		v = r.Change2wPct
	case ColumnChange1y:
		v = r.Change1yPct
	case ColumnDividendYield:
		return parseNumericText(r.DividendYield, missing)
	}
	if v == nil {
		return missing
	}
	return *v
}

// parseNumericText strips a trailing percent sign and thousands
// separators before parsing.
func parseNumericText(s string, missing float64) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return missing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return missing
	}
	return f
}

// parseEmbeddedDate extracts a comparable instant from free text: a
// plain ISO date substring is tried first, then the localized
// projection sentence. Text matching neither compares as the zero
// time.
func parseEmbeddedDate(s string) time.Time {
	if m := isoDateRe.FindString(s); m != "" {
		if t, ok := util.ParseDay(m); ok {
			return t
		}
	}
	if m := payoutDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

func textValue(r models.EnrichedRow, column string) string {
	switch column {
	case ColumnCode:
		return r.Code
	case ColumnName:
		return r.Name
	case ColumnBenchmark:
		return r.Benchmark
	case ColumnManagement:
		return r.Management
	case ColumnFee:
		return r.Fee
	default:
		return ""
	}
}
