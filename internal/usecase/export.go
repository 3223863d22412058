package usecase

import (
	"strconv"
	"strings"

	"EtfView/internal/domain/models"
)

var exportHeader = []string{
	"code", "name", "benchmark", "management", "fee",
	"price", "change_1d_pct", "change_1w_pct", "change_2w_pct", "change_1y_pct",
	"dividend_yield", "dividend_date",
}

// ExportCSV renders rows as CSV for download. The contract differs
// from encoding/csv: every text field is quoted (embedded quotes
// doubled), numeric fields pass through bare, and a missing numeric
// is an empty quoted field.
func ExportCSV(rows []models.EnrichedRow) string {
	var b strings.Builder

	for i, h := range exportHeader {
		if i > 0 {
			b.WriteByte(',')
		}
		writeText(&b, h)
	}
	b.WriteString("\r\n")

	for _, r := range rows {
		writeText(&b, r.Code)
		b.WriteByte(',')
		writeText(&b, r.Name)
		b.WriteByte(',')
		writeText(&b, r.Benchmark)
		b.WriteByte(',')
		writeText(&b, r.Management)
		b.WriteByte(',')
		writeText(&b, r.Fee)
		b.WriteByte(',')
		writeNumeric(&b, r.Price)
		b.WriteByte(',')
		writeNumeric(&b, r.Change1dPct)
		b.WriteByte(',')
		writeNumeric(&b, r.Change1wPct)
		b.WriteByte(',')
		writeNumeric(&b, r.Change2wPct)
		b.WriteByte(',')
		writeNumeric(&b, r.Change1yPct)
		b.WriteByte(',')
		writeText(&b, r.DividendYield)
		b.WriteByte(',')
		writeText(&b, r.DividendDate)
		b.WriteString("\r\n")
	}
	return b.String()
}

func writeText(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}

func writeNumeric(b *strings.Builder, v *float64) {
	if v == nil {
		b.WriteString(`""`)
		return
	}
	b.WriteString(strconv.FormatFloat(*v, 'f', -1, 64))
}
