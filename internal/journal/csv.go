package journal

import (
	"strconv"
	"time"

	"trade-journal-go/internal/models"
)

// csvHeader is the interchange column set, in order. Import matches
// columns by name, so reordered or extra columns in a source file are
// tolerated; export always writes this exact header.
var csvHeader = []string{
	"ID", "Symbol", "Type", "Lots", "Open Price", "Close Price",
	"Open Time", "Close Time", "Profit", "Commission", "Swap",
	"Comment", "Status",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// tradeToRecord serializes one trade into a CSV row. Absent optional
// fields become empty cells.
func tradeToRecord(t *models.Trade) []string {
	return []string{
		t.ID,
		t.Symbol,
		t.Type,
		formatFloat(t.Lots),
		formatFloat(t.OpenPrice),
		formatOptFloat(t.ClosePrice),
		formatOptTime(t.OpenTime),
		formatOptTime(t.CloseTime),
		formatFloat(t.Profit),
		formatFloat(t.Commission),
		formatFloat(t.Swap),
		t.Comment,
		t.Status,
	}
}
