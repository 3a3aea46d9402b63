package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

// Importer merges externally sourced trade rows into the store.
type Importer struct {
	store  *store.TradeStore
	logger *zap.Logger
}

// NewImporter creates an importer writing into the given store.
func NewImporter(s *store.TradeStore, logger *zap.Logger) *Importer {
	return &Importer{store: s, logger: logger}
}

// ImportCSV reads trade rows from r and upserts them, returning the number
// of rows written. Missing fields fall back to defaults: type "buy",
// status "closed", numeric fields 0, identifier "IMPORT_<n>" with the
// row's 0-based position.
//
// A row that fails validation is logged and skipped. The one failure that
// aborts the batch is an unparsable identifier: that returns an
// ImportError naming the row, and rows already written stay written.
func (im *Importer) ImportCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged

	header, err := reader.Read()
	if err != nil {
		return 0, &ImportError{Row: 0, Err: fmt.Errorf("reading header: %w", err)}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	imported := 0
	for n := 0; ; n++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			im.logger.Warn("Skipping unreadable CSV row", zap.Int("row", n), zap.Error(err))
			continue
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		id, err := normalizeID(cell("ID"), n)
		if err != nil {
			return imported, &ImportError{Row: n, Err: err}
		}

		trade := models.Trade{
			ID:         id,
			Symbol:     cell("Symbol"),
			Type:       defaultString(cell("Type"), models.SideBuy),
			Lots:       parseFloatOrZero(cell("Lots")),
			OpenPrice:  parseFloatOrZero(cell("Open Price")),
			ClosePrice: parseOptFloat(cell("Close Price")),
			OpenTime:   parseOptTime(cell("Open Time")),
			CloseTime:  parseOptTime(cell("Close Time")),
			Profit:     parseFloatOrZero(cell("Profit")),
			Commission: parseFloatOrZero(cell("Commission")),
			Swap:       parseFloatOrZero(cell("Swap")),
			Comment:    cell("Comment"),
			Status:     defaultString(cell("Status"), models.StatusClosed),
		}

		if err := trade.Validate(); err != nil {
			im.logger.Warn("Skipping invalid trade row", zap.Int("row", n), zap.Error(err))
			continue
		}

		if err := im.store.Upsert(&trade); err != nil {
			return imported, err
		}
		imported++
	}

	im.logger.Info("CSV import finished", zap.Int("imported", imported))
	return imported, nil
}

// normalizeID canonicalizes the ID cell of row n. An empty cell gets the
// generated placeholder. Numeric-looking cells are treated as broker
// tickets: spreadsheet tools re-render tickets as floats ("184420.0"), so
// those are parsed and re-rendered as integers, and a numeric-looking cell
// that does not parse is identifier corruption. Anything else passes
// through verbatim.
func normalizeID(raw string, n int) (string, error) {
	if raw == "" {
		return fmt.Sprintf("IMPORT_%d", n), nil
	}
	if !looksNumeric(raw) {
		return raw, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", fmt.Errorf("unparsable identifier %q: %w", raw, err)
	}
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10), nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// looksNumeric reports whether s is made up entirely of float syntax
// characters and contains at least one digit.
func looksNumeric(s string) bool {
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.' || r == '+' || r == '-' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return hasDigit
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseOptFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
