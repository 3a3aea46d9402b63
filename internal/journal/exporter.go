package journal

import (
	"encoding/csv"
	"fmt"
	"io"

	"go.uber.org/zap"

	"trade-journal-go/internal/store"
)

// Exporter writes the full store contents as interchange CSV.
type Exporter struct {
	store  *store.TradeStore
	logger *zap.Logger
}

// NewExporter creates an exporter reading from the given store.
func NewExporter(s *store.TradeStore, logger *zap.Logger) *Exporter {
	return &Exporter{store: s, logger: logger}
}

// ExportCSV writes every stored trade to w and returns how many were
// written. An empty store fails with an ExportError wrapping
// ErrNothingToExport before anything touches the sink, so callers can
// distinguish "no data yet" from a broken destination.
func (ex *Exporter) ExportCSV(w io.Writer) (int, error) {
	trades, err := ex.store.GetAll()
	if err != nil {
		return 0, err
	}
	if len(trades) == 0 {
		return 0, &ExportError{Err: ErrNothingToExport}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, &ExportError{Err: fmt.Errorf("writing header: %w", err)}
	}
	for i := range trades {
		if err := writer.Write(tradeToRecord(&trades[i])); err != nil {
			return 0, &ExportError{Err: fmt.Errorf("writing trade %s: %w", trades[i].ID, err)}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, &ExportError{Err: err}
	}

	ex.logger.Info("CSV export finished", zap.Int("exported", len(trades)))
	return len(trades), nil
}
