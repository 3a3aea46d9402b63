package journal

import (
	"errors"
	"fmt"
)

// ErrNothingToExport signals an export attempted on an empty store. It is
// a distinct condition from a broken sink; the caller can tell the user
// there is simply no data yet.
var ErrNothingToExport = errors.New("no trades to export")

// ImportError aborts a CSV import batch. It is only raised for an
// identifier that cannot be parsed; rows written before the offending one
// stay in the store.
type ImportError struct {
	Row int // 0-based position of the offending row
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import aborted at row %d: %v", e.Row, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// ExportError reports a failed export: either nothing to export, or the
// sink could not be written.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed: %v", e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
