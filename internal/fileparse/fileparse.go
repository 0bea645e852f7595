// Package fileparse turns uploaded CSV and Excel spreadsheets into
// canonical transaction rows. Heterogeneous inputs (Brazilian-locale and
// ISO dates, comma or dot decimal separators, loosely named columns) are
// normalized deterministically; a row either normalizes successfully or
// contributes exactly one row error, and row errors never abort the rest
// of the file.
package fileparse

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// TransactionRow is one normalized, validated spreadsheet row ready for
// persistence. Amount is an unsigned magnitude; direction is carried by Type.
type TransactionRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        finance.TransactionType
	// Category is the raw user-supplied category name, trimmed, or empty.
	Category string
}

// RowError describes why a single data row was rejected. Row is 1-based
// over the data rows of the original input (header excluded).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ProcessedFileData is the result of parsing one file: the rows that
// normalized successfully, the detected headers, and the per-row errors.
type ProcessedFileData struct {
	Rows    []TransactionRow
	Headers []string
	Errors  []RowError
}

// StructuralError is a file-level defect (missing required column, empty
// or unreadable file, unsupported format) that prevents any row
// processing. It is distinct from row errors, which are data, not errors.
type StructuralError struct {
	msg string
}

func (e *StructuralError) Error() string {
	return e.msg
}

func structuralf(format string, args ...interface{}) *StructuralError {
	return &StructuralError{msg: fmt.Sprintf(format, args...)}
}
