package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Columns of the vendor line item export.
const (
	ColSupplier    = "Supplier"
	ColVendorName  = "Vendor name"
	ColPostingDate = "Posting Date"
	ColPaymentDate = "Payment date"
	ColAmount      = "Amount in local currency"
	ColGLAccount   = "G/L Account"
)

const (
	DefaultSupplier   = "N/A"
	DefaultVendorName = "Unknown"
)

var RequiredColumns = []string{
	ColSupplier, ColVendorName, ColPostingDate, ColPaymentDate, ColAmount, ColGLAccount,
}

var ErrMissingColumns = errors.New("missing required columns")

// SchemaError lists the required columns absent from an upload.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumns }

// Record is one cleaned ledger line. A nil date means the cell was empty or unparseable.
type Record struct {
	Supplier    string
	VendorName  string
	PostingDate *time.Time
	PaymentDate *time.Time
	Amount      decimal.Decimal
	GLAccount   string
}

// CheckSchema returns a *SchemaError naming every missing required column.
func CheckSchema(t *Table) error {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Normalize cleans every row of t into a Record, preserving row order.
// Bad cells fall back to defaults; only a missing column is an error.
func Normalize(t *Table) ([]Record, error) {
	if err := CheckSchema(t); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, normalizeRow(t, row))
	}
	return records, nil
}

func normalizeRow(t *Table, row []string) Record {
	rec := Record{
		Supplier:   orDefault(t.Value(row, ColSupplier), DefaultSupplier),
		VendorName: orDefault(t.Value(row, ColVendorName), DefaultVendorName),
		Amount:     parseAmount(t.Value(row, ColAmount)),
		GLAccount:  canonicalGLAccount(t.Value(row, ColGLAccount)),
	}
	if d, ok := parseDate(t.Value(row, ColPostingDate)); ok {
		rec.PostingDate = &d
	}
	if d, ok := parseDate(t.Value(row, ColPaymentDate)); ok {
		rec.PaymentDate = &d
	}
	return rec
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
