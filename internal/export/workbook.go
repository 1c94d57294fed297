package export

import (
	"errors"
	"fmt"
	"time"

	"APAgingSuite/internal/aging"

	"github.com/xuri/excelize/v2"
)

// Sheet names in workbook order.
const (
	SheetAP     = "AP Aging"
	SheetDP     = "Downpayments"
	SheetDebit  = "Debit Balances"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Column widths: identity columns then the six numeric columns.
const (
	widthSupplier = 15
	widthVendor   = 45
	widthNumeric  = 18
)

var ErrSerialization = errors.New("failed to write workbook")

// SerializationError reports which sheet could not be written.
type SerializationError struct {
	Sheet string
	Err   error
}

func (e *SerializationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s: %v", ErrSerialization, e.Err)
	}
	return fmt.Sprintf("%s: sheet %q: %v", ErrSerialization, e.Sheet, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// Sheet pairs a pivot with its worksheet name.
type Sheet struct {
	Name  string
	Pivot aging.Pivot
}

// FileName is the download name for a report generated at now.
func FileName(now time.Time) string {
	return "AP_Report_" + now.Format("02012006") + ".xlsx"
}

// Report writes the three pivots as AP Aging, Downpayments and Debit Balances.
func Report(ps aging.Pivots) ([]byte, error) {
	return Workbook([]Sheet{
		{Name: SheetAP, Pivot: ps.AP},
		{Name: SheetDP, Pivot: ps.DP},
		{Name: SheetDebit, Pivot: ps.Debit},
	})
}

type styles struct {
	header, text, number int
}

// Workbook renders one worksheet per pivot. Any failure discards the whole workbook.
func Workbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, &SerializationError{Err: errors.New("no sheets to write")}
	}
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	defaultSheet := f.GetSheetName(0)
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return nil, &SerializationError{Sheet: sh.Name, Err: err}
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, &SerializationError{Sheet: sh.Name, Err: err}
		}
		if err := writeSheet(f, sh, st); err != nil {
			return nil, &SerializationError{Sheet: sh.Name, Err: err}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	var (
		st  styles
		err error
	)
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E3A8A"}},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return st, err
	}
	st.text, err = f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return st, err
	}
	// 4 is the built-in "#,##0.00" format
	st.number, err = f.NewStyle(&excelize.Style{
		Border:    border,
		NumFmt:    4,
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	return st, err
}

func writeSheet(f *excelize.File, sh Sheet, st styles) error {
	sw, err := f.NewStreamWriter(sh.Name)
	if err != nil {
		return err
	}
	// widths go on the columns, not the cells, and must precede rows in a stream
	if err := sw.SetColWidth(1, 1, widthSupplier); err != nil {
		return err
	}
	if err := sw.SetColWidth(2, 2, widthVendor); err != nil {
		return err
	}
	if err := sw.SetColWidth(3, len(aging.Columns()), widthNumeric); err != nil {
		return err
	}

	columns := aging.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = excelize.Cell{StyleID: st.header, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for i, r := range sh.Pivot.Rows {
		values := make([]interface{}, 0, len(columns))
		values = append(values,
			excelize.Cell{StyleID: st.text, Value: r.Supplier},
			excelize.Cell{StyleID: st.text, Value: r.VendorName},
		)
		for _, v := range r.Buckets {
			values = append(values, excelize.Cell{StyleID: st.number, Value: v.InexactFloat64()})
		}
		values = append(values, excelize.Cell{StyleID: st.number, Value: r.Total.InexactFloat64()})

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return sw.Flush()
}
