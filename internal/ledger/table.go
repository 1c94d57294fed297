package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	ErrEmptyFile         = errors.New("uploaded file has no header row")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Table is an uploaded sheet: a header row plus data rows addressed by column name.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table from a header and data rows. Header cells are trimmed,
// short rows are padded and fully blank rows are dropped.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		name := strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		t.Columns[i] = name
		// first occurrence wins on duplicated headers
		if _, ok := t.index[name]; !ok && name != "" {
			t.index[name] = i
		}
	}
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		padded := make([]string, len(t.Columns))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

// Index returns the position of a column or -1.
func (t *Table) Index(column string) int {
	if i, ok := t.index[column]; ok {
		return i
	}
	return -1
}

// Has reports whether the header contains column.
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Value returns the cell at row for column, empty when the column is absent.
func (t *Table) Value(row []string, column string) string {
	i := t.Index(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Load parses an uploaded ledger export. The format is chosen from the file extension.
func Load(name string, data []byte) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		rows, err = parseExcelFile(data)
	case ".xls":
		rows, err = parseXLSFile(data)
	case ".csv":
		rows, err = parseCSVFile(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || isEmptyRow(rows[0]) {
		return nil, ErrEmptyFile
	}
	return NewTable(rows[0], rows[1:]), nil
}

// parseExcelFile reads the first sheet with raw cell values so dates arrive as
// Excel serials and account codes keep their stored form.
func parseExcelFile(data []byte) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := xl.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// parseXLSFile reads the first sheet of a legacy BIFF workbook. The reader
// works on paths, so the upload is spooled to a temp file first.
func parseXLSFile(data []byte) ([][]string, error) {
	tmpFile, err := os.CreateTemp("", "ledger-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to spool xls: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()
	if _, err := tmpFile.Write(data); err != nil {
		return nil, fmt.Errorf("failed to spool xls: %w", err)
	}
	tmpFile.Close()

	book, err := xls.OpenFile(tmpFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, ErrEmptyFile
	}

	rows := [][]string{}
	for _, xlsRow := range sheet.GetRows() {
		rowData := []string{}
		for _, col := range xlsRow.GetCols() {
			rowData = append(rowData, col.GetString())
		}
		rows = append(rows, rowData)
	}
	return rows, nil
}

// parseCSVFile accepts UTF-8 or Windows-1252 encoded exports.
func parseCSVFile(data []byte) ([][]string, error) {
	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
