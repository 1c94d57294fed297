package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestLoadXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Supplier", "Vendor name", "Posting Date", "Payment date", "Amount in local currency", "G/L Account"},
		{"100023", "Acme Packaging", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1000, 16740100.0},
		{nil, nil, nil, nil, nil, nil},
		{"100099", "Nile Logistics", "2024-03-15", nil, -500, "31210100"},
	})

	table, err := Load("FBL1N.xlsx", data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank row dropped)", len(table.Rows))
	}
	if err := CheckSchema(table); err != nil {
		t.Fatalf("CheckSchema: %v", err)
	}

	records, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	first := records[0]
	if first.PostingDate == nil || !first.PostingDate.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PostingDate = %v, want 2024-03-31", first.PostingDate)
	}
	if first.GLAccount != "16740100" {
		t.Errorf("GLAccount = %q, want 16740100", first.GLAccount)
	}
	second := records[1]
	if second.PaymentDate != nil {
		t.Errorf("PaymentDate = %v, want absent", second.PaymentDate)
	}
	if second.Amount.String() != "-500" {
		t.Errorf("Amount = %s, want -500", second.Amount)
	}
}

func TestLoadCSV(t *testing.T) {
	data := []byte("Supplier,Vendor name,Posting Date,Payment date,Amount in local currency,G/L Account\n" +
		"100023,\"Acme, Packaging\",2024-03-31,2024-03-01,1000,16740100.0\n" +
		"100024,Short row\n")

	table, err := Load("export.CSV", data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	if got := table.Value(table.Rows[0], ColVendorName); got != "Acme, Packaging" {
		t.Errorf("vendor = %q", got)
	}
	if got := len(table.Rows[1]); got != len(table.Columns) {
		t.Errorf("short row has %d cells, want padding to %d", got, len(table.Columns))
	}
}

func TestLoadXLS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "fbl1n.xls"))
	if err != nil {
		t.Fatal(err)
	}

	table, err := Load("FBL1N.XLS", data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := CheckSchema(table); err != nil {
		t.Fatalf("CheckSchema: %v", err)
	}
	records, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	tests := []struct {
		name    string
		rec     Record
		posting time.Time
		payment *time.Time
		amount  string
		gl      string
	}{
		{"numeric cells", records[0], time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), ptrDate(2024, 3, 1), "1000", "16740100"},
		{"text cells", records[1], time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), nil, "-500", "31210100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rec.PostingDate == nil || !tt.rec.PostingDate.Equal(tt.posting) {
				t.Errorf("PostingDate = %v, want %v", tt.rec.PostingDate, tt.posting)
			}
			switch {
			case tt.payment == nil && tt.rec.PaymentDate != nil:
				t.Errorf("PaymentDate = %v, want absent", tt.rec.PaymentDate)
			case tt.payment != nil && (tt.rec.PaymentDate == nil || !tt.rec.PaymentDate.Equal(*tt.payment)):
				t.Errorf("PaymentDate = %v, want %v", tt.rec.PaymentDate, *tt.payment)
			}
			if tt.rec.Amount.String() != tt.amount {
				t.Errorf("Amount = %s, want %s", tt.rec.Amount, tt.amount)
			}
			if tt.rec.GLAccount != tt.gl {
				t.Errorf("GLAccount = %q, want %q", tt.rec.GLAccount, tt.gl)
			}
		})
	}
	if records[0].Supplier != "100023" || records[1].VendorName != "Nile Logistics" {
		t.Errorf("records = %+v", records)
	}
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLoadCSVWindows1252(t *testing.T) {
	data := []byte("Supplier,Vendor name\n1,Caf\xe9 M\xfcller\n")

	table, err := Load("export.csv", data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := table.Value(table.Rows[0], ColVendorName); got != "Café Müller" {
		t.Errorf("vendor = %q, want Café Müller", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("report.pdf", []byte("%PDF")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("pdf: err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load("empty.csv", nil); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty csv: err = %v, want ErrEmptyFile", err)
	}
	if _, err := Load("broken.xlsx", []byte("not a zip")); err == nil {
		t.Error("broken xlsx: expected error")
	}
	if _, err := Load("broken.xls", []byte("not a compound file")); err == nil {
		t.Error("broken xls: expected error")
	}
}

func TestTableDuplicateHeader(t *testing.T) {
	table := NewTable([]string{" Supplier ", "Supplier", "\ufeffVendor name"}, [][]string{{"a", "b", "c"}})
	if got := table.Value(table.Rows[0], ColSupplier); got != "a" {
		t.Errorf("Supplier = %q, want first occurrence", got)
	}
	if got := table.Value(table.Rows[0], ColVendorName); got != "c" {
		t.Errorf("Vendor name = %q, want BOM stripped header", got)
	}
	if table.Has("Missing") {
		t.Error("Has reported a missing column")
	}
}
