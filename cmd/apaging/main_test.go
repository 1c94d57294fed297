package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ledger.csv")
	csv := "Supplier,Vendor name,Posting Date,Payment date,Amount in local currency,G/L Account\n" +
		"100023,Acme Packaging,31.03.2024,01.03.2024,105000,31210100\n"
	if err := os.WriteFile(src, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "out.xlsx")

	var stdout bytes.Buffer
	if err := run([]string{"-file", src, "-out", dest, "-quiet"}, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("report not written: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{
		"Report date: 31.03.2024",
		"1. Total AP Aging Summary",
		"kEGP",
		"kEUR",
		"2. Prepayments (DP) Summary\nNo data found.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunGroupsThousands(t *testing.T) {
	const header = "Supplier,Vendor name,Posting Date,Payment date,Amount in local currency,G/L Account\n"
	tests := []struct {
		name    string
		row     string
		want    string
		ungroup string
	}{
		{"large balance", "100023,Acme Packaging,31.03.2024,01.03.2024,1234567000,31210100\n", "1,234,567", "1234567"},
		{"credit balance", "100024,Nile Logistics,31.03.2024,01.03.2024,-2500000,31210100\n", "-2,500", "-2500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "ledger.csv")
			if err := os.WriteFile(src, []byte(header+tt.row), 0644); err != nil {
				t.Fatal(err)
			}
			var stdout bytes.Buffer
			if err := run([]string{"-file", src, "-out", filepath.Join(dir, "out.xlsx"), "-rate", "1", "-quiet"}, &stdout); err != nil {
				t.Fatalf("run: %v", err)
			}
			out := stdout.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if strings.Contains(out, tt.ungroup) {
				t.Errorf("ungrouped %q in output:\n%s", tt.ungroup, out)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	var stdout bytes.Buffer
	if err := run([]string{"-quiet"}, &stdout); err == nil {
		t.Error("expected error without -file")
	}
	if err := run([]string{"-file", "x.csv", "-rate", "abc"}, &stdout); err == nil {
		t.Error("expected error for bad rate")
	}
	if err := run([]string{"-file", filepath.Join(t.TempDir(), "missing.csv")}, &stdout); err == nil {
		t.Error("expected error for missing file")
	}
}
