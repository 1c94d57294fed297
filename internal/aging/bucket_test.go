package aging

import (
	"testing"
	"time"

	"APAgingSuite/internal/ledger"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		days int
		want Bucket
	}{
		{-400, NotDue},
		{-1, NotDue},
		{0, Days1To30},
		{1, Days1To30},
		{30, Days1To30},
		{31, Days31To60},
		{60, Days31To60},
		{61, Days61To90},
		{90, Days61To90},
		{91, Days90Plus},
		{3650, Days90Plus},
	}
	for _, tt := range tests {
		if got := BucketFor(tt.days); got != tt.want {
			t.Errorf("BucketFor(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestBucketLabelsOrder(t *testing.T) {
	want := []string{"Not Due", "1-30 Days", "31-60 Days", "61-90 Days", "90+ Days"}
	got := BucketLabels()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
		if Buckets[i].String() != want[i] {
			t.Errorf("Buckets[%d] = %q, want %q", i, Buckets[i], want[i])
		}
	}
	if Bucket(7).String() != "Unknown" {
		t.Errorf("out of range bucket = %q", Bucket(7).String())
	}
}

func TestClassifierUsesLatestPostingDate(t *testing.T) {
	records := []ledger.Record{
		{PostingDate: date(2024, 1, 10), PaymentDate: date(2024, 3, 1)},
		{PostingDate: date(2024, 3, 31), PaymentDate: date(2024, 3, 31)},
		{PostingDate: nil, PaymentDate: date(2024, 3, 30)},
		{PostingDate: date(2024, 2, 1), PaymentDate: date(2024, 4, 1)},
		{PostingDate: date(2024, 2, 1), PaymentDate: nil},
		{PostingDate: date(2024, 2, 1), PaymentDate: date(2023, 12, 1)},
	}
	c := NewClassifier(records)

	reportDate, ok := c.ReportDate()
	if !ok || !reportDate.Equal(*date(2024, 3, 31)) {
		t.Fatalf("ReportDate = %v, %v; want 2024-03-31", reportDate, ok)
	}

	want := []Bucket{Days1To30, Days1To30, Days1To30, NotDue, NotDue, Days90Plus}
	got := c.Classify(records)
	for i := range want {
		if got[i].Bucket != want[i] {
			t.Errorf("record %d: bucket %s, want %s", i, got[i].Bucket, want[i])
		}
	}

	again := c.Classify(records)
	for i := range got {
		if got[i].Bucket != again[i].Bucket {
			t.Errorf("record %d classified differently on rerun", i)
		}
	}
}

func TestClassifierBoundaries(t *testing.T) {
	c := NewClassifier([]ledger.Record{{PostingDate: date(2024, 3, 31)}})
	tests := []struct {
		name    string
		payment *time.Time
		want    Bucket
	}{
		{"same day", date(2024, 3, 31), Days1To30},
		{"30 days", date(2024, 3, 1), Days1To30},
		{"31 days", date(2024, 2, 29), Days31To60},
		{"one day ahead", date(2024, 4, 1), NotDue},
		{"absent", nil, NotDue},
		{"91 days", date(2023, 12, 31), Days90Plus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Bucket(tt.payment); got != tt.want {
				t.Errorf("Bucket = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifierWithoutPostingDates(t *testing.T) {
	records := []ledger.Record{
		{PaymentDate: date(2020, 1, 1)},
		{PaymentDate: date(2030, 1, 1)},
		{},
	}
	c := NewClassifier(records)
	if _, ok := c.ReportDate(); ok {
		t.Fatal("expected no report date")
	}
	for i, rec := range c.Classify(records) {
		if rec.Bucket != NotDue {
			t.Errorf("record %d: bucket %s, want Not Due", i, rec.Bucket)
		}
	}
}
