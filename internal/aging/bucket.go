package aging

import (
	"time"

	"APAgingSuite/internal/ledger"
)

// Bucket is a days-overdue range. The order of Buckets is also the column order of every report.
type Bucket int

const (
	NotDue Bucket = iota
	Days1To30
	Days31To60
	Days61To90
	Days90Plus

	BucketCount = 5
)

var bucketLabels = [BucketCount]string{"Not Due", "1-30 Days", "31-60 Days", "61-90 Days", "90+ Days"}

// Buckets lists every bucket in report order.
var Buckets = [BucketCount]Bucket{NotDue, Days1To30, Days31To60, Days61To90, Days90Plus}

func (b Bucket) String() string {
	if b < 0 || int(b) >= BucketCount {
		return "Unknown"
	}
	return bucketLabels[b]
}

// BucketLabels returns the column headers in report order.
func BucketLabels() []string {
	out := make([]string, BucketCount)
	copy(out, bucketLabels[:])
	return out
}

// BucketFor maps a day difference (report date minus payment date) to a bucket.
// Upper bounds are inclusive; zero days is already 1-30.
func BucketFor(days int) Bucket {
	switch {
	case days < 0:
		return NotDue
	case days <= 30:
		return Days1To30
	case days <= 60:
		return Days31To60
	case days <= 90:
		return Days61To90
	default:
		return Days90Plus
	}
}

// Classified is a cleaned record with its aging bucket.
type Classified struct {
	ledger.Record
	Bucket Bucket
}

// Classifier ages payment dates against one report date fixed for the run.
type Classifier struct {
	reportDate time.Time
	valid      bool
}

// NewClassifier uses the latest posting date in records as the report date.
// Without any posting date every record classifies as Not Due.
func NewClassifier(records []ledger.Record) Classifier {
	var c Classifier
	for _, r := range records {
		if r.PostingDate == nil {
			continue
		}
		if !c.valid || r.PostingDate.After(c.reportDate) {
			c.reportDate = *r.PostingDate
			c.valid = true
		}
	}
	return c
}

// ReportDate returns the reference date and whether one could be derived.
func (c Classifier) ReportDate() (time.Time, bool) {
	return c.reportDate, c.valid
}

// Bucket classifies a single payment date. A missing date is Not Due.
func (c Classifier) Bucket(paymentDate *time.Time) Bucket {
	if !c.valid || paymentDate == nil {
		return NotDue
	}
	return BucketFor(daysBetween(*paymentDate, c.reportDate))
}

// Classify tags every record, keeping input order.
func (c Classifier) Classify(records []ledger.Record) []Classified {
	out := make([]Classified, len(records))
	for i, r := range records {
		out[i] = Classified{Record: r, Bucket: c.Bucket(r.PaymentDate)}
	}
	return out
}

// daysBetween counts calendar days from a to b, negative when a is after b.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
