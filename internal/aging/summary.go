package aging

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const NoDataMessage = "No data found."

var ErrInvalidRate = errors.New("eur rate must be a positive number")

var thousand = decimal.NewFromInt(1000)

// SummaryRow holds one unit's totals in thousands, rounded half to even.
type SummaryRow struct {
	Unit    string
	Total   int64
	Buckets [BucketCount]int64
}

// Summary is the two-line on-screen digest of a pivot. Empty marks a pivot with
// no rows; Rows is nil in that case.
type Summary struct {
	Title   string
	Empty   bool
	Message string
	Rows    []SummaryRow
}

// SummaryColumns returns the summary header.
func SummaryColumns() []string {
	return append([]string{"Unit", "Total"}, BucketLabels()...)
}

// Project scales a pivot to thousands of local currency and thousands of EUR.
// The pivot is not modified.
func Project(title string, p Pivot, currency string, eurRate decimal.Decimal) (Summary, error) {
	if !eurRate.IsPositive() {
		return Summary{}, ErrInvalidRate
	}
	s := Summary{Title: title}
	if p.Empty() {
		s.Empty = true
		s.Message = NoDataMessage
		return s, nil
	}

	totals := p.BucketTotals()
	grand := p.GrandTotal()
	local := SummaryRow{Unit: "k" + strings.ToUpper(strings.TrimSpace(currency)), Total: inThousands(grand)}
	eur := SummaryRow{Unit: "kEUR", Total: inThousands(grand.Div(eurRate))}
	for i, v := range totals {
		local.Buckets[i] = inThousands(v)
		eur.Buckets[i] = inThousands(v.Div(eurRate))
	}
	s.Rows = []SummaryRow{local, eur}
	return s, nil
}

func inThousands(v decimal.Decimal) int64 {
	return v.Div(thousand).RoundBank(0).IntPart()
}
