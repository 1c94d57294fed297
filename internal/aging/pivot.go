package aging

import (
	"sort"

	"github.com/shopspring/decimal"
)

// General ledger accounts covered by the report.
const (
	GLDownPayments  = "16740100"
	GLVendorPayable = "31210100"
)

const (
	ColSupplier     = "Supplier"
	ColVendorName   = "Vendor name"
	ColTotalBalance = "Total Balance"
)

// Row is one vendor line of a pivot.
type Row struct {
	Supplier   string
	VendorName string
	Buckets    [BucketCount]decimal.Decimal
	Total      decimal.Decimal
}

// Pivot is a vendor by bucket table sorted ascending by total balance.
type Pivot struct {
	Rows []Row
}

// Columns returns the pivot header: identity columns, buckets, then the total.
func Columns() []string {
	cols := []string{ColSupplier, ColVendorName}
	cols = append(cols, BucketLabels()...)
	return append(cols, ColTotalBalance)
}

func (p Pivot) Empty() bool { return len(p.Rows) == 0 }

// BucketTotals sums each bucket column.
func (p Pivot) BucketTotals() [BucketCount]decimal.Decimal {
	var totals [BucketCount]decimal.Decimal
	for _, r := range p.Rows {
		for i := range totals {
			totals[i] = totals[i].Add(r.Buckets[i])
		}
	}
	return totals
}

// GrandTotal sums the Total Balance column.
func (p Pivot) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.Rows {
		total = total.Add(r.Total)
	}
	return total
}

// Filter keeps the rows matching keep without reordering them.
func (p Pivot) Filter(keep func(Row) bool) Pivot {
	var out Pivot
	for _, r := range p.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

type vendorKey struct {
	supplier, vendorName string
}

// BuildPivot groups the records whose account passes keep by (Supplier, Vendor name)
// and sums amounts per bucket. Rows are ordered by total balance; equal totals
// keep supplier then vendor name order.
func BuildPivot(records []Classified, keep func(glAccount string) bool) Pivot {
	groups := make(map[vendorKey]*Row)
	for _, rec := range records {
		if !keep(rec.GLAccount) {
			continue
		}
		key := vendorKey{rec.Supplier, rec.VendorName}
		row, ok := groups[key]
		if !ok {
			row = &Row{Supplier: rec.Supplier, VendorName: rec.VendorName}
			groups[key] = row
		}
		row.Buckets[rec.Bucket] = row.Buckets[rec.Bucket].Add(rec.Amount)
	}

	p := Pivot{Rows: make([]Row, 0, len(groups))}
	for _, row := range groups {
		total := decimal.Zero
		for _, v := range row.Buckets {
			total = total.Add(v)
		}
		row.Total = total
		p.Rows = append(p.Rows, *row)
	}

	sort.Slice(p.Rows, func(i, j int) bool {
		a, b := p.Rows[i], p.Rows[j]
		if a.Supplier != b.Supplier {
			return a.Supplier < b.Supplier
		}
		return a.VendorName < b.VendorName
	})
	sort.SliceStable(p.Rows, func(i, j int) bool {
		return p.Rows[i].Total.LessThan(p.Rows[j].Total)
	})
	return p
}

// Pivots are the three views of one upload.
type Pivots struct {
	AP    Pivot // payables and down payments combined
	DP    Pivot // down payments only
	Debit Pivot // vendor accounts carrying a debit balance
}

func accountIn(accounts ...string) func(string) bool {
	return func(gl string) bool {
		for _, a := range accounts {
			if gl == a {
				return true
			}
		}
		return false
	}
}

// BuildPivots derives the AP, down payment and debit balance views.
func BuildPivots(records []Classified) Pivots {
	ps := Pivots{
		AP: BuildPivot(records, accountIn(GLDownPayments, GLVendorPayable)),
		DP: BuildPivot(records, accountIn(GLDownPayments)),
	}
	payable := BuildPivot(records, accountIn(GLVendorPayable))
	if !payable.Empty() {
		ps.Debit = payable.Filter(func(r Row) bool { return r.Total.IsPositive() })
	}
	return ps
}
