package aging

import (
	"encoding/json"

	"APAgingSuite/api/constants"
	core "APAgingSuite/internal/aging"
	"APAgingSuite/internal/pipeline"

	"github.com/shopspring/decimal"
)

type rowView struct {
	Supplier   string        `json:"supplier"`
	VendorName string        `json:"vendor_name"`
	Buckets    []json.Number `json:"buckets"`
	Total      json.Number   `json:"total_balance"`
}

type pivotView struct {
	Columns []string  `json:"columns"`
	Rows    []rowView `json:"rows"`
}

type summaryRowView struct {
	Unit    string  `json:"unit"`
	Total   int64   `json:"total"`
	Buckets []int64 `json:"buckets"`
}

type summaryView struct {
	Title   string           `json:"title"`
	Empty   bool             `json:"empty"`
	Message string           `json:"message,omitempty"`
	Columns []string         `json:"columns"`
	Rows    []summaryRowView `json:"rows"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newPivotView(p core.Pivot) pivotView {
	v := pivotView{Columns: core.Columns(), Rows: make([]rowView, 0, len(p.Rows))}
	for _, r := range p.Rows {
		rv := rowView{
			Supplier:   r.Supplier,
			VendorName: r.VendorName,
			Buckets:    make([]json.Number, 0, core.BucketCount),
			Total:      number(r.Total),
		}
		for _, b := range r.Buckets {
			rv.Buckets = append(rv.Buckets, number(b))
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}

func newSummaryView(s core.Summary) summaryView {
	v := summaryView{
		Title:   s.Title,
		Empty:   s.Empty,
		Message: s.Message,
		Columns: core.SummaryColumns(),
		Rows:    make([]summaryRowView, 0, len(s.Rows)),
	}
	for _, r := range s.Rows {
		v.Rows = append(v.Rows, summaryRowView{Unit: r.Unit, Total: r.Total, Buckets: r.Buckets[:]})
	}
	return v
}

// analysisPayload is the body of a successful analyze call, minus the success flag.
func analysisPayload(rep *pipeline.Report) map[string]interface{} {
	var reportDate interface{}
	if rep.ReportDate != nil {
		reportDate = rep.ReportDate.Format(constants.DateFormat)
	}
	summaries := make([]summaryView, 0, len(rep.Summaries))
	for _, s := range rep.Summaries {
		summaries = append(summaries, newSummaryView(s))
	}
	return map[string]interface{}{
		"run_id":       rep.RunID,
		"source":       rep.Source,
		"source_sha":   rep.SourceSHA,
		"report_date":  reportDate,
		"file_name":    rep.FileName,
		"currency":     rep.Currency,
		"eur_rate":     number(rep.EURRate),
		"record_count": rep.Records,
		"pivots": map[string]pivotView{
			"ap":    newPivotView(rep.Pivots.AP),
			"dp":    newPivotView(rep.Pivots.DP),
			"debit": newPivotView(rep.Pivots.Debit),
		},
		"summaries": summaries,
	}
}
