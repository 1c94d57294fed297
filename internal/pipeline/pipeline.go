package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"APAgingSuite/internal/aging"
	"APAgingSuite/internal/checksum"
	"APAgingSuite/internal/export"
	"APAgingSuite/internal/ledger"
	"APAgingSuite/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary titles in display order.
const (
	TitleAP    = "1. Total AP Aging Summary"
	TitleDP    = "2. Prepayments (DP) Summary"
	TitleDebit = "3. Debit Balances Summary"
)

var (
	ErrInvalidRate = aging.ErrInvalidRate
	ErrLoad        = errors.New("failed to read uploaded file")
)

// Options are the caller supplied inputs of one run.
type Options struct {
	EURRate  decimal.Decimal
	Currency string
	Source   string
	// Now stamps the download name; defaults to time.Now.
	Now func() time.Time
}

// Report is everything one upload produces. It shares nothing with other runs.
type Report struct {
	RunID       string
	Source      string
	SourceSHA   string
	Currency    string
	EURRate     decimal.Decimal
	ReportDate  *time.Time
	Records     int
	Pivots      aging.Pivots
	Summaries   []aging.Summary
	Workbook    []byte
	FileName    string
	GeneratedAt time.Time
	Duration    time.Duration
}

// RunFile loads an uploaded export and runs the pipeline on it.
func RunFile(ctx context.Context, name string, data []byte, opts Options) (*Report, error) {
	if !opts.EURRate.IsPositive() {
		return nil, ErrInvalidRate
	}
	log := logger.FromContext(ctx)
	log.Info().Str("source", name).Int("bytes", len(data)).Msg("reading file")

	table, err := ledger.Load(name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if opts.Source == "" {
		opts.Source = name
	}
	rep, err := Run(ctx, table, opts)
	if err != nil {
		return nil, err
	}
	rep.SourceSHA = checksum.Sum(data)
	return rep, nil
}

// Run normalizes, ages, pivots, exports and summarizes one table.
// Nothing is written to the workbook unless every step succeeds.
func Run(ctx context.Context, table *ledger.Table, opts Options) (*Report, error) {
	if !opts.EURRate.IsPositive() {
		return nil, ErrInvalidRate
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	start := time.Now()
	rep := &Report{
		RunID:       uuid.NewString(),
		Source:      opts.Source,
		Currency:    opts.Currency,
		EURRate:     opts.EURRate,
		GeneratedAt: now(),
	}
	log := logger.FromContext(ctx).With().Str("run_id", rep.RunID).Str("source", opts.Source).Logger()

	log.Info().Int("rows", len(table.Rows)).Msg("cleaning data")
	records, err := ledger.Normalize(table)
	if err != nil {
		log.Error().Err(err).Msg("input schema rejected")
		return nil, err
	}
	rep.Records = len(records)

	log.Info().Msg("calculating aging")
	classifier := aging.NewClassifier(records)
	if d, ok := classifier.ReportDate(); ok {
		rep.ReportDate = &d
	} else {
		log.Warn().Msg("no posting dates found, every item classified as not due")
	}
	classified := classifier.Classify(records)

	log.Info().Msg("creating tables")
	rep.Pivots = aging.BuildPivots(classified)

	rep.Workbook, err = export.Report(rep.Pivots)
	if err != nil {
		log.Error().Err(err).Msg("workbook export failed")
		return nil, err
	}
	rep.FileName = export.FileName(rep.GeneratedAt)

	for _, v := range []struct {
		title string
		pivot aging.Pivot
	}{
		{TitleAP, rep.Pivots.AP},
		{TitleDP, rep.Pivots.DP},
		{TitleDebit, rep.Pivots.Debit},
	} {
		s, err := aging.Project(v.title, v.pivot, opts.Currency, opts.EURRate)
		if err != nil {
			return nil, err
		}
		rep.Summaries = append(rep.Summaries, s)
	}

	rep.Duration = time.Since(start)
	log.Info().
		Int("records", rep.Records).
		Int("ap_rows", len(rep.Pivots.AP.Rows)).
		Int("dp_rows", len(rep.Pivots.DP.Rows)).
		Int("debit_rows", len(rep.Pivots.Debit.Rows)).
		Dur("duration", rep.Duration).
		Msg("analysis complete")
	return rep, nil
}
