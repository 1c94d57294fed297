// Command apaging runs the aging report on a local ledger export and writes the workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"APAgingSuite/internal/aging"
	"APAgingSuite/internal/config"
	"APAgingSuite/internal/logger"
	"APAgingSuite/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "apaging:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("apaging", flag.ContinueOnError)
	file := fs.String("file", "", "ledger export (.xlsx, .xls or .csv)")
	rate := fs.String("rate", config.DefaultEURRate, "local currency units per EUR")
	currency := fs.String("currency", config.DefaultCurrency, "local currency code")
	out := fs.String("out", ".", "output directory or .xlsx path")
	quiet := fs.Bool("quiet", false, "only log warnings and errors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}

	eurRate, err := decimal.NewFromString(strings.TrimSpace(*rate))
	if err != nil {
		return fmt.Errorf("invalid -rate %q: %w", *rate, err)
	}

	l := logger.New()
	if *quiet {
		l = l.Level(zerolog.WarnLevel)
	}
	ctx := logger.WithContext(context.Background(), l)

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	rep, err := pipeline.RunFile(ctx, filepath.Base(*file), data, pipeline.Options{
		EURRate:  eurRate,
		Currency: strings.ToUpper(*currency),
	})
	if err != nil {
		return err
	}

	dest := *out
	if !strings.EqualFold(filepath.Ext(dest), ".xlsx") {
		dest = filepath.Join(dest, rep.FileName)
	}
	if err := os.WriteFile(dest, rep.Workbook, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if rep.ReportDate != nil {
		fmt.Fprintf(stdout, "Report date: %s\n\n", rep.ReportDate.Format("02.01.2006"))
	}
	for _, s := range rep.Summaries {
		printSummary(stdout, s)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", dest)
	return nil
}

func printSummary(w io.Writer, s aging.Summary) {
	fmt.Fprintln(w, s.Title)
	if s.Empty {
		fmt.Fprintf(w, "%s\n\n", s.Message)
		return
	}
	// thousands grouped with commas: 1,234,567
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(aging.SummaryColumns(), "\t")+"\t")
	for _, r := range s.Rows {
		cells := []string{r.Unit, p.Sprintf("%d", r.Total)}
		for _, b := range r.Buckets {
			cells = append(cells, p.Sprintf("%d", b))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	tw.Flush()
	fmt.Fprintln(w)
}
