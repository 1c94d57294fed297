package ledger

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Upper bound of the Excel 1900 date system (9999-12-31).
const maxExcelSerial = 2958465

// bareYear is a four digit year typed as text, "2024".
var bareYear = regexp.MustCompile(`^(1[89]|2[0-9])[0-9]{2}$`)

// groupedAmount only matches comma thousands groups: 1,234 or -12,345,678.90.
var groupedAmount = regexp.MustCompile(`^[+-]?[0-9]{1,3}(,[0-9]{3})+(\.[0-9]+)?$`)

// Layouts tried in order. ISO and SAP dotted forms first, then month-first
// slashes before day-first so 03/04/2024 reads as 4 March like spreadsheet tools do.
var dateLayouts = []string{
	"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339, "2006-01-02 15:04",
	"02.01.2006", "2.1.2006", "02.01.2006 15:04:05",
	"01/02/2006", "1/2/2006", "01/02/2006 15:04:05", "1/2/2006 15:04", "01/02/06", "1/2/06",
	"02/01/2006", "2/1/2006",
	"2006/01/02", "2006.01.02", "20060102",
	"02-Jan-2006", "2-Jan-2006", "02-Jan-06", "02 Jan 2006", "2 Jan 2006", "Jan 2, 2006", "January 2, 2006",
	"02-01-2006",
}

// parseDate converts a cell into a calendar date. Excel serials are accepted
// because spreadsheets store dates as numbers. The time of day is dropped.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return time.Time{}, false
	}
	if bareYear.MatchString(s) {
		y, _ := strconv.Atoi(s)
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f >= 1 && f <= maxExcelSerial {
			t, err := excelize.ExcelDateToTime(f, false)
			if err != nil {
				return time.Time{}, false
			}
			return truncateDay(t), true
		}
		// yyyymmdd as a plain number
		if t, err := time.Parse("20060102", s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseAmount returns zero for anything that is not a finite decimal.
// Comma thousands groups are accepted and a trailing minus (SAP style) negates.
// Decimal commas ("12,5", "1.000,50") are not amounts.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero
	}
	if strings.HasSuffix(s, "-") && !strings.HasPrefix(s, "-") {
		s = "-" + strings.TrimSpace(strings.TrimSuffix(s, "-"))
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	if !groupedAmount.MatchString(s) {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "")); err == nil {
		return d
	}
	return decimal.Zero
}

// canonicalGLAccount undoes float coercion of numeric account codes:
// "16740100.0" becomes "16740100". Non-numeric codes are kept trimmed.
func canonicalGLAccount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d.Truncate(0).String()
	}
	for strings.HasSuffix(s, ".0") {
		s = strings.TrimSuffix(s, ".0")
	}
	return s
}
