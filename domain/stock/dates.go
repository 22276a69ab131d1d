package stock

import (
	"regexp"
	"strings"
	"time"

	"stocksheet/domain/ingestion"
	"stocksheet/internal/errors"
)

var filenameDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
	regexp.MustCompile(`(\d{4})[/\\](\d{2})[/\\](\d{2})`),
}

// DateFromFilename extracts the trade date from an export filename such as
// "2025-09-01.xlsx" or "2025-09-01-5142.xlsx". Returns "" when no date is
// embedded.
func DateFromFilename(filename string) string {
	for _, pattern := range filenameDatePatterns {
		if m := pattern.FindStringSubmatch(filename); m != nil {
			return m[1] + "-" + m[2] + "-" + m[3]
		}
	}
	return ""
}

// DateFromTable falls back to the sheet's own trade-date column: the first
// row's value, with any time-of-day component dropped.
func DateFromTable(t *ingestion.TargetTable) string {
	if !t.HasField(FieldTradeDate) || len(t.Rows) == 0 {
		return ""
	}
	raw := t.Rows[0][FieldTradeDate].AsText()
	if raw == "" {
		return ""
	}
	return strings.Fields(raw)[0]
}

// ParseDate parses the date formats that appear across exports and queries.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf(errors.CodeRecordInvalid, "unrecognized date: %q", s)
}

// DateRange returns every calendar day from start to end inclusive, formatted
// YYYY-MM-DD.
func DateRange(start, end string) ([]string, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates, nil
}
