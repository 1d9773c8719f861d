package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period derivation. Every source encodes the reporting month differently
// (date columns, filename patterns, in-file range headers), so each parser
// walks its own priority chain of these helpers and falls back to the
// current UTC month. All date math is UTC; local-timezone construction can
// shift a month-boundary date into the wrong period.

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// PeriodFromTime formats a time as a YYYY-MM period key in UTC.
func PeriodFromTime(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// CurrentPeriod is the last-resort fallback: the current UTC year-month.
func CurrentPeriod() string {
	return PeriodFromTime(time.Now())
}

// PeriodFromDateString derives a period from an explicit date cell.
// Accepts YYYY-MM, YYYY-MM-DD, MM/DD/YYYY, and M/D/YY.
func PeriodFromDateString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return PeriodFromTime(t), true
		}
	}

	if t, ok := parseSlashDate(s); ok {
		return PeriodFromTime(t), true
	}
	return "", false
}

// parseSlashDate parses MM/DD/YYYY or M/D/YY into a UTC time.
func parseSlashDate(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

var dotPeriodPattern = regexp.MustCompile(`(?:^|[^\d])(\d{1,2})\.(\d{2})(?:[^\d]|$)`)

// PeriodFromFilename derives a period from a filename carrying either a
// "M.YY" pattern ("Petes 6.25.xlsx" is June 2025) or a month-name plus
// two-digit-year pattern ("Troia Jul 25.csv").
func PeriodFromFilename(name string) (string, bool) {
	if m := dotPeriodPattern.FindStringSubmatch(name); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return fmt.Sprintf("20%02d-%02d", year, month), true
		}
	}
	return PeriodFromMonthName(name)
}

var monthNamePattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s.,'-]*(\d{2,4})\b`)

// PeriodFromMonthName derives a period from text containing a month name
// followed by a 2- or 4-digit year ("Jul 25", "July 2025").
func PeriodFromMonthName(text string) (string, bool) {
	m := monthNamePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	month := monthNames[strings.ToLower(m[1])]
	year, _ := strconv.Atoi(m[2])
	if year < 100 {
		year += 2000
	}
	if year < 2000 || year > 2099 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", year, int(month)), true
}

var rangeHeaderPattern = regexp.MustCompile(`(?i)FROM\s*:?\s*(\d{1,2}/\d{1,2}/\d{2,4})\s+(?:THRU|THROUGH|TO)\s*:?\s*(\d{1,2}/\d{1,2}/\d{2,4})`)

// PeriodFromRangeHeader derives a period from an in-file date-range header
// like "FROM : 06/30/25 THRU 07/01/25". The THRU date wins: a report whose
// range straddles a month boundary is attributed to the month it closes in.
func PeriodFromRangeHeader(line string) (string, bool) {
	m := rangeHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	t, ok := parseSlashDate(m[2])
	if !ok {
		return "", false
	}
	return PeriodFromTime(t), true
}
