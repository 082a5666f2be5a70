package report

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reNumeric = regexp.MustCompile(`^\(?[-+]?[$€£]?\s*\d{1,3}(,\d{3})*(\.\d+)?\)?%?$|^\(?[-+]?[$€£]?\s*\d+(\.\d+)?\)?%?$`)
	reDate    = regexp.MustCompile(`^\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}$|^\d{4}[/.-]\d{1,2}[/.-]\d{1,2}$`)
)

// IsNumericCell reports whether a cell holds a number, allowing thousands
// separators, currency symbols, percent signs and accounting parentheses.
func IsNumericCell(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return reNumeric.MatchString(s)
}

// IsDateCell reports whether a cell looks like a date.
func IsDateCell(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if reDate.MatchString(s) {
		return true
	}
	_, err := time.Parse("Jan 2, 2006", s)
	return err == nil
}

// ParseAmount parses a monetary cell. Thousands separators and currency
// symbols are stripped; accounting parentheses mean negative.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "%", "", " ", "").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseDate parses a metadata date cell against the common report layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CountNonEmpty returns how many cells of a row are non-blank.
func CountNonEmpty(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

// IsEmptyRow reports whether every cell of a row is blank.
func IsEmptyRow(row []string) bool {
	return CountNonEmpty(row) == 0
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func firstNonEmpty(row []string) (string, int) {
	for i, c := range row {
		if v := strings.TrimSpace(c); v != "" {
			return v, i
		}
	}
	return "", -1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
