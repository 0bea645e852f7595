package fileparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Source files mix Brazilian-locale exports with ISO exports, so the
// ambiguous day/month order has to be resolved by explicit fixed-width
// patterns before any generic parse: a generic parser would silently read
// "05/03/2024" as May 3rd.
var (
	reDateBR    = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`) // DD/MM/YYYY
	reDateISO   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`) // YYYY-MM-DD
	reDateBRAlt = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`) // DD-MM-YYYY
)

// fallbackLayouts are tried when no fixed-width pattern matches.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate parses a date string in DD/MM/YYYY, YYYY-MM-DD or DD-MM-YYYY
// form, falling back to a small set of generic layouts. The result is
// midnight UTC. Dates that only exist by calendar rollover (31/02/2024)
// are rejected.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if m := reDateBR.FindStringSubmatch(raw); m != nil {
		return makeDate(m[3], m[2], m[1])
	}
	if m := reDateISO.FindStringSubmatch(raw); m != nil {
		return makeDate(m[1], m[2], m[3])
	}
	if m := reDateBRAlt.FindStringSubmatch(raw); m != nil {
		return makeDate(m[3], m[2], m[1])
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date: %q", raw)
}

func makeDate(year, month, day string) (time.Time, error) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; a changed day or month
	// means the input was not a real calendar date.
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, fmt.Errorf("invalid date: %02d/%02d/%04d", d, m, y)
	}
	return t, nil
}
