package normalize

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// dateLayouts are tried in order; the first that parses wins. Day-first
// layouts come before month-first ones, so "05/03/2025" is 5 March.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"1/2/2006",
	"1-2-2006",
	"2006-1-2",
	"2/1/06",
	"1/2/06",
}

// timestampLayouts cover the spreadsheet export format ("3/14/2025 10:22:01").
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
}

// timestampDateLayouts apply to the first token when the full value does not parse.
var timestampDateLayouts = []string{
	"1/2/2006",
	"2/1/2006",
}

// ParseDate parses a calendar date written in any of the supported layouts.
// Blank input returns false silently; unparseable input logs a warning.
func ParseDate(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	if t, ok := parseFirst(v, dateLayouts); ok {
		return t, true
	}
	log.Warn("Could not parse date", "value", raw)
	return time.Time{}, false
}

// ParseTimestamp parses a registration timestamp. When the full value does
// not match a timestamp layout, only the leading date token is used.
func ParseTimestamp(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	if t, ok := parseFirst(v, timestampLayouts); ok {
		return t, true
	}
	first := strings.Fields(v)[0]
	if t, ok := parseFirst(first, timestampDateLayouts); ok {
		return t, true
	}
	log.Warn("Could not parse timestamp", "value", raw)
	return time.Time{}, false
}

// DatePtr is a convenience for optional date fields.
func DatePtr(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	return &t
}

func parseFirst(v string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
