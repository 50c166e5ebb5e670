package normalize

import (
	"strings"

	"github.com/mauv0809/tournament-importer/internal/roster"
)

// ValidCategory checks raw against the known categories, ignoring case, and
// returns the canonical lower-case value.
func ValidCategory(raw string) (roster.Category, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range roster.Categories {
		if v == string(c) {
			return c, true
		}
	}
	return "", false
}

// NormalizePriority maps raw text to a priority, defaulting to medium.
func NormalizePriority(raw string) roster.Priority {
	v := Fold(raw)
	switch roster.Priority(v) {
	case roster.PriorityLow, roster.PriorityMedium, roster.PriorityHigh, roster.PriorityCritical:
		return roster.Priority(v)
	}
	switch {
	case v == "l" || strings.Contains(v, "low"):
		return roster.PriorityLow
	case v == "m" || strings.Contains(v, "medium"):
		return roster.PriorityMedium
	case v == "h" || strings.Contains(v, "high"):
		return roster.PriorityHigh
	case v == "c" || containsAny(v, "critical", "urgent"):
		return roster.PriorityCritical
	}
	return roster.PriorityMedium
}
