package kpi

import (
	"strconv"
	"strings"
)

var goalKeywords = []string{"goal", "outcome", "revenue", "profit"}

// ParseYes is true only for a case-insensitive "yes". "Y", "true" and ""
// are all false.
func ParseYes(value string) bool {
	return strings.EqualFold(value, "yes")
}

// TiedToGoals is a plain substring match, so "profitable" counts.
func TiedToGoals(interpretation string) bool {
	return containsAny(interpretation, goalKeywords...)
}

// Normalize converts a record at index (position after department
// filtering) into a Metric. The ID is index+1 and is not stable across
// different filters. Issues and Score are left for the scorer.
func Normalize(rec RawRecord, index int) Metric {
	return Metric{
		ID:                   strconv.Itoa(index + 1),
		Name:                 rec.MetricName,
		Department:           rec.Department,
		VisibleInDashboard:   ParseYes(rec.VisibleInDashboard),
		UsedInDecisionMaking: ParseYes(rec.UsedInDecisionMaking),
		ExecutiveRequested:   ParseYes(rec.ExecutiveRequested),
		LastReviewed:         rec.LastReviewed,
		LastUsedForDecision:  rec.MetricLastUsedForDecision,
		Interpretation:       rec.InterpretationNotes,
		TiedToGoals:          TiedToGoals(rec.InterpretationNotes),
		Issues:               []Issue{},
	}
}

func NormalizeAll(records []RawRecord) []Metric {
	metrics := make([]Metric, len(records))
	for i, rec := range records {
		metrics[i] = Normalize(rec, i)
	}
	return metrics
}

// containsAny reports whether s contains any keyword, ignoring case.
// Keywords must already be lower case.
func containsAny(s string, keywords ...string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
