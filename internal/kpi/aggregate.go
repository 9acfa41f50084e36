package kpi

import (
	"sort"
	"strings"
	"unicode/utf16"
)

const (
	TopRecommendations = 3

	conciseInterpretationLen = 100

	colorUnique     = "#3b82f6"
	colorDuplicated = "#f97316"
)

// DepartmentUsageTally counts decision use and dashboard visibility per
// department, in order of each department's first appearance.
func DepartmentUsageTally(metrics []Metric) []DepartmentUsage {
	index := make(map[string]int)
	usage := []DepartmentUsage{}

	for _, m := range metrics {
		i, ok := index[m.Department]
		if !ok {
			i = len(usage)
			index[m.Department] = i
			usage = append(usage, DepartmentUsage{Department: m.Department})
		}

		u := &usage[i]
		if m.UsedInDecisionMaking {
			u.UsedInDecisions++
		} else {
			u.NotUsedInDecisions++
		}
		if m.VisibleInDashboard {
			u.VisibleInDashboard++
		} else {
			u.NotVisibleInDashboard++
		}
	}
	return usage
}

// DuplicateRatio returns the Unique/Duplicated pair. Unique counts distinct
// names while Duplicated counts flagged instances, so the two values do not
// partition the metric set.
func DuplicateRatio(metrics []Metric, cls Classification) []DuplicateSlice {
	return []DuplicateSlice{
		{Name: "Unique", Value: distinctNames(metrics), Color: colorUnique},
		{Name: "Duplicated", Value: len(cls.Redundant), Color: colorDuplicated},
	}
}

// SortByScore returns a copy ordered by descending score. Ties keep their
// input order.
func SortByScore(metrics []Metric) []Metric {
	sorted := make([]Metric, len(metrics))
	copy(sorted, metrics)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

// Recommend takes the first n metrics of an already sorted slice.
func Recommend(sorted []Metric, n int) []Recommendation {
	n = max(0, min(n, len(sorted)))

	recs := make([]Recommendation, 0, n)
	for _, m := range sorted[:n] {
		recs = append(recs, Recommendation{
			ID:                   m.ID,
			Name:                 m.Name,
			Department:           m.Department,
			Score:                m.Score,
			Justification:        Justify(m),
			UsedInDecisionMaking: m.UsedInDecisionMaking,
			TiedToGoals:          m.TiedToGoals,
			VisibleInDashboard:   m.VisibleInDashboard,
			LastReviewed:         m.LastReviewed,
			LastUsedForDecision:  m.LastUsedForDecision,
			ExecutiveRequested:   m.ExecutiveRequested,
			Issues:               m.Issues,
		})
	}
	return recs
}

// Justify builds the recommendation text from fixed sentences.
func Justify(m Metric) string {
	var b strings.Builder

	switch {
	case m.UsedInDecisionMaking && m.TiedToGoals:
		b.WriteString("This KPI is actively used in decision making and directly tied to business goals. ")
	case m.UsedInDecisionMaking:
		b.WriteString("This KPI is actively used in decision making. ")
	case m.TiedToGoals:
		b.WriteString("This KPI is tied to important business goals. ")
	}

	switch {
	case m.VisibleInDashboard && m.ExecutiveRequested:
		b.WriteString("It's visible in dashboards and requested by executives. ")
	case m.VisibleInDashboard:
		b.WriteString("It's visible in dashboards for regular monitoring. ")
	case m.ExecutiveRequested:
		b.WriteString("It's specifically requested by executives. ")
	}

	if containsAny(m.LastReviewed, "last month") || containsAny(m.LastUsedForDecision, "last month") {
		b.WriteString("Recently reviewed and used for decision making. ")
	}

	if m.Interpretation != "" {
		if textLen(m.Interpretation) < conciseInterpretationLen {
			b.WriteString(m.Interpretation)
		} else {
			first, _, _ := strings.Cut(m.Interpretation, ".")
			b.WriteString(first + ".")
		}
	}

	return b.String()
}

// textLen counts UTF-16 code units, the unit display clients measure in.
func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Departments lists the distinct departments of records, sorted.
func Departments(records []RawRecord) []string {
	seen := make(map[string]struct{})
	departments := []string{}
	for _, rec := range records {
		if _, ok := seen[rec.Department]; ok {
			continue
		}
		seen[rec.Department] = struct{}{}
		departments = append(departments, rec.Department)
	}
	sort.Strings(departments)
	return departments
}
