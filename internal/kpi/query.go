package kpi

import (
	"sort"
	"strconv"
	"strings"
)

type SortField string

const (
	SortFieldScore          SortField = "score"
	SortFieldID             SortField = "id"
	SortFieldName           SortField = "name"
	SortFieldDepartment     SortField = "department"
	SortFieldVisible        SortField = "visibleInDashboard"
	SortFieldUsed           SortField = "usedInDecisionMaking"
	SortFieldExecutive      SortField = "executiveRequested"
	SortFieldLastReviewed   SortField = "lastReviewed"
	SortFieldLastUsed       SortField = "lastUsedForDecision"
	SortFieldInterpretation SortField = "interpretation"
)

// MetricQuery narrows and orders a metric list the way the metric table
// does. Nil pointers and empty slices mean "any".
type MetricQuery struct {
	Search             string    `json:"search"`
	Departments        []string  `json:"departments"`
	VisibleInDashboard *bool     `json:"visibleInDashboard"`
	UsedInDecisions    *bool     `json:"usedInDecisionMaking"`
	ExecutiveRequested *bool     `json:"executiveRequested"`
	Issues             []Issue   `json:"issues"`
	MinScore           *int      `json:"minScore"`
	MaxScore           *int      `json:"maxScore"`
	SortBy             SortField `json:"sortBy"`
	Ascending          bool      `json:"ascending"`
}

func QueryMetrics(metrics []Metric, q MetricQuery) []Metric {
	result := []Metric{}
	for _, m := range metrics {
		if q.matches(m) {
			result = append(result, m)
		}
	}

	field := q.SortBy
	if field == "" {
		field = SortFieldScore
	}
	sort.SliceStable(result, func(i, j int) bool {
		c := compareField(result[i], result[j], field)
		if q.Ascending {
			return c < 0
		}
		return c > 0
	})

	return result
}

func (q MetricQuery) matches(m Metric) bool {
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !containsAny(m.Name, term) && !containsAny(m.Department, term) && !containsAny(m.Interpretation, term) {
			return false
		}
	}
	if len(q.Departments) > 0 && !containsString(q.Departments, m.Department) {
		return false
	}
	if q.VisibleInDashboard != nil && m.VisibleInDashboard != *q.VisibleInDashboard {
		return false
	}
	if q.UsedInDecisions != nil && m.UsedInDecisionMaking != *q.UsedInDecisions {
		return false
	}
	if q.ExecutiveRequested != nil && m.ExecutiveRequested != *q.ExecutiveRequested {
		return false
	}
	if len(q.Issues) > 0 {
		found := false
		for _, issue := range q.Issues {
			if m.HasIssue(issue) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.MinScore != nil && m.Score < *q.MinScore {
		return false
	}
	if q.MaxScore != nil && m.Score > *q.MaxScore {
		return false
	}
	return true
}

func compareField(a, b Metric, field SortField) int {
	switch field {
	case SortFieldScore:
		return a.Score - b.Score
	case SortFieldID:
		ai, _ := strconv.Atoi(a.ID)
		bi, _ := strconv.Atoi(b.ID)
		return ai - bi
	case SortFieldVisible:
		return boolInt(a.VisibleInDashboard) - boolInt(b.VisibleInDashboard)
	case SortFieldUsed:
		return boolInt(a.UsedInDecisionMaking) - boolInt(b.UsedInDecisionMaking)
	case SortFieldExecutive:
		return boolInt(a.ExecutiveRequested) - boolInt(b.ExecutiveRequested)
	case SortFieldName:
		return strings.Compare(a.Name, b.Name)
	case SortFieldDepartment:
		return strings.Compare(a.Department, b.Department)
	case SortFieldLastReviewed:
		return strings.Compare(a.LastReviewed, b.LastReviewed)
	case SortFieldLastUsed:
		return strings.Compare(a.LastUsedForDecision, b.LastUsedForDecision)
	case SortFieldInterpretation:
		return strings.Compare(a.Interpretation, b.Interpretation)
	}
	return 0
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
