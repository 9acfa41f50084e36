package kpi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func queryFixture() []Metric {
	return []Metric{
		{ID: "1", Name: "Revenue", Department: "Sales", Score: 80, UsedInDecisionMaking: true, VisibleInDashboard: true, Issues: []Issue{}},
		{ID: "2", Name: "Followers", Department: "Marketing", Score: 5, Interpretation: "vanity", Issues: []Issue{IssueMisleading, IssueZeroImpact}},
		{ID: "10", Name: "Churn", Department: "Support", Score: 55, UsedInDecisionMaking: true, Issues: []Issue{IssueRedundant}},
		{ID: "3", Name: "Churn", Department: "Sales", Score: 55, ExecutiveRequested: true, Issues: []Issue{IssueRedundant}},
	}
}

func ids(metrics []Metric) []string {
	out := []string{}
	for _, m := range metrics {
		out = append(out, m.ID)
	}
	return out
}

func TestQueryMetricsDefaultSort(t *testing.T) {
	got := ids(QueryMetrics(queryFixture(), MetricQuery{}))
	if diff := cmp.Diff([]string{"1", "10", "3", "2"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryMetricsFilters(t *testing.T) {
	yes := true
	no := false
	lo := 50
	hi := 60

	tests := []struct {
		name  string
		query MetricQuery
		want  []string
	}{
		{name: "search name", query: MetricQuery{Search: "CHURN"}, want: []string{"10", "3"}},
		{name: "search interpretation", query: MetricQuery{Search: "vani"}, want: []string{"2"}},
		{name: "search department", query: MetricQuery{Search: "market"}, want: []string{"2"}},
		{name: "departments", query: MetricQuery{Departments: []string{"Sales"}}, want: []string{"1", "3"}},
		{name: "used", query: MetricQuery{UsedInDecisions: &yes}, want: []string{"1", "10"}},
		{name: "not visible", query: MetricQuery{VisibleInDashboard: &no}, want: []string{"10", "3", "2"}},
		{name: "executive", query: MetricQuery{ExecutiveRequested: &yes}, want: []string{"3"}},
		{name: "any issue", query: MetricQuery{Issues: []Issue{IssueRedundant, IssueMisleading}}, want: []string{"10", "3", "2"}},
		{name: "score range", query: MetricQuery{MinScore: &lo, MaxScore: &hi}, want: []string{"10", "3"}},
		{name: "id ascending", query: MetricQuery{SortBy: SortFieldID, Ascending: true}, want: []string{"1", "2", "3", "10"}},
		{name: "name ascending", query: MetricQuery{SortBy: SortFieldName, Ascending: true}, want: []string{"10", "3", "2", "1"}},
		{name: "used descending", query: MetricQuery{SortBy: SortFieldUsed}, want: []string{"1", "10", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(QueryMetrics(queryFixture(), tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("QueryMetrics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
