package kpi

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scenarioRecords(t *testing.T) []RawRecord {
	t.Helper()
	text := header + "\n" +
		`Sales,Revenue,Yes,Yes,Yes,Last month,Last month,"Tied to our revenue goal"` + "\n" +
		`Marketing,Revenue,No,No,No,Last year,Never,"Just for vanity optics"` + "\n"

	ds, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res := Validate(ds); !res.Valid {
		t.Fatalf("Validate: %s", res.Message)
	}
	return ds.Records
}

func TestProcessScenario(t *testing.T) {
	b := Process(scenarioRecords(t), nil)

	if b.TotalKPIs != 2 {
		t.Fatalf("TotalKPIs = %d, want 2", b.TotalKPIs)
	}

	a, ok := b.FindMetric("1")
	if !ok {
		t.Fatal("metric 1 missing")
	}
	if a.Score != 95 {
		t.Errorf("row A score = %d, want 95", a.Score)
	}
	if diff := cmp.Diff([]Issue{IssueRedundant}, a.Issues); diff != "" {
		t.Errorf("row A issues mismatch (-want +got):\n%s", diff)
	}

	m, ok := b.FindMetric("2")
	if !ok {
		t.Fatal("metric 2 missing")
	}
	if m.Score != 0 {
		t.Errorf("row B score = %d, want 0", m.Score)
	}
	if diff := cmp.Diff([]Issue{IssueRedundant, IssueMisleading, IssueZeroImpact}, m.Issues); diff != "" {
		t.Errorf("row B issues mismatch (-want +got):\n%s", diff)
	}

	if len(b.ZeroImpactMetrics) != 1 || b.ZeroImpactMetrics[0].Reason != "Never used in decision making" {
		t.Errorf("unexpected zero-impact flags: %+v", b.ZeroImpactMetrics)
	}
	if len(b.RedundantMetrics) != 2 || b.RedundantMetrics[0].Reason != "Appears in 2 departments: Sales, Marketing" {
		t.Errorf("unexpected redundant flags: %+v", b.RedundantMetrics)
	}

	wantDup := []DuplicateSlice{
		{Name: "Unique", Value: 1, Color: colorUnique},
		{Name: "Duplicated", Value: 2, Color: colorDuplicated},
	}
	if diff := cmp.Diff(wantDup, b.DuplicateMetricsData); diff != "" {
		t.Errorf("duplicate data mismatch (-want +got):\n%s", diff)
	}

	if len(b.RecommendedKPIs) != 2 || b.RecommendedKPIs[0].ID != "1" {
		t.Fatalf("unexpected recommendations: %+v", b.RecommendedKPIs)
	}
	if b.AllMetrics[0].ID != "1" || b.AllMetrics[1].ID != "2" {
		t.Errorf("allMetrics not sorted by score: %+v", b.AllMetrics)
	}
}

func TestProcessDepartmentFilter(t *testing.T) {
	records := scenarioRecords(t)

	b := Process(records, []string{"Marketing"})
	if b.TotalKPIs != 1 {
		t.Fatalf("TotalKPIs = %d, want 1", b.TotalKPIs)
	}
	for _, m := range b.AllMetrics {
		if m.Department != "Marketing" {
			t.Errorf("unexpected department %q", m.Department)
		}
	}

	only := b.AllMetrics[0]
	if only.ID != "1" {
		t.Errorf("ID = %q, want ids reassigned after filtering", only.ID)
	}
	if only.HasIssue(IssueRedundant) {
		t.Error("a name seen once in the filtered set is not redundant")
	}

	if got := Process(records, []string{"Nobody"}); got.TotalKPIs != 0 || len(got.AllMetrics) != 0 {
		t.Errorf("expected empty bundle, got %+v", got)
	}
	if got := Process(records, []string{}); got.TotalKPIs != 2 {
		t.Errorf("empty filter must keep all departments, got %d", got.TotalKPIs)
	}
}

func TestProcessIdempotent(t *testing.T) {
	records := scenarioRecords(t)
	filter := []string{"Sales", "Marketing"}

	first := Process(records, filter)
	second := Process(records, filter)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Process is not idempotent (-first +second):\n%s", diff)
	}
}

func TestBundleJSONUsesEmptyLists(t *testing.T) {
	data, err := json.Marshal(Process(nil, nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"redundantMetrics", "misleadingMetrics", "zeroImpactMetrics", "metricUsageData", "recommendedKpis", "allMetrics"} {
		if string(decoded[key]) != "[]" {
			t.Errorf("%s = %s, want []", key, decoded[key])
		}
	}
	if string(decoded["totalKpis"]) != "0" {
		t.Errorf("totalKpis = %s, want 0", decoded["totalKpis"])
	}
}
