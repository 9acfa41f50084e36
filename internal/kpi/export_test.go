package kpi

import (
	"errors"
	"strings"
	"testing"
)

func TestExportCSV(t *testing.T) {
	metrics := []Metric{
		{
			Department: "Sales", Name: "Revenue", VisibleInDashboard: true, UsedInDecisionMaking: true,
			LastReviewed: "Last month", LastUsedForDecision: "Last month", Interpretation: "Goal, tracked",
			Score: 95, Issues: []Issue{IssueRedundant, IssueZeroImpact},
		},
		{Department: "Ops", Name: "Tickets", Issues: []Issue{}},
	}

	got := ExportCSV(metrics)
	want := "Department,Metric Name,Visible in Dashboard,Used in Decision Making,Executive Requested,Last Reviewed,Metric Last Used For Decision,Interpretation Notes,Score,Issues\n" +
		`"Sales","Revenue","Yes","Yes","No","Last month","Last month","Goal, tracked","95","redundant, zero-impact"` + "\n" +
		`"Ops","Tickets","No","No","No","","","","0",""`
	if got != want {
		t.Errorf("ExportCSV mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestExportCSVEmpty(t *testing.T) {
	got := ExportCSV(nil)
	if strings.Count(got, "\n") != 1 || !strings.HasSuffix(got, "Issues\n") {
		t.Errorf("unexpected export: %q", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSVPropagatesErrors(t *testing.T) {
	if err := WriteCSV(failingWriter{}, nil); err == nil {
		t.Fatal("expected write error")
	}
}
