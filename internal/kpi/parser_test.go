package kpi

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const header = "Department,Metric_Name,Visible_in_Dashboard,Used_in_Decision_Making,Executive_Requested,Last_Reviewed,Metric_Last_Used_For_Decision,Interpretation_Notes"

func TestParseQuotedCommas(t *testing.T) {
	text := header + "\n" +
		`Sales,Revenue,Yes,Yes,Yes,Last month,Last month,"Tied to revenue, profit and goals"` + "\n"

	ds, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ds.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ds.Records))
	}

	want := RawRecord{
		Department:                "Sales",
		MetricName:                "Revenue",
		VisibleInDashboard:        "Yes",
		UsedInDecisionMaking:      "Yes",
		ExecutiveRequested:        "Yes",
		LastReviewed:              "Last month",
		MetricLastUsedForDecision: "Last month",
		InterpretationNotes:       "Tied to revenue, profit and goals",
	}
	if diff := cmp.Diff(want, ds.Records[0]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(RequiredColumns, ds.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShortAndLongRows(t *testing.T) {
	text := "Department,Metric_Name,Interpretation_Notes\n" +
		"Sales\n" +
		"Ops,Uptime,Fine,extra,cells\n"

	ds, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []RawRecord{
		{Department: "Sales"},
		{Department: "Ops", MetricName: "Uptime", InterpretationNotes: "Fine"},
	}
	if diff := cmp.Diff(want, ds.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSkipsBlankLinesAndTrims(t *testing.T) {
	text := "\n   \n" + ` "Department" , Metric_Name ` + "\r\n" +
		"\n" +
		`  Sales ,  "Churn"  ` + "\r\n" +
		"\t\n"

	ds, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"Department", "Metric_Name"}, ds.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]RawRecord{{Department: "Sales", MetricName: "Churn"}}, ds.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnknownColumnsIgnored(t *testing.T) {
	ds, err := Parse("Owner,Department\nAlice,Sales\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ds.Records[0].Department != "Sales" {
		t.Fatalf("unexpected department: %q", ds.Records[0].Department)
	}
	if !ds.HasColumn("Owner") {
		t.Fatal("expected Owner to be kept in Columns")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace only", text: "  \n\t\n"},
		{name: "header only", text: "HeaderOnly\n"},
		{name: "header and blank lines", text: header + "\n\n  \n"},
		{name: "invalid utf8", text: header + "\nSales,\xff\xfe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
		})
	}
}

func TestParseErrorReportsLine(t *testing.T) {
	_, err := Parse(header + "\nSales,\xff\n")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(pe.Error(), "line 2") {
		t.Errorf("unexpected message: %q", pe.Error())
	}
}

func TestParseRoundTrip(t *testing.T) {
	records := []RawRecord{
		{"Sales", "Revenue", "Yes", "Yes", "No", "Last month", "Last quarter", "Tied to revenue goal"},
		{"Marketing", "Followers", "yes", "NO", "Y", "Never", "Don't know", "Vanity number"},
		{"Ops", "Uptime", "", "", "", "", "", ""},
	}

	ds, err := Parse(EncodeRecords(records))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(records, ds.Records); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
