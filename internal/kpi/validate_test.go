package kpi

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateValid(t *testing.T) {
	ds := &Dataset{
		Columns: RequiredColumns,
		Records: []RawRecord{{Department: "Sales", MetricName: "Revenue", VisibleInDashboard: "Yes", UsedInDecisionMaking: "No", ExecutiveRequested: "No"}},
	}

	res := Validate(ds)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Message)
	}
	if res.Err() != nil {
		t.Fatalf("Err() = %v, want nil", res.Err())
	}
}

func TestValidateMissingColumns(t *testing.T) {
	ds, err := Parse("Department,Metric_Name,Visible_in_Dashboard\nSales,Revenue,Yes\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	res := Validate(ds)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	want := []string{
		ColumnUsedInDecisionMaking,
		ColumnExecutiveRequested,
		ColumnLastReviewed,
		ColumnLastUsedForDecision,
		ColumnInterpretationNotes,
	}
	if diff := cmp.Diff(want, res.MissingColumns); diff != "" {
		t.Errorf("missing columns mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(res.Message, "Used_in_Decision_Making, Executive_Requested") {
		t.Errorf("unexpected message: %q", res.Message)
	}

	var ve *ValidationError
	if !errors.As(res.Err(), &ve) {
		t.Fatalf("expected *ValidationError, got %v", res.Err())
	}
}

func TestValidateIncompleteRows(t *testing.T) {
	complete := RawRecord{Department: "Sales", MetricName: "Revenue", VisibleInDashboard: "Yes", UsedInDecisionMaking: "Yes", ExecutiveRequested: "Yes"}
	noDept := complete
	noDept.Department = ""
	noExec := complete
	noExec.ExecutiveRequested = ""
	noNotes := complete
	noNotes.InterpretationNotes = ""

	ds := &Dataset{Columns: RequiredColumns, Records: []RawRecord{complete, noDept, noNotes, noExec}}

	res := Validate(ds)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if diff := cmp.Diff([]int{2, 4}, res.IncompleteRows); diff != "" {
		t.Errorf("incomplete rows mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(res.Message, "2 rows have missing required data (rows 2, 4)") {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestValidateEmpty(t *testing.T) {
	if res := Validate(&Dataset{Columns: RequiredColumns}); res.Valid {
		t.Fatal("expected empty dataset to be invalid")
	}
	if res := Validate(nil); res.Valid {
		t.Fatal("expected nil dataset to be invalid")
	}
}
