package ingest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kpi-audit/backend/internal/kpi"
)

func TestDecodePlainCSV(t *testing.T) {
	body := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Department,Metric_Name\nSales,Revenue\n")...)

	got, err := Decode(body, "text/csv")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != "Department,Metric_Name\nSales,Revenue\n" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestDecodeHTMLTable(t *testing.T) {
	page := `<html><head><title>KPIs</title></head><body>
<p>Exported metrics</p>
<table>
  <thead><tr><th>Department</th><th>Metric_Name</th><th>Interpretation_Notes</th></tr></thead>
  <tbody>
    <tr><td>Sales</td><td>Revenue</td><td>Tied to revenue, and goals</td></tr>
    <tr><td> Marketing </td><td>Followers</td><td>Vanity
        metric</td></tr>
  </tbody>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

	text, err := Decode([]byte(page), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	ds, err := kpi.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []kpi.RawRecord{
		{Department: "Sales", MetricName: "Revenue", InterpretationNotes: "Tied to revenue, and goals"},
		{Department: "Marketing", MetricName: "Followers", InterpretationNotes: "Vanity metric"},
	}
	if diff := cmp.Diff(want, ds.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHTMLWithoutHeaderCells(t *testing.T) {
	page := `<table><tr><td>Department</td><td>Metric_Name</td></tr><tr><td>Ops</td><td>Uptime</td></tr></table>`

	text, err := Decode([]byte(page), "")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if text != "\"Department\",\"Metric_Name\"\n\"Ops\",\"Uptime\"\n" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDecodeTrustsDeclaredType(t *testing.T) {
	const body = "<b>Department</b>,Metric_Name\nSales,Revenue\n"

	tests := []struct {
		contentType string
		wantErr     bool
	}{
		{contentType: "text/csv"},
		{contentType: "text/plain; charset=utf-8"},
		{contentType: "", wantErr: true},
		{contentType: "application/octet-stream", wantErr: true},
		{contentType: "text/html", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			text, err := Decode([]byte(body), tt.contentType)
			if tt.wantErr {
				var pe *kpi.ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("expected *kpi.ParseError for a table-less html guess, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if text != body {
				t.Errorf("text = %q, want the body unchanged", text)
			}
		})
	}
}

func TestStripBOM(t *testing.T) {
	if got := StripBOM("\uFEFFa,b\n"); got != "a,b\n" {
		t.Errorf("StripBOM = %q", got)
	}
	if got := StripBOM("a,b\n"); got != "a,b\n" {
		t.Errorf("StripBOM changed plain text: %q", got)
	}
}

func TestDecodeHTMLWithoutTable(t *testing.T) {
	_, err := Decode([]byte("<html><body><p>Access denied</p></body></html>"), "text/html")

	var pe *kpi.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *kpi.ParseError, got %v", err)
	}
}
