package kpi

import (
	"fmt"
	"io"
	"strings"
)

const ExportFilename = "kpi_audit_results.csv"

var exportHeader = []string{
	"Department",
	"Metric Name",
	"Visible in Dashboard",
	"Used in Decision Making",
	"Executive Requested",
	"Last Reviewed",
	"Metric Last Used For Decision",
	"Interpretation Notes",
	"Score",
	"Issues",
}

// WriteCSV writes the header line followed by one fully quoted row per
// metric. Rows are separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, metrics []Metric) error {
	if _, err := io.WriteString(w, strings.Join(exportHeader, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, m := range metrics {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
		if _, err := io.WriteString(w, exportRow(m)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}

func ExportCSV(metrics []Metric) string {
	var b strings.Builder
	_ = WriteCSV(&b, metrics)
	return b.String()
}

func exportRow(m Metric) string {
	issues := make([]string, len(m.Issues))
	for i, issue := range m.Issues {
		issues[i] = string(issue)
	}

	fields := []string{
		m.Department,
		m.Name,
		yesNo(m.VisibleInDashboard),
		yesNo(m.UsedInDecisionMaking),
		yesNo(m.ExecutiveRequested),
		m.LastReviewed,
		m.LastUsedForDecision,
		m.Interpretation,
		fmt.Sprintf("%d", m.Score),
		strings.Join(issues, ", "),
	}

	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
