package analysis

import (
	"fmt"
	"strings"

	"github.com/kpi-audit/backend/internal/kpi"
)

// RenderSummary formats a run as a plain-text audit report.
func RenderSummary(r *Result) string {
	b := r.Bundle
	var sb strings.Builder

	filter := "all"
	if len(r.Filter) > 0 {
		filter = strings.Join(r.Filter, ", ")
	}

	fmt.Fprintf(&sb, `KPI Audit Report
================

Run: %s
Source: %s
Departments analyzed: %s

Total KPIs: %d
Redundant: %d
Misleading: %d
Zero impact: %d
`,
		r.RunID,
		r.Source,
		filter,
		b.TotalKPIs,
		len(b.RedundantMetrics),
		len(b.MisleadingMetrics),
		len(b.ZeroImpactMetrics),
	)

	if len(b.MetricUsageData) > 0 {
		sb.WriteString("\nDepartment Usage:\n")
		for _, u := range b.MetricUsageData {
			fmt.Fprintf(&sb, "- %s: %d used / %d unused in decisions, %d visible / %d hidden\n",
				u.Department, u.UsedInDecisions, u.NotUsedInDecisions, u.VisibleInDashboard, u.NotVisibleInDashboard)
		}
	}

	if len(b.RecommendedKPIs) > 0 {
		sb.WriteString("\nRecommended KPIs:\n")
		for i, rec := range b.RecommendedKPIs {
			fmt.Fprintf(&sb, "%d. %s (%s) score %d\n   %s\n", i+1, rec.Name, rec.Department, rec.Score, rec.Justification)
		}
	}

	writeFlags(&sb, "Redundant Metrics", b.RedundantMetrics)
	writeFlags(&sb, "Misleading Metrics", b.MisleadingMetrics)
	writeFlags(&sb, "Zero-Impact Metrics", b.ZeroImpactMetrics)

	return sb.String()
}

func writeFlags(sb *strings.Builder, title string, flags []kpi.Flag) {
	if len(flags) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, f := range flags {
		fmt.Fprintf(sb, "- %s (%s): %s\n", f.Name, f.Department, f.Reason)
	}
}
