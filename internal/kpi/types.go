// Package kpi scores organizational metrics against a fixed rubric and
// flags the redundant, misleading and zero-impact ones.
//
// Every function in this package is pure: the same records and department
// filter always produce the same Bundle.
package kpi

const (
	ColumnDepartment           = "Department"
	ColumnMetricName           = "Metric_Name"
	ColumnVisibleInDashboard   = "Visible_in_Dashboard"
	ColumnUsedInDecisionMaking = "Used_in_Decision_Making"
	ColumnExecutiveRequested   = "Executive_Requested"
	ColumnLastReviewed         = "Last_Reviewed"
	ColumnLastUsedForDecision  = "Metric_Last_Used_For_Decision"
	ColumnInterpretationNotes  = "Interpretation_Notes"
)

var RequiredColumns = []string{
	ColumnDepartment,
	ColumnMetricName,
	ColumnVisibleInDashboard,
	ColumnUsedInDecisionMaking,
	ColumnExecutiveRequested,
	ColumnLastReviewed,
	ColumnLastUsedForDecision,
	ColumnInterpretationNotes,
}

// RawRecord is one input row. Columns absent from the header stay empty.
type RawRecord struct {
	Department                string `json:"Department"`
	MetricName                string `json:"Metric_Name"`
	VisibleInDashboard        string `json:"Visible_in_Dashboard"`
	UsedInDecisionMaking      string `json:"Used_in_Decision_Making"`
	ExecutiveRequested        string `json:"Executive_Requested"`
	LastReviewed              string `json:"Last_Reviewed"`
	MetricLastUsedForDecision string `json:"Metric_Last_Used_For_Decision"`
	InterpretationNotes       string `json:"Interpretation_Notes"`
}

// Dataset is the parser output. Columns keeps the header as read so that
// validation can tell a missing column from an empty value.
type Dataset struct {
	Columns []string    `json:"columns"`
	Records []RawRecord `json:"records"`
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

type Issue string

const (
	IssueRedundant  Issue = "redundant"
	IssueMisleading Issue = "misleading"
	IssueZeroImpact Issue = "zero-impact"
)

type Metric struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Department           string  `json:"department"`
	VisibleInDashboard   bool    `json:"visibleInDashboard"`
	UsedInDecisionMaking bool    `json:"usedInDecisionMaking"`
	ExecutiveRequested   bool    `json:"executiveRequested"`
	LastReviewed         string  `json:"lastReviewed"`
	LastUsedForDecision  string  `json:"lastUsedForDecision"`
	Interpretation       string  `json:"interpretation"`
	TiedToGoals          bool    `json:"tiedToGoals"`
	Score                int     `json:"score"`
	Issues               []Issue `json:"issues"`
}

func (m Metric) HasIssue(issue Issue) bool {
	for _, i := range m.Issues {
		if i == issue {
			return true
		}
	}
	return false
}

// Flag pairs a metric with the reason it was classified.
type Flag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Reason     string `json:"reason"`
}

type Classification struct {
	Redundant  []Flag `json:"redundant"`
	Misleading []Flag `json:"misleading"`
	ZeroImpact []Flag `json:"zeroImpact"`
}

type DepartmentUsage struct {
	Department            string `json:"department"`
	UsedInDecisions       int    `json:"usedInDecisions"`
	NotUsedInDecisions    int    `json:"notUsedInDecisions"`
	VisibleInDashboard    int    `json:"visibleInDashboard"`
	NotVisibleInDashboard int    `json:"notVisibleInDashboard"`
}

type DuplicateSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type Recommendation struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Department           string  `json:"department"`
	Score                int     `json:"score"`
	Justification        string  `json:"justification"`
	UsedInDecisionMaking bool    `json:"usedInDecisionMaking"`
	TiedToGoals          bool    `json:"tiedToGoals"`
	VisibleInDashboard   bool    `json:"visibleInDashboard"`
	LastReviewed         string  `json:"lastReviewed"`
	LastUsedForDecision  string  `json:"lastUsedForDecision"`
	ExecutiveRequested   bool    `json:"executiveRequested"`
	Issues               []Issue `json:"issues"`
}

// Bundle is the result of one Process run.
type Bundle struct {
	TotalKPIs            int               `json:"totalKpis"`
	RedundantMetrics     []Flag            `json:"redundantMetrics"`
	MisleadingMetrics    []Flag            `json:"misleadingMetrics"`
	ZeroImpactMetrics    []Flag            `json:"zeroImpactMetrics"`
	MetricUsageData      []DepartmentUsage `json:"metricUsageData"`
	DuplicateMetricsData []DuplicateSlice  `json:"duplicateMetricsData"`
	RecommendedKPIs      []Recommendation  `json:"recommendedKpis"`
	AllMetrics           []Metric          `json:"allMetrics"`
}

func (b *Bundle) FindMetric(id string) (Metric, bool) {
	for _, m := range b.AllMetrics {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}
