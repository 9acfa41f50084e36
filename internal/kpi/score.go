package kpi

const (
	MinScore = 0
	MaxScore = 100

	pointsDecisionMaking     = 30
	pointsTiedToGoals        = 25
	pointsVisibleInDashboard = 15
	pointsExecutiveRequested = 10

	penaltyRedundant  = -15
	penaltyMisleading = -25
	penaltyZeroImpact = -20
)

type recencyTier struct {
	phrase string
	points int
}

// Checked in order; the first match wins.
var recencyTiers = []recencyTier{
	{phrase: "last month", points: 15},
	{phrase: "last quarter", points: 10},
	{phrase: "last year", points: 5},
}

// ScoreBreakdown itemizes how a score was reached. Raw is the unclamped sum
// and Total is Raw saturated into [MinScore, MaxScore].
type ScoreBreakdown struct {
	DecisionMaking     int `json:"decisionMaking"`
	Goals              int `json:"goals"`
	Visibility         int `json:"visibility"`
	ExecutiveRequested int `json:"executiveRequested"`
	Recency            int `json:"recency"`
	Usage              int `json:"usage"`
	Redundant          int `json:"redundant"`
	Misleading         int `json:"misleading"`
	ZeroImpact         int `json:"zeroImpact"`
	Positive           int `json:"positive"`
	Deductions         int `json:"deductions"`
	Raw                int `json:"raw"`
	Total              int `json:"total"`
}

func Breakdown(m Metric, issues []Issue) ScoreBreakdown {
	var b ScoreBreakdown

	if m.UsedInDecisionMaking {
		b.DecisionMaking = pointsDecisionMaking
	}
	if m.TiedToGoals {
		b.Goals = pointsTiedToGoals
	}
	if m.VisibleInDashboard {
		b.Visibility = pointsVisibleInDashboard
	}
	if m.ExecutiveRequested {
		b.ExecutiveRequested = pointsExecutiveRequested
	}
	b.Recency = recencyPoints(m.LastReviewed)
	b.Usage = recencyPoints(m.LastUsedForDecision)

	for _, issue := range issues {
		switch issue {
		case IssueRedundant:
			b.Redundant = penaltyRedundant
		case IssueMisleading:
			b.Misleading = penaltyMisleading
		case IssueZeroImpact:
			b.ZeroImpact = penaltyZeroImpact
		}
	}

	b.Positive = b.DecisionMaking + b.Goals + b.Visibility + b.ExecutiveRequested + b.Recency + b.Usage
	b.Deductions = b.Redundant + b.Misleading + b.ZeroImpact
	b.Raw = b.Positive + b.Deductions
	b.Total = clamp(b.Raw)

	return b
}

func Score(m Metric, issues []Issue) int {
	return Breakdown(m, issues).Total
}

// ApplyScores returns copies of metrics with Issues and Score filled in from
// the classification. Issues are always ordered redundant, misleading,
// zero-impact.
func ApplyScores(metrics []Metric, cls Classification) []Metric {
	redundant := flaggedIDs(cls.Redundant)
	misleading := flaggedIDs(cls.Misleading)
	zeroImpact := flaggedIDs(cls.ZeroImpact)

	scored := make([]Metric, len(metrics))
	for i, m := range metrics {
		issues := []Issue{}
		if redundant[m.ID] {
			issues = append(issues, IssueRedundant)
		}
		if misleading[m.ID] {
			issues = append(issues, IssueMisleading)
		}
		if zeroImpact[m.ID] {
			issues = append(issues, IssueZeroImpact)
		}

		m.Issues = issues
		m.Score = Score(m, issues)
		scored[i] = m
	}
	return scored
}

func recencyPoints(value string) int {
	for _, tier := range recencyTiers {
		if containsAny(value, tier.phrase) {
			return tier.points
		}
	}
	return 0
}

func clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}
