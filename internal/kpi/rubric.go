package kpi

type RubricFactor struct {
	Factor      string   `json:"factor"`
	Points      []int    `json:"points"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Rubric describes the scoring rules for display. It is built from the same
// constants the scorer uses.
func Rubric() []RubricFactor {
	tierPhrases := make([]string, len(recencyTiers))
	tierPoints := make([]int, len(recencyTiers))
	for i, t := range recencyTiers {
		tierPhrases[i] = t.phrase
		tierPoints[i] = t.points
	}

	return []RubricFactor{
		{Factor: "Used in decision making", Points: []int{pointsDecisionMaking}, Description: `Used_in_Decision_Making is "Yes"`},
		{Factor: "Tied to business goals", Points: []int{pointsTiedToGoals}, Description: "Interpretation notes mention a goal keyword", Keywords: append([]string(nil), goalKeywords...)},
		{Factor: "Visible in dashboard", Points: []int{pointsVisibleInDashboard}, Description: `Visible_in_Dashboard is "Yes"`},
		{Factor: "Executive requested", Points: []int{pointsExecutiveRequested}, Description: `Executive_Requested is "Yes"`},
		{Factor: "Recently reviewed", Points: tierPoints, Description: "Last_Reviewed mentions a recent period, first match wins", Keywords: tierPhrases},
		{Factor: "Recently used for decisions", Points: append([]int(nil), tierPoints...), Description: "Metric_Last_Used_For_Decision mentions a recent period, first match wins", Keywords: append([]string(nil), tierPhrases...)},
		{Factor: "Redundant", Points: []int{penaltyRedundant}, Description: "Metric name appears more than once"},
		{Factor: "Misleading", Points: []int{penaltyMisleading}, Description: "Interpretation notes mention vanity or optics", Keywords: append([]string(nil), misleadingKeywords...)},
		{Factor: "Zero impact", Points: []int{penaltyZeroImpact}, Description: `Not used in decision making, or last use is "never" or "don't know"`, Keywords: []string{"never", "don't know"}},
	}
}
