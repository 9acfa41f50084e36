package kpi

import (
	"fmt"
	"strings"
)

var misleadingKeywords = []string{"vanity", "optic", "look good", "not meaningful", "misleading"}

const (
	reasonNeverUsed = "Never used in decision making"
	reasonNotUsed   = "Not used in decision making"
)

// Classify runs the three independent issue passes. A metric may appear in
// more than one list.
func Classify(metrics []Metric) Classification {
	return Classification{
		Redundant:  FindRedundant(metrics),
		Misleading: FindMisleading(metrics),
		ZeroImpact: FindZeroImpact(metrics),
	}
}

// FindRedundant flags every member of each group of metrics sharing an exact
// name. Groups are emitted in order of first appearance.
func FindRedundant(metrics []Metric) []Flag {
	groups := groupByName(metrics)

	flags := []Flag{}
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		departments := make([]string, len(group))
		for i, m := range group {
			departments[i] = m.Department
		}
		reason := fmt.Sprintf("Appears in %d departments: %s", len(group), strings.Join(departments, ", "))

		for _, m := range group {
			flags = append(flags, newFlag(m, reason))
		}
	}
	return flags
}

func FindMisleading(metrics []Metric) []Flag {
	flags := []Flag{}
	for _, m := range metrics {
		if containsAny(m.Interpretation, misleadingKeywords...) {
			flags = append(flags, newFlag(m, "Misleading: "+m.Interpretation))
		}
	}
	return flags
}

// FindZeroImpact flags metrics not used for decisions or whose last use is
// "never" / "don't know". The reason only looks at the "never" substring,
// whichever condition triggered the flag.
func FindZeroImpact(metrics []Metric) []Flag {
	flags := []Flag{}
	for _, m := range metrics {
		never := containsAny(m.LastUsedForDecision, "never")
		if m.UsedInDecisionMaking && !never && !containsAny(m.LastUsedForDecision, "don't know") {
			continue
		}

		reason := reasonNotUsed
		if never {
			reason = reasonNeverUsed
		}
		flags = append(flags, newFlag(m, reason))
	}
	return flags
}

func groupByName(metrics []Metric) [][]Metric {
	index := make(map[string]int)
	var groups [][]Metric
	for _, m := range metrics {
		i, ok := index[m.Name]
		if !ok {
			i = len(groups)
			index[m.Name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}
	return groups
}

func distinctNames(metrics []Metric) int {
	seen := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		seen[m.Name] = struct{}{}
	}
	return len(seen)
}

func newFlag(m Metric, reason string) Flag {
	return Flag{
		ID:         m.ID,
		Name:       m.Name,
		Department: m.Department,
		Reason:     reason,
	}
}

func flaggedIDs(flags []Flag) map[string]bool {
	ids := make(map[string]bool, len(flags))
	for _, f := range flags {
		ids[f.ID] = true
	}
	return ids
}
