package kpi

// FilterDepartments keeps records whose department is in the allowlist. An
// empty allowlist keeps everything.
func FilterDepartments(records []RawRecord, departments []string) []RawRecord {
	if len(departments) == 0 {
		return records
	}

	allowed := make(map[string]struct{}, len(departments))
	for _, d := range departments {
		allowed[d] = struct{}{}
	}

	filtered := make([]RawRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := allowed[rec.Department]; ok {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Process runs normalize, classify, score and aggregate over the records
// that pass the department filter. Callers are expected to have validated
// the records first.
func Process(records []RawRecord, departments []string) *Bundle {
	filtered := FilterDepartments(records, departments)

	metrics := NormalizeAll(filtered)
	cls := Classify(metrics)
	scored := ApplyScores(metrics, cls)
	sorted := SortByScore(scored)

	return &Bundle{
		TotalKPIs:            len(filtered),
		RedundantMetrics:     cls.Redundant,
		MisleadingMetrics:    cls.Misleading,
		ZeroImpactMetrics:    cls.ZeroImpact,
		MetricUsageData:      DepartmentUsageTally(scored),
		DuplicateMetricsData: DuplicateRatio(scored, cls),
		RecommendedKPIs:      Recommend(sorted, TopRecommendations),
		AllMetrics:           sorted,
	}
}
