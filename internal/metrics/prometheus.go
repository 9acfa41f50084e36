package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kpi_audit_analysis_duration_seconds",
			Help:    "Time to load and analyze a dataset",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_audit_analysis_total",
			Help: "Total analyses by outcome",
		},
		[]string{"status"},
	)

	DatasetRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kpi_audit_dataset_rows",
			Help:    "Number of data rows per parsed dataset",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	MetricScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kpi_audit_metric_score",
			Help:    "Distribution of computed KPI scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	IssuesFlagged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_audit_issues_flagged_total",
			Help: "Metrics flagged per issue kind",
		},
		[]string{"issue"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_audit_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_audit_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_audit_fetch_total",
			Help: "Remote dataset fetches by outcome",
		},
		[]string{"status"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kpi_audit_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			AnalysisDuration,
			AnalysisTotal,
			DatasetRows,
			MetricScore,
			IssuesFlagged,
			CacheHits,
			CacheMisses,
			FetchTotal,
			BreakerState,
		)
	})
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
