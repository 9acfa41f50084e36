package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kpi-audit/backend/internal/fetch"
	"github.com/kpi-audit/backend/internal/ingest"
	"github.com/kpi-audit/backend/internal/kpi"
	"github.com/kpi-audit/backend/internal/metrics"
	"github.com/kpi-audit/backend/pkg/logger"
	"github.com/kpi-audit/backend/pkg/utils"
)

const SourceInline = "inline"

var ErrNoInput = errors.New("no CSV text or dataset URL supplied")

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Document, error)
}

// Cache memoizes snapshots by dataset key. Implementations must treat a
// miss as (false, nil).
type Cache interface {
	GetAnalysis(ctx context.Context, datasetKey string, v any) (bool, error)
	SetAnalysis(ctx context.Context, datasetKey string, v any, ttl time.Duration) error
}

type Options struct {
	// DefaultURL is analyzed when a request carries neither text nor URL.
	DefaultURL string
	CacheTTL   time.Duration
}

type Service struct {
	fetcher Fetcher
	cache   Cache
	opts    Options
}

type Request struct {
	CSV         string   `json:"csv"`
	URL         string   `json:"url"`
	Departments []string `json:"departments"`
}

// Loaded is a parsed dataset together with its validation outcome.
type Loaded struct {
	Source     string
	Text       string
	Dataset    *kpi.Dataset
	Validation kpi.ValidationResult
}

// Snapshot is the cacheable part of a Result.
type Snapshot struct {
	Departments []string    `json:"departments"`
	Bundle      *kpi.Bundle `json:"bundle"`
}

type Result struct {
	RunID       string      `json:"runId"`
	Source      string      `json:"source"`
	Departments []string    `json:"departments"`
	Filter      []string    `json:"filter"`
	Bundle      *kpi.Bundle `json:"results"`
	Cached      bool        `json:"cached"`
	LatencyMS   int         `json:"latencyMs"`
}

// NewService wires the loaders. fetcher and cache may be nil: without a
// fetcher only inline text is accepted, without a cache every run computes.
func NewService(fetcher Fetcher, cache Cache, opts Options) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		opts:    opts,
	}
}

func (s *Service) HasDefaultDataset() bool {
	return s.opts.DefaultURL != ""
}

// Load reads the request's dataset and validates it. A dataset that fails
// validation is returned along with its *kpi.ValidationError.
func (s *Service) Load(ctx context.Context, req Request) (*Loaded, error) {
	text, source, err := s.readInput(ctx, req)
	if err != nil {
		return nil, err
	}

	ds, err := kpi.Parse(text)
	if err != nil {
		return nil, err
	}
	metrics.DatasetRows.Observe(float64(len(ds.Records)))

	loaded := &Loaded{
		Source:     source,
		Text:       text,
		Dataset:    ds,
		Validation: kpi.Validate(ds),
	}
	return loaded, loaded.Validation.Err()
}

func (s *Service) readInput(ctx context.Context, req Request) (string, string, error) {
	if req.CSV != "" {
		return ingest.StripBOM(req.CSV), SourceInline, nil
	}

	url := req.URL
	if url == "" {
		url = s.opts.DefaultURL
	}
	if url == "" {
		return "", "", ErrNoInput
	}
	if s.fetcher == nil {
		return "", "", &fetch.FetchError{URL: url, Err: errors.New("remote datasets are disabled")}
	}

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", "", err
	}

	text, err := ingest.Decode(doc.Body, doc.ContentType)
	return text, url, err
}

// Validate reports whether the request's dataset may be processed. Only
// read and parse failures are returned as errors.
func (s *Service) Validate(ctx context.Context, req Request) (kpi.ValidationResult, error) {
	loaded, err := s.Load(ctx, req)
	if loaded != nil {
		return loaded.Validation, nil
	}
	return kpi.ValidationResult{}, err
}

// Analyze loads, validates and processes the request's dataset. Results are
// memoized by input text and department filter when a cache is configured.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()
	runID := uuid.New().String()
	sourceLabel := sourceKind(req)

	loaded, err := s.Load(ctx, req)
	if err != nil {
		metrics.AnalysisTotal.WithLabelValues("error").Inc()
		logger.Warn("Analysis rejected",
			zap.String("run_id", runID),
			zap.String("source", sourceLabel),
			zap.Error(err),
		)
		return nil, err
	}

	filter := req.Departments
	if filter == nil {
		filter = []string{}
	}

	key := utils.DatasetKey(loaded.Text, filter)
	snapshot, cached := s.lookup(ctx, key)
	if !cached {
		snapshot = &Snapshot{
			Departments: kpi.Departments(loaded.Dataset.Records),
			Bundle:      kpi.Process(loaded.Dataset.Records, filter),
		}
		observeBundle(snapshot.Bundle)
		s.store(ctx, key, snapshot)
	}

	latency := time.Since(startTime)
	metrics.AnalysisDuration.WithLabelValues(sourceLabel).Observe(latency.Seconds())
	if cached {
		metrics.AnalysisTotal.WithLabelValues("cached").Inc()
	} else {
		metrics.AnalysisTotal.WithLabelValues("success").Inc()
	}

	logger.Info("Analysis completed",
		zap.String("run_id", runID),
		zap.String("source", loaded.Source),
		zap.Int("total_kpis", snapshot.Bundle.TotalKPIs),
		zap.Int("redundant", len(snapshot.Bundle.RedundantMetrics)),
		zap.Int("misleading", len(snapshot.Bundle.MisleadingMetrics)),
		zap.Int("zero_impact", len(snapshot.Bundle.ZeroImpactMetrics)),
		zap.Bool("cached", cached),
		zap.Duration("latency", latency),
	)

	return &Result{
		RunID:       runID,
		Source:      loaded.Source,
		Departments: snapshot.Departments,
		Filter:      filter,
		Bundle:      snapshot.Bundle,
		Cached:      cached,
		LatencyMS:   int(latency.Milliseconds()),
	}, nil
}

func (s *Service) lookup(ctx context.Context, key string) (*Snapshot, bool) {
	if s.cache == nil {
		return nil, false
	}

	var snapshot Snapshot
	hit, err := s.cache.GetAnalysis(ctx, key, &snapshot)
	if err != nil {
		logger.Warn("Cache lookup failed", zap.Error(err))
		metrics.CacheMisses.WithLabelValues("analysis").Inc()
		return nil, false
	}
	if !hit || snapshot.Bundle == nil {
		metrics.CacheMisses.WithLabelValues("analysis").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("analysis").Inc()
	return &snapshot, true
}

func (s *Service) store(ctx context.Context, key string, snapshot *Snapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetAnalysis(ctx, key, snapshot, s.opts.CacheTTL); err != nil {
		logger.Warn("Failed to cache analysis", zap.Error(err))
	}
}

func observeBundle(b *kpi.Bundle) {
	for _, m := range b.AllMetrics {
		metrics.MetricScore.Observe(float64(m.Score))
	}
	metrics.IssuesFlagged.WithLabelValues(string(kpi.IssueRedundant)).Add(float64(len(b.RedundantMetrics)))
	metrics.IssuesFlagged.WithLabelValues(string(kpi.IssueMisleading)).Add(float64(len(b.MisleadingMetrics)))
	metrics.IssuesFlagged.WithLabelValues(string(kpi.IssueZeroImpact)).Add(float64(len(b.ZeroImpactMetrics)))
}

func sourceKind(req Request) string {
	if req.CSV != "" {
		return SourceInline
	}
	return "url"
}
