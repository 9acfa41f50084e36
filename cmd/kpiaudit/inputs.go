package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kpi-audit/backend/internal/analysis"
	"github.com/kpi-audit/backend/internal/fetch"
	"github.com/kpi-audit/backend/internal/ingest"
	"github.com/kpi-audit/backend/pkg/config"
)

func newService(cfg *config.Config) *analysis.Service {
	fetcher := fetch.NewClient(fetch.Config{
		Timeout:         cfg.Fetch.Timeout(),
		MaxAttempts:     cfg.Fetch.MaxAttempts,
		InitialDelay:    time.Duration(cfg.Fetch.InitialDelayMs) * time.Millisecond,
		MaxBodyBytes:    cfg.Fetch.MaxBodyBytes,
		BreakerFailures: cfg.Fetch.BreakerFailures,
		BreakerTimeout:  time.Duration(cfg.Fetch.BreakerTimeoutSec) * time.Second,
	})

	return analysis.NewService(fetcher, nil, analysis.Options{
		DefaultURL: cfg.Fetch.DefaultURL,
	})
}

// buildRequest turns a CLI argument into a dataset request. URLs are left to
// the service; "-" reads stdin; anything else is a local file.
func buildRequest(input string, stdin io.Reader, departments []string) (analysis.Request, error) {
	req := analysis.Request{Departments: departments}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		req.URL = input
		return req, nil
	}

	var body []byte
	var err error
	if input == "-" {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(input)
	}
	if err != nil {
		return req, fmt.Errorf("read %s: %w", input, err)
	}

	text, err := ingest.Decode(body, contentTypeFor(input))
	if err != nil {
		return req, fmt.Errorf("%s: %w", input, err)
	}
	if strings.TrimSpace(text) == "" {
		return req, fmt.Errorf("%s: file is empty", input)
	}

	req.CSV = text
	return req, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".csv":
		return "text/csv"
	}
	return ""
}
