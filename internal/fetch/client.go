package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kpi-audit/backend/internal/metrics"
	"github.com/kpi-audit/backend/pkg/circuitbreaker"
	"github.com/kpi-audit/backend/pkg/logger"
	"github.com/kpi-audit/backend/pkg/retry"
)

const userAgent = "kpi-audit/1.0 (+dataset fetcher)"

var ErrBodyTooLarge = errors.New("response body too large")

type Config struct {
	Timeout         time.Duration
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxBodyBytes    int64
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	HTTPClient      *http.Client
}

type Client struct {
	httpClient *http.Client
	retryCfg   retry.Config
	breaker    *circuitbreaker.CircuitBreaker
	maxBytes   int64
}

// Document is a fetched payload before decoding.
type Document struct {
	URL         string
	ContentType string
	Body        []byte
}

// FetchError reports a dataset URL that could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.MaxAttempts
	if cfg.InitialDelay > 0 {
		retryCfg.InitialDelay = cfg.InitialDelay
	}
	retryCfg.ShouldRetry = isRetryable
	retryCfg.Logger = logger.Named("fetch")

	breaker := circuitbreaker.New("dataset-fetch", circuitbreaker.Config{
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
		IsFailure:        isRetryable,
		IsExcluded:       func(err error) bool { return !isRetryable(err) },
		Logger:           logger.Named("breaker"),
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &Client{
		httpClient: httpClient,
		retryCfg:   retryCfg,
		breaker:    breaker,
		maxBytes:   maxBytes,
	}
}

// Breaker exposes the client's circuit breaker for readiness checks.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// Fetch downloads rawURL, retrying transport errors, 429 and 5xx responses.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	if err := checkURL(rawURL); err != nil {
		metrics.FetchTotal.WithLabelValues("rejected").Inc()
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	logger.Info("Fetching dataset", zap.String("url", rawURL))

	var doc *Document
	err := c.breaker.Execute(func() error {
		var err error
		doc, err = retry.DoWithResult(ctx, c.retryCfg, func(ctx context.Context) (*Document, error) {
			return c.get(ctx, rawURL)
		})
		return err
	})
	if err != nil {
		metrics.FetchTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to fetch dataset", zap.String("url", rawURL), zap.Error(err))

		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	metrics.FetchTotal.WithLabelValues("success").Inc()
	logger.Info("Dataset fetched",
		zap.String("url", rawURL),
		zap.Int("bytes", len(doc.Body)),
		zap.String("content_type", doc.ContentType),
	)

	return doc, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv, text/plain, text/html;q=0.8, */*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, c.maxBytes)}
	}

	return &Document{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}

// isRetryable treats cancellation, oversized bodies and 4xx responses other
// than 429 as final.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrBodyTooLarge) {
		return false
	}

	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode != 0 {
		return fe.StatusCode == http.StatusTooManyRequests || fe.StatusCode >= 500
	}
	return true
}
