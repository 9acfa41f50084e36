package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kpi-audit/backend/internal/analysis"
	"github.com/kpi-audit/backend/internal/api"
	"github.com/kpi-audit/backend/internal/api/handlers"
	"github.com/kpi-audit/backend/internal/cache/redis"
	"github.com/kpi-audit/backend/internal/fetch"
	"github.com/kpi-audit/backend/internal/metrics"
	"github.com/kpi-audit/backend/pkg/circuitbreaker"
	"github.com/kpi-audit/backend/pkg/config"
	appLogger "github.com/kpi-audit/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting KPI Audit API Server")

	metrics.Init()

	fetchClient := fetch.NewClient(fetch.Config{
		Timeout:         cfg.Fetch.Timeout(),
		MaxAttempts:     cfg.Fetch.MaxAttempts,
		InitialDelay:    time.Duration(cfg.Fetch.InitialDelayMs) * time.Millisecond,
		MaxBodyBytes:    cfg.Fetch.MaxBodyBytes,
		BreakerFailures: cfg.Fetch.BreakerFailures,
		BreakerTimeout:  time.Duration(cfg.Fetch.BreakerTimeoutSec) * time.Second,
	})

	checks := map[string]handlers.Check{
		"dataset_fetch": func(context.Context) error {
			if fetchClient.Breaker().State() == circuitbreaker.StateOpen {
				return circuitbreaker.ErrCircuitOpen
			}
			return nil
		},
	}

	var cache analysis.Cache
	var invalidator handlers.CacheInvalidator
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, result caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cache = redisClient
			invalidator = redisClient
			checks["redis"] = redisClient.Ping
		}
	}

	service := analysis.NewService(fetchClient, cache, analysis.Options{
		DefaultURL: cfg.Fetch.DefaultURL,
		CacheTTL:   cfg.Redis.TTL(),
	})

	server := api.NewServer(cfg, api.Dependencies{
		Service: service,
		Cache:   invalidator,
		Checks:  checks,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if err := server.Shutdown(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
