package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kpi-audit/backend/internal/kpi"
	"github.com/kpi-audit/backend/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type CacheInvalidator interface {
	InvalidateAnalyses(ctx context.Context) (int, error)
}

type SystemHandler struct {
	checks map[string]Check
	cache  CacheInvalidator
}

// NewSystemHandler builds the health, readiness and rubric routes. cache may be nil when
// result memoization is disabled.
func NewSystemHandler(checks map[string]Check, cache CacheInvalidator) *SystemHandler {
	return &SystemHandler{
		checks: checks,
		cache:  cache,
	}
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *SystemHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{}
	ready := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			status[name] = err.Error()
			ready = false
			continue
		}
		status[name] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"checks": status,
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": status,
	})
}

func (h *SystemHandler) Rubric(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"min_score": kpi.MinScore,
		"max_score": kpi.MaxScore,
		"factors":   kpi.Rubric(),
	})
}

func (h *SystemHandler) InvalidateCache(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Result cache is disabled",
		})
	}

	removed, err := h.cache.InvalidateAnalyses(c.Context())
	if err != nil {
		logger.Error("Failed to invalidate cache", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to invalidate cache",
		})
	}

	return c.JSON(fiber.Map{
		"removed": removed,
	})
}
