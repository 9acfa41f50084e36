package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kpi-audit/backend/internal/analysis"
	"github.com/kpi-audit/backend/internal/fetch"
	"github.com/kpi-audit/backend/internal/kpi"
	"github.com/kpi-audit/backend/pkg/logger"
)

// writeError maps service errors onto status codes. action names the failed
// operation for the log line and the 500 message.
func writeError(c *fiber.Ctx, err error, action string) error {
	var pe *kpi.ParseError
	var ve *kpi.ValidationError
	var fe *fetch.FetchError

	switch {
	case errors.As(err, &pe):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": pe.Error(),
			"kind":  "parse",
		})
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":           ve.Error(),
			"kind":            "validation",
			"missing_columns": nonNil(ve.MissingColumns),
			"incomplete_rows": nonNil(ve.IncompleteRows),
		})
	case errors.As(err, &fe):
		logger.Warn("Dataset fetch failed", zap.String("url", fe.URL), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fe.Error(),
			"kind":  "fetch",
		})
	case errors.Is(err, analysis.ErrNoInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either csv or url is required",
		})
	}

	logger.Error("Failed to "+action, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to " + action,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
