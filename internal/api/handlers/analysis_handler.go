package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kpi-audit/backend/internal/analysis"
	"github.com/kpi-audit/backend/internal/ingest"
	"github.com/kpi-audit/backend/internal/kpi"
	"github.com/kpi-audit/backend/pkg/logger"
)

type AnalysisHandler struct {
	service *analysis.Service
}

func NewAnalysisHandler(service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
	}
}

type queryRequest struct {
	analysis.Request
	Query kpi.MetricQuery `json:"query"`
}

type breakdownRequest struct {
	analysis.Request
	ID string `json:"id"`
}

func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req analysis.Request
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	result, err := h.service.Analyze(c.Context(), req)
	if err != nil {
		return writeError(c, err, "analyze dataset")
	}

	return c.JSON(result)
}

func (h *AnalysisHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A CSV file is required in the file field",
		})
	}

	f, err := file.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Failed to read uploaded file", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	text, err := ingest.Decode(body, file.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return writeError(c, err, "decode uploaded file")
	}
	if strings.TrimSpace(text) == "" {
		return writeError(c, &kpi.ParseError{Msg: "uploaded file is empty"}, "decode uploaded file")
	}

	logger.Info("CSV uploaded",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
	)

	result, err := h.service.Analyze(c.Context(), analysis.Request{
		CSV:         text,
		Departments: formValues(c, "departments"),
	})
	if err != nil {
		return writeError(c, err, "analyze uploaded file")
	}

	return c.JSON(result)
}

// Sample analyzes the configured default dataset.
func (h *AnalysisHandler) Sample(c *fiber.Ctx) error {
	if !h.service.HasDefaultDataset() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No sample dataset configured",
		})
	}

	result, err := h.service.Analyze(c.Context(), analysis.Request{
		Departments: queryValues(c, "departments"),
	})
	if err != nil {
		return writeError(c, err, "analyze sample dataset")
	}

	return c.JSON(result)
}

func (h *AnalysisHandler) Validate(c *fiber.Ctx) error {
	var req analysis.Request
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	result, err := h.service.Validate(c.Context(), req)
	if err != nil {
		return writeError(c, err, "validate dataset")
	}

	return c.JSON(result)
}

func (h *AnalysisHandler) Export(c *fiber.Ctx) error {
	var req analysis.Request
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	result, err := h.service.Analyze(c.Context(), req)
	if err != nil {
		return writeError(c, err, "export results")
	}

	c.Attachment(kpi.ExportFilename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	if err := kpi.WriteCSV(c, result.Bundle.AllMetrics); err != nil {
		logger.Error("Failed to write export", zap.Error(err))
		return err
	}
	return nil
}

func (h *AnalysisHandler) QueryMetrics(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	result, err := h.service.Analyze(c.Context(), req.Request)
	if err != nil {
		return writeError(c, err, "query metrics")
	}

	metrics := kpi.QueryMetrics(result.Bundle.AllMetrics, req.Query)

	return c.JSON(fiber.Map{
		"run_id":  result.RunID,
		"total":   len(result.Bundle.AllMetrics),
		"matched": len(metrics),
		"metrics": metrics,
	})
}

func (h *AnalysisHandler) Breakdown(c *fiber.Ctx) error {
	var req breakdownRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Metric id is required",
		})
	}

	result, err := h.service.Analyze(c.Context(), req.Request)
	if err != nil {
		return writeError(c, err, "explain metric score")
	}

	metric, ok := result.Bundle.FindMetric(req.ID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Metric not found",
		})
	}

	return c.JSON(fiber.Map{
		"metric":    metric,
		"breakdown": kpi.Breakdown(metric, metric.Issues),
	})
}

func (h *AnalysisHandler) Report(c *fiber.Ctx) error {
	var req analysis.Request
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	result, err := h.service.Analyze(c.Context(), req)
	if err != nil {
		return writeError(c, err, "build report")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(analysis.RenderSummary(result))
}

func invalidBody(c *fiber.Ctx, err error) error {
	logger.Error("Failed to parse request body", zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

// formValues returns every value of a repeated multipart field. Values are
// taken whole since department names may contain commas.
func formValues(c *fiber.Ctx, key string) []string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return nonEmpty(form.Value[key])
}

func queryValues(c *fiber.Ctx, key string) []string {
	var values []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		values = append(values, string(v))
	}
	return nonEmpty(values)
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
