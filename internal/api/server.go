package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/kpi-audit/backend/internal/analysis"
	"github.com/kpi-audit/backend/internal/api/handlers"
	"github.com/kpi-audit/backend/internal/metrics"
	"github.com/kpi-audit/backend/internal/middleware/ratelimit"
	"github.com/kpi-audit/backend/internal/middleware/security"
	"github.com/kpi-audit/backend/internal/middleware/validation"
	"github.com/kpi-audit/backend/pkg/config"
	"github.com/kpi-audit/backend/pkg/logger"
)

const apiPrefix = "/api/v1"

// Dependencies are the collaborators behind the routes. Cache and Checks are
// optional.
type Dependencies struct {
	Service *analysis.Service
	Cache   handlers.CacheInvalidator
	Checks  map[string]handlers.Check
}

type Server struct {
	app     *fiber.App
	limiter *ratelimit.RateLimiter
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		SkipPaths:         []string{"/metrics", apiPrefix + "/health", apiPrefix + "/ready"},
		Logger:            logger.Named("ratelimit"),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(cfg.Security.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + ratelimit.ClientHeader,
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: cfg.Security.AllowedOrigins,
		IsDevelopment:  cfg.Security.IsDevelopment,
	}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		DatasetPaths: []string{
			apiPrefix + "/analyze",
			apiPrefix + "/validate",
			apiPrefix + "/export",
			apiPrefix + "/metrics/query",
			apiPrefix + "/metrics/breakdown",
			apiPrefix + "/report",
		},
		MaxCSVBytes: cfg.Server.BodyLimit,
		Logger:      logger.Named("validation"),
	}))

	app.Get("/metrics", metrics.MetricsHandler())

	analysisHandler := handlers.NewAnalysisHandler(deps.Service)
	systemHandler := handlers.NewSystemHandler(deps.Checks, deps.Cache)

	api := app.Group(apiPrefix)

	api.Get("/health", systemHandler.Health)
	api.Get("/ready", systemHandler.Ready)
	api.Get("/rubric", systemHandler.Rubric)
	api.Delete("/cache", systemHandler.InvalidateCache)

	api.Post("/analyze", analysisHandler.Analyze)
	api.Post("/analyze/upload", analysisHandler.Upload)
	api.Get("/sample", analysisHandler.Sample)
	api.Post("/validate", analysisHandler.Validate)
	api.Post("/export", analysisHandler.Export)
	api.Post("/metrics/query", analysisHandler.QueryMetrics)
	api.Post("/metrics/breakdown", analysisHandler.Breakdown)
	api.Post("/report", analysisHandler.Report)

	return &Server{app: app, limiter: limiter}
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.limiter.Stop()
	return s.app.ShutdownWithTimeout(timeout)
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}

	logger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
