package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var controlCharPattern = regexp.MustCompile(`[\x00-\x1f\x7f]`)

type Config struct {
	// DatasetPaths are POST routes whose JSON body carries a dataset request.
	DatasetPaths        []string
	MaxCSVBytes         int
	MaxDepartments      int
	MaxDepartmentLength int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxCSVBytes == 0 {
		cfg.MaxCSVBytes = 10 * 1024 * 1024
	}
	if cfg.MaxDepartments == 0 {
		cfg.MaxDepartments = 100
	}
	if cfg.MaxDepartmentLength == 0 {
		cfg.MaxDepartmentLength = 200
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json", "multipart/form-data"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	datasetPaths := make(map[string]struct{}, len(cfg.DatasetPaths))
	for _, p := range cfg.DatasetPaths {
		datasetPaths[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !hasAllowedType(contentType, cfg.AllowedContentTypes) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Unsupported content type",
			})
		}

		if _, ok := datasetPaths[c.Path()]; !ok {
			return c.Next()
		}

		var req map[string]interface{}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON format",
			})
		}

		if raw, ok := req["csv"]; ok && raw != nil {
			csv, ok := raw.(string)
			if !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "csv must be a string",
				})
			}
			if len(csv) > cfg.MaxCSVBytes {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"error": "CSV content exceeds maximum size",
				})
			}
		}

		if raw, ok := req["url"]; ok && raw != nil {
			urlStr, ok := raw.(string)
			if !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "url must be a string",
				})
			}
			if urlStr != "" && !isValidURL(urlStr) {
				cfg.Logger.Warn("Rejected dataset URL",
					zap.String("ip", c.IP()),
					zap.String("url", urlStr),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid URL format",
				})
			}
		}

		if raw, ok := req["departments"]; ok && raw != nil {
			if msg := checkDepartments(raw, cfg.MaxDepartments, cfg.MaxDepartmentLength); msg != "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": msg,
				})
			}
		}

		return c.Next()
	}
}

func checkDepartments(raw interface{}, maxCount, maxLength int) string {
	list, ok := raw.([]interface{})
	if !ok {
		return "departments must be an array of strings"
	}
	if len(list) > maxCount {
		return "too many departments"
	}
	for _, item := range list {
		name, ok := item.(string)
		if !ok {
			return "departments must be an array of strings"
		}
		if len(name) > maxLength || controlCharPattern.MatchString(name) {
			return "invalid department name"
		}
	}
	return ""
}

func hasAllowedType(contentType string, allowed []string) bool {
	for _, allowedType := range allowed {
		if strings.Contains(contentType, allowedType) {
			return true
		}
	}
	return false
}

func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}
