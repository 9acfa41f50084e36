package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(Middleware(Config{
		DatasetPaths: []string{"/api/v1/analyze"},
		MaxCSVBytes:  64,
	}))
	app.Post("/api/v1/analyze", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/api/v1/other", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		want        int
	}{
		{"valid inline csv", "/api/v1/analyze", "application/json", `{"csv":"a,b\n1,2","departments":["Sales"]}`, 200},
		{"valid url", "/api/v1/analyze", "application/json", `{"url":"https://example.com/kpis.csv"}`, 200},
		{"empty body object", "/api/v1/analyze", "application/json", `{}`, 200},
		{"malformed json", "/api/v1/analyze", "application/json", `{"csv":`, 400},
		{"csv not a string", "/api/v1/analyze", "application/json", `{"csv":42}`, 400},
		{"csv too large", "/api/v1/analyze", "application/json", `{"csv":"` + strings.Repeat("x", 65) + `"}`, 413},
		{"bad url scheme", "/api/v1/analyze", "application/json", `{"url":"file:///etc/passwd"}`, 400},
		{"departments not a list", "/api/v1/analyze", "application/json", `{"departments":"Sales"}`, 400},
		{"department with control char", "/api/v1/analyze", "application/json", `{"departments":["Sa\u0000les"]}`, 400},
		{"unsupported content type", "/api/v1/analyze", "text/xml", `<x/>`, 415},
		{"other route skips body checks", "/api/v1/other", "application/json", `{"csv":42}`, 200},
	}

	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
