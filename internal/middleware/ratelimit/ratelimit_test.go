package ratelimit

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestApp(t *testing.T, clock *fakeClock) *fiber.App {
	t.Helper()

	rl := New(Config{
		RequestsPerMinute: 2,
		SkipPaths:         []string{"/health"},
		Now:               clock.Now,
	})
	t.Cleanup(rl.Stop)

	app := fiber.New()
	app.Use(rl.Middleware())
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func status(t *testing.T, app *fiber.App, path, clientID string) int {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if clientID != "" {
		req.Header.Set(ClientHeader, clientID)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp.StatusCode
}

func TestRateLimitExhaustsAndRefills(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	app := newTestApp(t, clock)

	for i := 0; i < 2; i++ {
		if got := status(t, app, "/api", ""); got != fiber.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, got)
		}
	}
	if got := status(t, app, "/api", ""); got != fiber.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", got)
	}

	clock.Advance(30 * time.Second)
	if got := status(t, app, "/api", ""); got != fiber.StatusOK {
		t.Errorf("status after refill = %d, want 200", got)
	}
}

func TestRateLimitKeysOnClientHeader(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	app := newTestApp(t, clock)

	status(t, app, "/api", "a")
	status(t, app, "/api", "a")
	if got := status(t, app, "/api", "a"); got != fiber.StatusTooManyRequests {
		t.Fatalf("client a status = %d, want 429", got)
	}
	if got := status(t, app, "/api", "b"); got != fiber.StatusOK {
		t.Errorf("client b status = %d, want 200", got)
	}
}

func TestRateLimitSkipsExemptPaths(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	app := newTestApp(t, clock)

	for i := 0; i < 5; i++ {
		if got := status(t, app, "/health", ""); got != fiber.StatusOK {
			t.Fatalf("health request %d status = %d, want 200", i+1, got)
		}
	}
}
