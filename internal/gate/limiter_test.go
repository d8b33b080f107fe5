package gate

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/logging"
)

func limiterApp(store Store) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberHandler(logging.Discard())})
	app.Use(CORS(CORSConfig{Production: false}))
	app.Use(RateLimit(store, NewClassifier(), logging.Discard()))
	app.Post("/api/auth/otp/verify", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	app.Get("/api/products", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func TestRateLimitCeilingAndRetryAfter(t *testing.T) {
	store, _ := newTestStore(time.Now())
	app := limiterApp(store)

	ceiling := Limits[TierStrict].Ceiling
	for i := 0; i < ceiling; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/api/auth/otp/verify", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("call %d: expected 200 got %d", i+1, resp.StatusCode)
		}
		wantRemaining := strconv.Itoa(ceiling - i - 1)
		if got := resp.Header.Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("call %d: expected remaining %s got %s", i+1, wantRemaining, got)
		}
	}

	req := httptest.NewRequest(fiber.MethodPost, "/api/auth/otp/verify", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.StatusCode)
	}

	retryAfter, err := strconv.Atoi(resp.Header.Get(fiber.HeaderRetryAfter))
	if err != nil {
		t.Fatalf("Retry-After not an integer: %v", err)
	}
	window := int(Limits[TierStrict].Window.Seconds())
	if retryAfter < 1 || retryAfter > window {
		t.Fatalf("Retry-After %d outside (0, %d]", retryAfter, window)
	}

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	var payload struct {
		Success    bool   `json:"success"`
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("429 body not json: %v", err)
	}
	if payload.Success {
		t.Fatalf("429 body must report success=false")
	}
	if payload.RetryAfter != retryAfter {
		t.Fatalf("body retryAfter %d != header %d", payload.RetryAfter, retryAfter)
	}

	// Security headers still attached on the throttle response.
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing on 429")
	}
}

func TestRateLimitTierIsolationPerPath(t *testing.T) {
	store, _ := newTestStore(time.Now())
	app := limiterApp(store)

	// Exhaust the strict tier for this caller.
	for i := 0; i < Limits[TierStrict].Ceiling+1; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/api/auth/otp/verify", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.2")
		if _, err := app.Test(req); err != nil {
			t.Fatalf("app.Test: %v", err)
		}
	}

	// The loose tier still serves the same caller.
	req := httptest.NewRequest(fiber.MethodGet, "/api/products", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.2")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected loose tier to allow, got %d", resp.StatusCode)
	}
}

func TestClientKey(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = ClientKey(c)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		forwarded string
		realIP    string
		want      string
	}{
		{"1.1.1.1, 2.2.2.2", "3.3.3.3", "1.1.1.1"},
		{" 4.4.4.4 ", "", "4.4.4.4"},
		{"", "3.3.3.3", "3.3.3.3"},
		{"", "", "unknown"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		if tc.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		if tc.realIP != "" {
			req.Header.Set("X-Real-IP", tc.realIP)
		}
		if _, err := app.Test(req); err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if got != tc.want {
			t.Errorf("ClientKey(%q, %q) = %q, want %q", tc.forwarded, tc.realIP, got, tc.want)
		}
	}
}
