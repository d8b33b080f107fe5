package gate

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/apperr"
)

// RateLimit returns the admission middleware. Each request is keyed by
// caller IP and classified to a tier; exceeding the tier ceiling yields 429
// with a Retry-After hint. Preflight requests are answered upstream by the
// CORS middleware and never reach this point.
func RateLimit(store Store, classifier *Classifier, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := ClientKey(c)
		tier := classifier.Classify(c.Path())

		decision, err := store.Allow(c.UserContext(), key, tier)
		if err != nil {
			// Admission must not take the service down with it; log and let
			// the request through.
			logger.Error("rate limit store failure", "key", key, "error", err)
			return c.Next()
		}

		if !decision.Allowed {
			retryAfter := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			return apperr.RateLimited("too many requests, please try again later", retryAfter)
		}

		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		return c.Next()
	}
}

// ClientKey resolves the caller identity for rate limiting: the first entry
// of X-Forwarded-For, else X-Real-IP, else "unknown".
func ClientKey(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return "unknown"
}
