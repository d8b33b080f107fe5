package apperr

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// FiberHandler returns the application-wide Fiber error handler. Every error
// becomes a JSON body with a success flag; internal causes and stack traces
// stay in the logs.
func FiberHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := As(err); ok {
			status := appErr.Status()
			if appErr.Kind == KindUpstream {
				logger.Error("upstream failure", "path", c.Path(), "error", err)
			}
			body := fiber.Map{"success": false, "error": appErr.Message}
			if appErr.Kind == KindRateLimit {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(appErr.RetryAfter))
				body["retryAfter"] = appErr.RetryAfter
			}
			return c.Status(status).JSON(body)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"success": false, "error": fe.Message})
		}

		logger.Error("unhandled error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "internal server error",
		})
	}
}
