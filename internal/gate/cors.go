package gate

import (
	"github.com/gofiber/fiber/v2"
)

const (
	allowedMethods = "GET,POST,PUT,DELETE,PATCH,OPTIONS"
	allowedHeaders = "Content-Type, Authorization, X-Requested-With"
)

// staticOrigins is the built-in allowlist; one extra origin comes from
// configuration.
var staticOrigins = []string{
	"http://localhost:3000",
	"https://localhost:3000",
	"http://127.0.0.1:3000",
}

// CORSConfig controls origin policy.
type CORSConfig struct {
	// ExtraOrigin is the environment-configured addition to the allowlist,
	// typically the deployed storefront URL.
	ExtraOrigin string
	// Production denies requests without an Origin header. Outside
	// production such requests (curl, server-to-server) pass through.
	Production bool
}

// CORS returns the origin-policy middleware. It always attaches the fixed
// security header set, emits Access-Control-Allow-* only for allowlisted
// origins and answers OPTIONS preflight before rate limiting runs.
func CORS(cfg CORSConfig) fiber.Handler {
	allowed := make(map[string]struct{}, len(staticOrigins)+1)
	for _, o := range staticOrigins {
		allowed[o] = struct{}{}
	}
	if cfg.ExtraOrigin != "" {
		allowed[cfg.ExtraOrigin] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		setSecurityHeaders(c)

		origin := c.Get(fiber.HeaderOrigin)
		_, originAllowed := allowed[origin]

		if originAllowed {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
		}

		if c.Method() == fiber.MethodOptions {
			if originAllowed {
				c.Set(fiber.HeaderAccessControlAllowMethods, allowedMethods)
				c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		if origin == "" {
			if cfg.Production {
				return fiber.NewError(fiber.StatusForbidden, "origin required")
			}
			return c.Next()
		}

		if !originAllowed && cfg.Production {
			return fiber.NewError(fiber.StatusForbidden, "origin not allowed")
		}

		return c.Next()
	}
}

func setSecurityHeaders(c *fiber.Ctx) {
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("X-Frame-Options", "DENY")
	c.Set("X-XSS-Protection", "1; mode=block")
	c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
}
