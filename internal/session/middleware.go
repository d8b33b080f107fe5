package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/apperr"
)

// Locals keys set by the auth middlewares.
const (
	LocalPrincipalID = "principal_id"
	LocalToken       = "session_token"
	LocalAdminID     = "admin_id"
)

// UserCookie and AdminCookie name the httpOnly session cookies.
const (
	UserCookie  = "token"
	AdminCookie = "admin_token"
)

// RequireUser guards end-user routes. The token comes from the
// Authorization bearer header, falling back to the session cookie.
func RequireUser(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c, UserCookie)
		if token == "" {
			return apperr.Auth("authentication required")
		}
		p, err := svc.Validate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalPrincipalID, p.ID)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// RequireAdmin guards administrator routes.
func RequireAdmin(svc *AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c, AdminCookie)
		if token == "" {
			return apperr.Auth("authentication required")
		}
		adminID, err := svc.Validate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalAdminID, adminID)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx, cookieName string) string {
	authz := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return c.Cookies(cookieName)
}
