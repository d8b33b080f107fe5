package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/account"
	"github.com/sokocart/sokocart/internal/session"
)

// RegisterAdminRoutes wires the administrator surface. Everything under the
// admin prefix sits in the moderate rate-limit tier except login, which is
// strict.
func RegisterAdminRoutes(r fiber.Router, h *session.Handler, accounts *account.Handler, requireAdmin fiber.Handler) {
	group := r.Group("/admin")
	group.Post("/login", h.AdminLogin)
	group.Post("/logout", h.AdminLogout)
	group.Put("/settings", requireAdmin, h.AdminSettings)

	deletions := group.Group("/deletion-requests", requireAdmin)
	deletions.Get("/", accounts.List)
	deletions.Post("/:id/approve", accounts.Approve)
	deletions.Post("/:id/reject", accounts.Reject)
}
