package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/account"
)

// RegisterAccountRoutes wires the user-facing account lifecycle endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler, requireUser fiber.Handler) {
	group := r.Group("/account")
	group.Post("/deletion-request", requireUser, h.Submit)
}
