package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/session"
)

// RegisterAuthRoutes wires end-user authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *session.Handler, requireUser fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/otp/request", h.RequestOTP)
	group.Post("/otp/verify", h.VerifyOTP)
	group.Post("/logout", requireUser, h.Logout)
	group.Get("/me", requireUser, h.Me)
}
