// Package contact handles storefront contact-form submissions. The endpoint
// sits in the strict rate-limit tier; content formatting and delivery belong
// to the notification collaborator.
package contact

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/notify"
)

// Handler exposes the contact-form endpoint.
type Handler struct {
	notifier notify.Notifier
}

// NewHandler constructs the contact handler.
func NewHandler(notifier notify.Notifier) *Handler {
	return &Handler{notifier: notifier}
}

type submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit validates the form and forwards it through the notifier.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submission
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Message == "" {
		return apperr.Validation("name and message are required")
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return apperr.Validation("invalid email address")
	}

	msg := notify.Message{
		Kind:        notify.KindContactForm,
		Destination: req.Email,
		Subject:     "Contact form: " + req.Name,
		Body:        req.Message,
	}
	if err := h.notifier.Send(c.UserContext(), msg); err != nil {
		return apperr.Upstream("failed to forward message", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "thanks, we'll be in touch"})
}
