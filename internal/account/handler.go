package account

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/session"
)

// Handler exposes deletion-request endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs the account HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type submitRequest struct {
	Reason string `json:"reason"`
}

// Submit files a deletion request for the authenticated user. The session is
// revoked as part of the operation, so the response also expires the cookie.
func (h *Handler) Submit(c *fiber.Ctx) error {
	principalID, _ := c.Locals(session.LocalPrincipalID).(string)

	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	created, err := h.svc.Submit(c.UserContext(), principalID, req.Reason)
	if err != nil {
		return err
	}
	c.ClearCookie(session.UserCookie)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "deletion request submitted, please log in again for further access",
		"request": created,
	})
}

// List returns all deletion requests. Admin only.
func (h *Handler) List(c *fiber.Ctx) error {
	requests, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	if requests == nil {
		requests = []DeletionRequest{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "requests": requests})
}

// Approve grants a pending deletion request and revokes the target session.
func (h *Handler) Approve(c *fiber.Ctx) error {
	req, err := h.svc.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "request": req})
}

// Reject declines a pending deletion request.
func (h *Handler) Reject(c *fiber.Ctx) error {
	req, err := h.svc.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "request": req})
}
