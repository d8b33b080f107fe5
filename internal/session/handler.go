package session

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/media"
)

// Handler exposes the session endpoints for both principal classes.
type Handler struct {
	users      *Service
	admins     *AdminService
	tokenTTL   time.Duration
	production bool
}

// NewHandler constructs the session HTTP handler.
func NewHandler(users *Service, admins *AdminService, tokenTTL time.Duration, production bool) *Handler {
	return &Handler{users: users, admins: admins, tokenTTL: tokenTTL, production: production}
}

type otpRequest struct {
	Phone string `json:"phone"`
}

// RequestOTP issues a login code for the submitted phone number.
func (h *Handler) RequestOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	result, err := h.users.RequestOTP(c.UserContext(), req.Phone)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": result.Message})
}

type verifyRequest struct {
	Phone string `json:"phone" form:"phone"`
	OTP   string `json:"otp" form:"otp"`
}

// VerifyOTP exchanges a code for a session token. Accepts JSON or multipart
// form; multipart may attach a profile image of at most 5MB.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	var image *ImageUpload
	if file, err := c.FormFile("image"); err == nil && file != nil {
		if file.Size > media.MaxImageSize {
			return apperr.Validation("profile image must be 5MB or smaller")
		}
		src, err := file.Open()
		if err != nil {
			return apperr.Validation("unreadable profile image")
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return apperr.Validation("unreadable profile image")
		}
		image = &ImageUpload{Data: data, ContentType: file.Header.Get(fiber.HeaderContentType)}
	}

	result, err := h.users.VerifyOTP(c.UserContext(), req.Phone, req.OTP, image)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, UserCookie, result.Token)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   result.Token,
		"user":    result.Profile,
	})
}

// Logout revokes the presented session and expires the cookie. RequireUser
// has already validated the token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(LocalToken).(string)
	if err := h.users.Logout(c.UserContext(), token); err != nil {
		return err
	}
	h.expireCookie(c, UserCookie)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "logged out"})
}

// Me returns the sanitized profile of the authenticated principal.
func (h *Handler) Me(c *fiber.Ctx) error {
	id, _ := c.Locals(LocalPrincipalID).(string)
	p, err := h.users.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return apperr.Auth("invalid or expired session")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "user": p.SanitizedProfile()})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin checks the administrator passphrase and issues a stateless
// token.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	token, err := h.admins.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, AdminCookie, token)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "token": token})
}

// AdminLogout expires the admin cookie. The token itself stays valid until
// natural expiry since no admin token state is stored server-side.
func (h *Handler) AdminLogout(c *fiber.Ctx) error {
	h.expireCookie(c, AdminCookie)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "logged out"})
}

type settingsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminSettings updates the admin credential record, provisioning it with
// defaults on first write.
func (h *Handler) AdminSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.admins.UpdateSettings(c.UserContext(), Settings{Email: req.Email, Password: req.Password}); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "settings updated"})
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, name, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *Handler) expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
