package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cafe-admin-service/internal/api/dto"
	"github.com/spec-kit/cafe-admin-service/internal/auth"
	"github.com/spec-kit/cafe-admin-service/internal/config"
	"github.com/spec-kit/cafe-admin-service/internal/service"
)

// AuthHandler exposes registration, login and password reset endpoints.
type AuthHandler struct {
	authService *service.AuthService
	appEnv      string
	cookieName  string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		appEnv:      cfg.App.Env,
		cookieName:  cfg.Auth.CookieName,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), req.Email, req.Username, req.FullName, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": user.Public(),
	})
}

// Login handles POST /api/login. A successful login mints a fresh session
// token and sets it as an HTTP-only cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, token, exp, err := h.authService.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":    user.Public(),
			"session": dto.SessionResponse{ExpiresAt: exp},
		},
	})
}

// Logout handles POST /api/logout by expiring the session cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setSessionCookie(c, "", time.Now().Add(-time.Hour))
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "signed_out"}})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(fiber.Map{"data": principal.User.Public()})
}

// RequestPasswordReset handles POST /api/password/reset/request. The
// response is the same whether or not the identifier matches an account.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	token, err := h.authService.RequestPasswordReset(c.UserContext(), req.Login)
	if err != nil {
		return err
	}

	body := fiber.Map{"status": "reset_requested"}
	// Token delivery is out of scope; outside production it is surfaced
	// here so the flow can be exercised end to end.
	if h.appEnv != "production" && token != "" {
		body["reset_token"] = token
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": body})
}

// ConfirmPasswordReset handles POST /api/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ConfirmPasswordReset(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	cookie := &fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
	}
	if h.appEnv == "production" {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteStrictMode
	}
	c.Cookie(cookie)
}
