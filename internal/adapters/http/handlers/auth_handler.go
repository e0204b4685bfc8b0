package handlers

import (
	"errors"
	"time"

	"skillbook/internal/adapters/http/middleware"
	"skillbook/internal/config"
	"skillbook/internal/core/domain"
	"skillbook/internal/core/services"
	"skillbook/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Register(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "register user")
	}

	return response.Success(c, "User registered successfully", user.ToResponse())
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		// Missing credentials are an authentication failure, not a bad request
		if errors.Is(err, domain.ErrValidation) {
			return response.Unauthorized(c, domain.PublicMessage(err, "Invalid credentials"))
		}
		return respondError(c, err, "login")
	}

	h.setAuthCookies(c, result)

	return response.Success(c, "Login successful", result)
}

// Logout drops the server session and clears auth cookies
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context(), c.Cookies(middleware.SessionCookie)); err != nil {
		return respondError(c, err, "logout")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// setAuthCookies sets the access token cookie and, when a session was opened, the session cookie
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, result *services.LoginResult) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60, // Convert minutes to seconds
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	if result.SessionID == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.SessionID,
		Path:     "/",
		MaxAge:   int(h.authService.SessionTTL().Seconds()),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.SessionCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
