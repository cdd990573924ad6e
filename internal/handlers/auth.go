package handlers

import (
	"net/http"

	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users  *services.UserService
	tokens *services.TokenService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users *services.UserService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)
}

// Register handles user registration with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.users.CreateUser(req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// Login authenticates a user with email and password. Unknown accounts and
// wrong passwords produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.users.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// ForgotPassword starts the password-reset protocol. The response is the same
// whether or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	if err := h.users.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "If an account with that email exists, a reset link has been sent",
	})
}

// ResetPassword completes the reset protocol. Wrong and expired tokens are
// rejected identically.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Token and new password are required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Token and new password are required")
	}

	user, err := h.users.FindByResetToken(req.Token)
	if err != nil {
		return httpError(err)
	}
	if user == nil {
		return httpError(services.ErrInvalidResetToken)
	}

	if err := h.users.ResetPassword(user.ID, req.NewPassword); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}
