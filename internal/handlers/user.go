package handlers

import (
	"net/http"

	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users   *services.UserService
	follows *services.FollowService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, follows *services.FollowService) *UserHandler {
	return &UserHandler{users: users, follows: follows}
}

// RegisterUserRoutes registers user profile and discovery routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/search", h.SearchUsers)
}

// Me returns the authenticated user's own profile
func (h *UserHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's display name
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Display name is too long")
	}

	user, err := h.users.UpdateProfile(userID, req.DisplayName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers searches for users by a query string (email or display name),
// annotating each result with the caller's follow edges
func (h *UserHandler) SearchUsers(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	results, err := h.follows.Search(userID, c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": results})
}
