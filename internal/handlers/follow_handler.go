package handlers

import (
	"net/http"
	"strconv"

	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow-graph HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/request", h.Request)
	g.POST("/:id/accept", h.Accept)
	g.POST("/:id/reject", h.Reject)
	g.GET("/requests", h.ListRequests)
	g.GET("/connections", h.ListConnections)
	g.GET("/feed", h.Feed)
}

// Request sends a follow request to a target user
func (h *FollowHandler) Request(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req models.CreateFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "targetUserId is required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "targetUserId is required")
	}

	result, err := h.follows.Request(userID, req.TargetUserID)
	if err != nil {
		return httpError(err)
	}

	switch {
	case result.AlreadyFollowing:
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Already following this user",
			"follow":  result.Follow,
		})
	case !result.Created:
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Follow request already sent",
			"follow":  result.Follow,
		})
	default:
		return c.JSON(http.StatusCreated, echo.Map{
			"message": "Follow request sent",
			"follow":  result.Follow,
		})
	}
}

// Accept accepts a pending follow request addressed to the caller
func (h *FollowHandler) Accept(c echo.Context) error {
	return h.resolve(c, h.follows.Accept)
}

// Reject rejects a follow request addressed to the caller
func (h *FollowHandler) Reject(c echo.Context) error {
	return h.resolve(c, h.follows.Reject)
}

func (h *FollowHandler) resolve(c echo.Context, action func(edgeID, callerID uint) (*models.Follow, error)) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	edgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	follow, err := action(uint(edgeID), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"follow": follow})
}

// ListRequests lists the caller's pending requests, sent or received
func (h *FollowHandler) ListRequests(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	requests, err := h.follows.ListRequests(userID, c.QueryParam("direction"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// ListConnections lists the caller's accepted following and followers
func (h *FollowHandler) ListConnections(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	connections, err := h.follows.ListConnections(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, connections)
}

// Feed returns the most recent public entries from the caller's accepted
// followings plus the caller's own
func (h *FollowHandler) Feed(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	feed, err := h.follows.Feed(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, feed)
}
