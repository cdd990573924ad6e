package handlers

import (
	"github.com/journalme/backend/internal/middleware"
	"github.com/journalme/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated caller's user ID, or 0 when
// the request carried no verified claims
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
