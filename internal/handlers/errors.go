package handlers

import (
	"errors"
	"net/http"

	"github.com/journalme/backend/internal/repositories"
	"github.com/journalme/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// httpError maps service-layer errors to HTTP statuses by error kind, never
// by message text
func httpError(err error) *echo.HTTPError {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Reason)
	case errors.Is(err, services.ErrUserAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	case errors.Is(err, services.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	case errors.Is(err, services.ErrEdgeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Follow request not found")
	case errors.Is(err, services.ErrNotEdgeTarget):
		return echo.NewHTTPError(http.StatusForbidden, "You cannot act on this request")
	case errors.Is(err, services.ErrInvalidResetToken):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
	case errors.Is(err, services.ErrNotEntryOwner):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	case errors.Is(err, repositories.ErrEntryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
