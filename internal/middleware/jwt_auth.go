package middleware

import (
	"net/http"
	"strings"

	"github.com/journalme/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ContextUserKey is where verified claims are stored on the echo context
const ContextUserKey = "user"

// JWTAuthMiddleware checks for a valid bearer token and injects the caller's
// identity into the request context. Missing and invalid tokens both yield
// a uniform 401.
func JWTAuthMiddleware(tokens *services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			// Expecting "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}
