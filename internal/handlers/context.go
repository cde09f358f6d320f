package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user ID from JWT claims.
// Returns 0 if no valid claims are present.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}
