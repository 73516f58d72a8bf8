package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dayplanhq/dayplan-api/internal/middleware"
	"github.com/dayplanhq/dayplan-api/internal/models"
)

// claimsFromContext returns the authenticated user's claims, or nil
// when the JWT middleware did not run for this route.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	if claims, ok := value.(*models.JWTClaims); ok {
		return claims
	}
	return nil
}
