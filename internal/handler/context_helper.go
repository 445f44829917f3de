package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trth/performance-api/internal/middleware"
	"github.com/trth/performance-api/internal/models"
)

// claimsFromContext returns the authenticated caller's claims, or nil when
// the route runs without the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
