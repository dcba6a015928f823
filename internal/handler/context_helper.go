package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studentools-api/internal/middleware"
	"github.com/noah-isme/studentools-api/internal/models"
)

// claimsFromContext returns the token claims stored by middleware.JWT, if any.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	if claims, ok := value.(*models.JWTClaims); ok {
		return claims
	}
	return nil
}
