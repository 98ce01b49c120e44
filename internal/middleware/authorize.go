package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stocktrack/api/internal/models"
)

// RequireAdmin gates a route to admin callers. It assumes Auth ran first.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized: User info missing"})
			return
		}

		if models.UserRole(claims.Role) != models.UserRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Access denied: Admins only"})
			return
		}

		c.Next()
	}
}
