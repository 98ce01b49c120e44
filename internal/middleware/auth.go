package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stocktrack/api/internal/security"
)

const claimsContextKey = "access_claims"

// Auth validates the bearer token and attaches the decoded claims to the
// request context. Tokens are self-contained: no user or session lookup
// happens here, a token stays valid until its natural expiry.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Access denied: No token provided"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid token format. Use 'Bearer <token>'"})
			return
		}

		claims, err := security.ParseAccessToken(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid or expired token"})
			return
		}

		c.Set(claimsContextKey, *claims)
		c.Next()
	}
}

// ClaimsFrom returns the identity attached by Auth.
func ClaimsFrom(c *gin.Context) (security.AccessClaims, bool) {
	v, exists := c.Get(claimsContextKey)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := v.(security.AccessClaims)
	return claims, ok
}
