package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerTokenKey = "bearerToken"

// BearerTokenMiddleware extracts the provider's bearer credential and
// stashes it for the dispatch engine to forward to the marketplace
// backend. Validation, refresh and expiry are owned by the backend;
// this layer only carries the token.
func BearerTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		c.Set(bearerTokenKey, strings.TrimPrefix(authHeader, "Bearer "))
		c.Next()
	}
}

// BearerToken returns the credential stored by BearerTokenMiddleware.
func BearerToken(c *gin.Context) string {
	return c.GetString(bearerTokenKey)
}
