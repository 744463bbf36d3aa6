package middleware

import (
	"net/http"
	"strings"

	"go-inventory-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks if the user has a valid JWT token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Stash identity for the handlers
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("permissionsLevel", claims.PermissionsLevel)

		c.Next()
	}
}

// RequirePermission is a secondary guard for endpoints that need a
// minimum permissions level (1 = staff, 2 = admin).
func RequirePermission(minLevel int) gin.HandlerFunc {
	return func(c *gin.Context) {
		level, exists := c.Get("permissionsLevel")
		if !exists || level.(int) < minLevel {
			c.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}
