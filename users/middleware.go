package users

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the Bearer token and stores the resolved identity
// in the request context for downstream handlers.
func AuthMiddleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"message": "Authorization header required"})
			return
		}

		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userAvatar", claims.Avatar)
		c.Next()
	}
}
