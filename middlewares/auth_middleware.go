package middlewares

import (
	"net/http"
	"strings"

	"github.com/FlowDomain/NutriLog/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores "userID" (uint) and
// "email" in the context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			// browsers cannot set headers on websocket upgrades
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		userID, email, err := utils.ParseJWT(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", userID)
		c.Set("email", email)
		c.Next()
	}
}
