package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireCronSecret gates batch-trigger endpoints behind a bearer secret.
// When no secret is configured the gate is open, which is the expected
// setup for local development. When configured, a missing or mismatched
// token rejects the request before any processing begins.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || token == authHeader || token != secret {
			log.Printf("Rejected cron trigger from %s: bad or missing secret", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or missing cron secret",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
