package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flop2top/sharma-and-associates/internal/config"
	"github.com/flop2top/sharma-and-associates/internal/utils"
)

// AdminAuth creates a middleware that gates the admin dashboard behind a
// signed session token.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateAdminToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("adminUser", claims.Username)
		c.Next()
	}
}

// AdminUserFromContext returns the authenticated admin username set by
// AdminAuth.
func AdminUserFromContext(c *gin.Context) (string, bool) {
	user, exists := c.Get("adminUser")
	if !exists {
		return "", false
	}
	name, ok := user.(string)
	return name, ok
}
