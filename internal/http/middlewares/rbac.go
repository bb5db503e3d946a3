package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole assumes RequireAuth already ran. This is a plain claims check,
// not a policy engine.
func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "token not found",
			})
			return
		}
		if role != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "access denied, admin only",
			})
			return
		}
		c.Next()
	}
}
