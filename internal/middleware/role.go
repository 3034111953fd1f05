package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-store/internal/config"
	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
// It is a no-op in permissive mode, where no identity is ever established.
func RequireRole(mode, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if mode != config.AuthModeJWT {
			c.Next()
			return
		}

		role, exists := c.Get(ContextUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "User role not found in token"))
			return
		}

		userRole, ok := role.(string)
		if !ok || userRole != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions",
				map[string]interface{}{
					"required_role": requiredRole,
					"user_role":     role,
					"user_id":       c.GetString(ContextUserID),
				}))
			return
		}

		c.Next()
	}
}
