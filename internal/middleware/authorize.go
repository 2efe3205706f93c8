package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		if _, ok := roleSet[actor.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
