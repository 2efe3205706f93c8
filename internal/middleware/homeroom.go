package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

type HomeroomChecker interface {
	IsHomeroomTeacher(ctx context.Context, teacherID string, className string, section string) (bool, error)
}

// RequireHomeroom lets through admins and the homeroom teacher of the
// :className/:section in the route.
func RequireHomeroom(checker HomeroomChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		if actor.Role == models.RoleAdmin {
			c.Next()
			return
		}
		if actor.Role != models.RoleTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		isHomeroom, err := checker.IsHomeroomTeacher(c.Request.Context(), actor.ID, c.Param("className"), c.Param("section"))
		if err != nil {
			log.Error().Err(err).Str("teacher_id", actor.ID).Msg("homeroom check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !isHomeroom {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
