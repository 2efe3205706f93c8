package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/service"
)

const (
	actorKey    = "actor"
	identityKey = "identity"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.Actor, models.Identity, error)
}

// Auth verifies the bearer token and attaches the actor to the request.
func Auth(resolver SessionResolver, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		actor, ident, err := resolver.Resolve(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
				return
			}
			log.Error().Err(err).
				Str("request_id", RequestIDFrom(c)).
				Msg("session resolve failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(actorKey, actor)
		c.Set(identityKey, ident)

		c.Next()
	}
}

func CurrentActor(c *gin.Context) (models.Actor, bool) {
	val, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := val.(models.Actor)
	return actor, ok
}

// CurrentIdentity returns the record re-fetched for the current token.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	ident, ok := val.(models.Identity)
	return ident, ok
}
