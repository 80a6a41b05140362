package middleware

import (
	"context"
	"net/http"
	"strings"

	businessRepo "cupbot/database/repository/business"
	"cupbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenCache is the Redis-backed record of issued tokens.
type TokenCache interface {
	Touch(ctx context.Context, businessID, tokenHash string) (bool, error)
	Remember(ctx context.Context, businessID, tokenHash string) error
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "Insufficient authorization",
		"code":  0,
	})
}

// BusinessAuthMiddleware validates the owner's bearer token and sets
// "businessID" in the context. A cached token hash has its TTL refreshed;
// on a miss the business is looked up and the hash cached again.
func BusinessAuthMiddleware(repo businessRepo.BusinessRepository, cache TokenCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := utils.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			unauthorized(c)
			return
		}

		id, _, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil {
			unauthorized(c)
			return
		}
		hash := utils.HashToken(tokenString)

		if cache != nil {
			hit, err := cache.Touch(ctx, id, hash)
			if err != nil {
				logger.Warn("Auth cache unavailable, falling back to DB lookup", zap.Error(err))
			} else if hit {
				c.Set("businessID", id)
				c.Next()
				return
			}
		}

		b, err := repo.GetByID(ctx, id)
		if err != nil || b == nil {
			unauthorized(c)
			return
		}
		if cache != nil {
			if err := cache.Remember(ctx, id, hash); err != nil {
				logger.Warn("Failed to cache auth token", zap.String("businessID", id), zap.Error(err))
			}
		}

		c.Set("businessID", b.ID)
		c.Next()
	}
}
