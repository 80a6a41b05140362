package utils

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// AuthCacheKey is where an issued token's hash is remembered.
func AuthCacheKey(businessID, tokenHash string) string {
	return AuthCachePrefix + businessID + ":" + tokenHash
}

// TokenCache remembers issued tokens in the auth Redis DB with a sliding TTL.
type TokenCache struct {
	Client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{Client: client}
}

// Remember stores a token hash for AuthCacheTTL.
func (c *TokenCache) Remember(ctx context.Context, businessID, tokenHash string) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Set(ctx, AuthCacheKey(businessID, tokenHash), "1", AuthCacheTTL).Err()
}

// Touch refreshes the TTL of a remembered token and reports whether it was there.
func (c *TokenCache) Touch(ctx context.Context, businessID, tokenHash string) (bool, error) {
	if c == nil || c.Client == nil {
		return false, nil
	}
	return c.Client.Expire(ctx, AuthCacheKey(businessID, tokenHash), AuthCacheTTL).Result()
}
