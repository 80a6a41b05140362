package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cupbot/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "session:"

// RedisStore keeps sessions as JSON with a sliding TTL, so several bot
// processes can share conversation state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(userID int64) string {
	return sessionPrefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*models.Session, error) {
	data, err := s.client.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return models.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %d: %w", userID, err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %d: %w", userID, err)
	}
	return &sess, nil
}

// Update is a read-modify-write. Overlapping updates for the same user may
// lose one of them.
func (s *RedisStore) Update(ctx context.Context, userID int64, patch models.SessionPatch) (*models.Session, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.Apply(patch)
	sess.UpdatedAt = time.Now()

	b, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %d: %w", userID, err)
	}
	if err := s.client.Set(ctx, key(userID), b, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to save session %d: %w", userID, err)
	}
	return sess, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session %d: %w", userID, err)
	}
	return nil
}
