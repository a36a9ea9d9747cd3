package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/pkg/apperrors"
)

const (
	keyPrefix   = "session:"
	fieldUser   = "user_id"
	fieldStatus = "status"

	statusActive  = "active"
	statusRevoked = "revoked"
)

// RedisSessionStore keeps sessions as hashes that expire with the session
type RedisSessionStore struct {
	redis *redis.Client
}

// NewRedisClient parses url and pings the server
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisSessionStore wraps an existing client
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{redis: client}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Create stores the session until its expiry
func (s *RedisSessionStore) Create(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperrors.ErrSessionExpired
	}

	key := sessionKey(session.ID)
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		fieldUser:   strconv.FormatInt(session.UserID, 10),
		fieldStatus: statusActive,
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}

	session.CreatedAt = time.Now()
	return nil
}

// Check reports whether the session is still usable. Expired sessions
// have already been evicted by Redis and read as invalid.
func (s *RedisSessionStore) Check(ctx context.Context, sessionID string) error {
	status, err := s.redis.HGet(ctx, sessionKey(sessionID), fieldStatus).Result()
	if errors.Is(err, redis.Nil) {
		return apperrors.ErrSessionInvalid
	}
	if err != nil {
		return fmt.Errorf("error checking session: %w", err)
	}

	if status == statusRevoked {
		return apperrors.ErrSessionRevoked
	}
	return nil
}

// Revoke flags the session; the key still expires on its original TTL
func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)
	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	if exists == 0 {
		return nil
	}

	if err := s.redis.HSet(ctx, key, fieldStatus, statusRevoked).Err(); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}
