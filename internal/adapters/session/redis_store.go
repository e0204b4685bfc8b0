package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skillbook/internal/core/services"
	"skillbook/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with a TTL
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisClient creates and pings a Redis client
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Create stores a new session and returns its id
func (s *RedisStore) Create(ctx context.Context, sess services.Session, ttl time.Duration) (string, error) {
	id := uuid.New().String()
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, storageKey(id), payload, ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the session, or services.ErrSessionNotFound if missing or expired
func (s *RedisStore) Get(ctx context.Context, id string) (*services.Session, error) {
	if id == "" {
		return nil, services.ErrSessionNotFound
	}

	val, err := s.rdb.Get(ctx, storageKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, services.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess services.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, storageKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return services.ErrSessionNotFound
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// storageKey hashes the id so a Redis dump does not leak live session ids
func storageKey(id string) string {
	return keyPrefix + password.HashToken(id)
}
