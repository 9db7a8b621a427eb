package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "lwsbooking/internal/errors"
)

const sessionKeyPrefix = "lws:session:"

// RedisSessionRepository keeps sessions as JSON values that expire after ttl of inactivity.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisSessionRepository) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("error encoding session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("error saving session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error decoding session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// DeleteIdleBefore is a no-op: keys expire on their own.
func (r *RedisSessionRepository) DeleteIdleBefore(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (r *RedisSessionRepository) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("error counting sessions: %w", err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}
