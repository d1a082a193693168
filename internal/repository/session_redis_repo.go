package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carrental/internal/reservation"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "carrental:session:"

// RedisSessionRepository stores sessions as JSON values that expire after ttl
// without activity.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, database int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisSessionRepository) GetSession(ctx context.Context, id string) (*reservation.Wizard, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("error reading session %q: %w", id, err)
	}

	var w reservation.Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("error decoding session %q: %w", id, err)
	}
	return &w, nil
}

func (r *RedisSessionRepository) SaveSession(ctx context.Context, w *reservation.Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("error encoding session %q: %w", w.ID, err)
	}
	if err := r.client.Set(ctx, sessionKey(w.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("error saving session %q: %w", w.ID, err)
	}
	return nil
}

func (r *RedisSessionRepository) DeleteSession(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("error deleting session %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return nil
}

// DeleteIdleSessions is a no-op: idle sessions expire through their key TTL.
func (r *RedisSessionRepository) DeleteIdleSessions(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

func (r *RedisSessionRepository) CountSessions(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("error counting sessions: %w", err)
	}
	return count, nil
}
