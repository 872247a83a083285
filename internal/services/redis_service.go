package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisService provides Redis operations for view caches and trigger
// rate limits
type RedisService struct {
	client *redis.Client
}

// NewRedisService creates a new Redis service instance
func NewRedisService() (*RedisService, error) {
	opt, err := redis.ParseURL(config.AppConfig.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisService{client: client}, nil
}

// NewRedisServiceWithClient wraps an existing client (nil disables caching)
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

// Enabled reports whether a Redis backend is available
func (r *RedisService) Enabled() bool {
	return r != nil && r.client != nil
}

// CacheViewJSON stores a serialized view payload with a TTL
func (r *RedisService) CacheViewJSON(view, scope string, payload []byte, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("view:%s:%s", view, scope)
	return r.client.Set(ctx, key, payload, ttl).Err()
}

// GetViewJSON gets a cached view payload; empty result means cache miss
func (r *RedisService) GetViewJSON(view, scope string) ([]byte, error) {
	if !r.Enabled() {
		return nil, nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("view:%s:%s", view, scope)
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

// BustView deletes a cached view payload
func (r *RedisService) BustView(view, scope string) error {
	if !r.Enabled() {
		return nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("view:%s:%s", view, scope)
	return r.client.Del(ctx, key).Err()
}

// SetGenerationCooldown marks a manual generation trigger for a window/date.
// Advisory only: the occurrence unique index is the real duplicate guard.
func (r *RedisService) SetGenerationCooldown(windowUUID, scheduledFor string, cooldownMinutes int) error {
	if !r.Enabled() {
		return nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("generation_cooldown:%s:%s", windowUUID, scheduledFor)
	expire := time.Duration(cooldownMinutes) * time.Minute
	return r.client.Set(ctx, key, "1", expire).Err()
}

// CheckGenerationCooldown reports whether a window/date trigger is still
// inside its cool-down
func (r *RedisService) CheckGenerationCooldown(windowUUID, scheduledFor string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("generation_cooldown:%s:%s", windowUUID, scheduledFor)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}
