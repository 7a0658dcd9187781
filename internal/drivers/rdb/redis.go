package rdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vlatan/reels-mixer/internal/config"
)

type Service struct {
	Client *redis.Client
}

// Produce new Redis service
func New(cfg *config.Config) (*Service, error) {

	if cfg == nil {
		return nil, errors.New("unable to create Redis service with nil config")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	return &Service{rdb}, nil
}

// PipeSet stores multiple keys with the same TTL in one round trip.
// The pairs are key, value, key, value...
func (rs *Service) PipeSet(ctx context.Context, ttl time.Duration, pairs ...any) error {

	if len(pairs)%2 != 0 {
		return fmt.Errorf("odd number of key-value arguments: %d", len(pairs))
	}

	_, err := rs.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return fmt.Errorf("key at position %d is not a string", i)
			}
			pipe.Set(ctx, key, pairs[i+1], ttl)
		}
		return nil
	})

	return err
}

// Touch extends the TTL of existing keys
func (rs *Service) Touch(ctx context.Context, ttl time.Duration, keys ...string) error {
	_, err := rs.Client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// Check if the Redis client is healthy
func (rs *Service) Health(ctx context.Context) map[string]any {

	start := time.Now()

	// Test connectivity
	ping, err := rs.Client.Ping(ctx).Result()
	if err != nil {
		return map[string]any{
			"status": "down",
			"error":  err.Error(),
		}
	}

	// Get key count
	keyCount, _ := rs.Client.DBSize(ctx).Result()

	// Get server time (useful for checking if server is responsive)
	serverTime, _ := rs.Client.Time(ctx).Result()

	return map[string]any{
		"status":      "up",
		"ping":        ping,
		"response_ms": time.Since(start).Milliseconds(),
		"total_keys":  keyCount,
		"server_time": serverTime.Unix(),
	}
}
