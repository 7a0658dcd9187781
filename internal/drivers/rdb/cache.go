package rdb

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetCachedData tries the cache first and falls back to the callable.
// A cache error never fails the call, the callable result is returned.
// The underlying data type needs to implement
// the encoding.BinaryMarshaler/BinaryUnmarshaler interfaces if needed.
func GetCachedData[T any](
	ctx context.Context,
	rdb *Service,
	cacheKey string,
	cacheTimeout time.Duration,
	callable func() (T, error), // Function to call if cache miss
) (T, error) {

	var zero, data T

	err := rdb.Client.Get(ctx, cacheKey).Scan(&data)
	if err == nil {
		return data, nil
	}

	if err != redis.Nil {
		log.Printf(
			"Error getting data from Redis for key '%s': %v",
			cacheKey, err,
		)
	}

	// If not in cache or error, execute the underlying function
	data, err = callable()
	if err != nil {
		return zero, err
	}

	if err = rdb.Client.Set(ctx, cacheKey, data, cacheTimeout).Err(); err != nil {
		// Don't return an error if unable to set redis cache
		log.Printf("Error setting cache in Redis for key '%s': %v", cacheKey, err)
	}

	return data, nil
}

// Invalidate removes cached keys, logging failures
func (rs *Service) Invalidate(ctx context.Context, keys ...string) {
	if err := rs.Client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Error deleting cache in Redis for keys '%v': %v", keys, err)
	}
}
