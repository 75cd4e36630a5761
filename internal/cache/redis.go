// Package cache provides caching functionality using Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the Redis client.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a new Redis connection.
func NewRedis(uri string) *Redis {
	opt, err := redis.ParseURL("redis://" + uri)
	if err != nil {
		log.Fatalf("Failed to parse Redis URI: %v", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Connected to Redis")

	return &Redis{client: client}
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Close closes the Redis connection.
func (r *Redis) Close() {
	if err := r.client.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}
	log.Println("Disconnected from Redis")
}

// Set stores a value in cache with TTL.
func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return r.client.Set(ctx, key, data, ttl).Err()
}

// Get retrieves a value from cache.
// Returns false if key doesn't exist.
func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return true, nil
}

// Delete removes keys from cache.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// SetRefreshToken maps a refresh token to its user.
func (r *Redis) SetRefreshToken(ctx context.Context, token string, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, RefreshTokenCacheKey(token), userID, ttl).Err()
}

// GetRefreshToken returns the user for a cached refresh token, or "" on a miss.
func (r *Redis) GetRefreshToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, RefreshTokenCacheKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return userID, err
}

// DeleteRefreshTokens removes cached refresh tokens.
func (r *Redis) DeleteRefreshTokens(ctx context.Context, tokens ...string) error {
	keys := make([]string, len(tokens))
	for i, token := range tokens {
		keys[i] = RefreshTokenCacheKey(token)
	}
	return r.Delete(ctx, keys...)
}

// errStaleGeneration aborts a snapshot write that lost a race with an invalidation.
var errStaleGeneration = errors.New("snapshot generation moved")

// SnapshotGeneration reads the user's snapshot generation.
func (r *Redis) SnapshotGeneration(ctx context.Context, userID string) (int64, error) {
	gen, err := r.client.Get(ctx, SessionGenerationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetSnapshot writes the snapshot only while the generation still equals
// generation. The generation key is watched so a concurrent bump aborts it.
func (r *Redis) SetSnapshot(ctx context.Context, userID string, generation int64, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal value: %w", err)
	}

	genKey := SessionGenerationKey(userID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, SessionCacheKey(userID), data, ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

// InvalidateSnapshot bumps the generation and deletes the cached snapshot in one transaction.
func (r *Redis) InvalidateSnapshot(ctx context.Context, userID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, SessionGenerationKey(userID))
		pipe.Del(ctx, SessionCacheKey(userID))
		return nil
	})
	return err
}

// SessionGenerationKey counts invalidations of a user's snapshot. It never expires.
func SessionGenerationKey(userID string) string {
	return fmt.Sprintf("session_gen:%s", userID)
}

// SessionCacheKey is the key of a user's cached membership snapshot.
func SessionCacheKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// RefreshTokenCacheKey generates a cache key for a refresh token.
func RefreshTokenCacheKey(token string) string {
	return fmt.Sprintf("refresh:%s", token)
}
