package cache

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_cache.go -package=mocks workspace-access/internal/cache Cache

// Cache defines the interface for caching operations.
type Cache interface {
	// Set stores a value in cache with TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get retrieves a value from cache. Returns false if key doesn't exist.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Delete removes keys from cache. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// SetRefreshToken stores a refresh token in cache.
	SetRefreshToken(ctx context.Context, token string, userID string, ttl time.Duration) error
	// GetRefreshToken retrieves a user ID from a refresh token.
	// Returns an empty string if the token is not cached.
	GetRefreshToken(ctx context.Context, token string) (string, error)
	// DeleteRefreshTokens removes refresh tokens from cache.
	DeleteRefreshTokens(ctx context.Context, tokens ...string) error
	// SnapshotGeneration returns the user's snapshot generation, 0 if never bumped.
	SnapshotGeneration(ctx context.Context, userID string) (int64, error)
	// SetSnapshot caches a snapshot loaded at generation. It stores nothing and
	// returns false if the generation has moved since.
	SetSnapshot(ctx context.Context, userID string, generation int64, value interface{}, ttl time.Duration) (bool, error)
	// InvalidateSnapshot bumps the generation and drops the cached snapshot atomically.
	InvalidateSnapshot(ctx context.Context, userID string) error
}

// Ensure Redis implements Cache interface
var _ Cache = (*Redis)(nil)
