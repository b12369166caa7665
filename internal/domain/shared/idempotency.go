package shared

import (
	"context"
	"time"
)

// IdempotencyPending is stored against a key while the first request holding it is still running
const IdempotencyPending = "pending"

// IdempotencyStore remembers the outcome of requests carrying an idempotency key
type IdempotencyStore interface {
	// Reserve claims the key for the caller.
	// Returns true if the key was free, false if another request already holds it.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the result reference (e.g. the created bill ID) under the key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Lookup returns the stored value for the key, if any
	Lookup(ctx context.Context, key string) (string, bool, error)

	// Release frees a reserved key after the request failed
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig holds configuration for request idempotency
type IdempotencyConfig struct {
	// TTL is how long a completed key is remembered. Default: 24 hours
	TTL time.Duration
	// PendingTTL bounds how long a crashed request can hold a key. Default: 1 minute
	PendingTTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:        24 * time.Hour,
		PendingTTL: time.Minute,
	}
}
