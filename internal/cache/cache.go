// Package cache defines the per-token trade lock. Trade execution must
// be serialized per token at the persistence boundary so two concurrent
// trades never quote against the same stale supply.
package cache

import (
	"context"
	"time"
)

// Locker acquires an exclusive per-key lock with a TTL. Acquire returns
// an unlock function on success, or domain.ErrTokenLocked when the lock
// is held by another party.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}
