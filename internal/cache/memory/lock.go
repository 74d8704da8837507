// Package memory implements cache.Locker in-process for single-node
// deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"wybe-engine/internal/cache"
	"wybe-engine/internal/domain"
)

type lockEntry struct {
	expiry time.Time
	owner  uint64
}

// Locker is an in-process per-key lock table. TTL is honored by
// expiring stale holders on the next acquire attempt. Each acquisition
// gets an owner id so a release after expiry cannot free a lock the
// key has since been re-granted to.
type Locker struct {
	mu    sync.Mutex
	held  map[string]lockEntry
	next  uint64
	clock func() time.Time
}

// NewLocker creates an in-process Locker.
func NewLocker() *Locker {
	return &Locker{
		held:  make(map[string]lockEntry),
		clock: time.Now,
	}
}

// Acquire obtains the lock for key or returns domain.ErrTokenLocked if
// it is held and unexpired. The returned release only frees the lock
// while this acquisition still owns it.
func (l *Locker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if entry, ok := l.held[key]; ok && now.Before(entry.expiry) {
		return nil, domain.ErrTokenLocked
	}
	l.next++
	owner := l.next
	l.held[key] = lockEntry{expiry: now.Add(ttl), owner: owner}

	released := false
	unlock := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if released {
			return
		}
		released = true
		if entry, ok := l.held[key]; ok && entry.owner == owner {
			delete(l.held, key)
		}
	}

	return unlock, nil
}

// Compile-time interface check.
var _ cache.Locker = (*Locker)(nil)
