package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// staleMultiple controls the sweep: entries older than staleMultiple times
// the largest window seen are dropped, so the ledger does not grow without
// bound across long uptimes.
const staleMultiple = 10

// MemoryLedger is the in-process Ledger. Entries survive only for the life
// of the process; use RedisLedger when cooldowns must outlive restarts.
type MemoryLedger struct {
	clock clockwork.Clock
	keys  *keyLocks

	mu        sync.Mutex
	entries   map[string]time.Time
	maxWindow time.Duration
	lastSweep time.Time
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger(clock clockwork.Clock) *MemoryLedger {
	return &MemoryLedger{
		clock:     clock,
		keys:      newKeyLocks(),
		entries:   make(map[string]time.Time),
		lastSweep: clock.Now(),
	}
}

// Allowed implements Ledger.
func (l *MemoryLedger) Allowed(_ context.Context, key string, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if window > l.maxWindow {
		l.maxWindow = window
	}
	last, ok := l.entries[key]
	if !ok {
		return true, nil
	}
	return l.clock.Now().Sub(last) >= window, nil
}

// Record implements Ledger.
func (l *MemoryLedger) Record(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.entries[key] = now
	l.sweepLocked(now)
	return nil
}

// LockKey implements Ledger.
func (l *MemoryLedger) LockKey(key string) func() {
	return l.keys.lock(key)
}

// Len reports the number of tracked keys.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// sweepLocked drops entries stale beyond any plausible cooldown. Runs at
// most once per maxWindow. Caller holds l.mu.
func (l *MemoryLedger) sweepLocked(now time.Time) {
	if l.maxWindow <= 0 || now.Sub(l.lastSweep) < l.maxWindow {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-staleMultiple * l.maxWindow)
	for key, last := range l.entries {
		if last.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}
