// Package debounce enforces per-person attempt exclusivity and cooldown.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Default debouncer configuration constants.
const (
	defaultCooldown = 30 * time.Second
)

// Debouncer gates recording attempts per person. It guarantees at most one
// in-flight attempt per person and at most one attempt per cooldown window.
type Debouncer interface {
	// TryBegin atomically checks whether an attempt for personID may
	// start at now and, if so, marks it in flight. The cooldown stamp is
	// written before the attempt resolves so overlapping frames cannot
	// race past the check.
	TryBegin(ctx context.Context, personID string, now time.Time) bool

	// Complete clears the in-flight marker for personID. It must be
	// called when the downstream attempt finishes, whether it succeeded
	// or not. The cooldown stamp is deliberately left in place: a failed
	// attempt still blocks immediate retries for the rest of the window.
	Complete(ctx context.Context, personID string)

	// Pending returns the number of in-flight attempts.
	Pending() int
}

// InMemoryDebouncer implements Debouncer with a single mutex over the
// pending set and the last-attempt map.
type InMemoryDebouncer struct {
	mu          sync.Mutex
	cooldown    time.Duration
	pending     map[string]struct{}
	lastAttempt map[string]time.Time
}

// NewInMemoryDebouncer creates a debouncer with configuration options.
func NewInMemoryDebouncer(opts ...Option) *InMemoryDebouncer {
	d := &InMemoryDebouncer{
		cooldown:    defaultCooldown,
		pending:     make(map[string]struct{}),
		lastAttempt: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TryBegin reports whether a new attempt may start for personID.
func (d *InMemoryDebouncer) TryBegin(_ context.Context, personID string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, inFlight := d.pending[personID]; inFlight {
		return false
	}
	if last, ok := d.lastAttempt[personID]; ok && now.Sub(last) < d.cooldown {
		return false
	}

	d.pending[personID] = struct{}{}
	d.lastAttempt[personID] = now
	return true
}

// Complete clears the in-flight marker for personID.
func (d *InMemoryDebouncer) Complete(_ context.Context, personID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, personID)
}

// Pending returns the number of in-flight attempts.
func (d *InMemoryDebouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Cooldown returns the configured cooldown window.
func (d *InMemoryDebouncer) Cooldown() time.Duration {
	return d.cooldown
}
