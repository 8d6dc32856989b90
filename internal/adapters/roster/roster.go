// Package roster keeps the set of known faces the matcher compares
// probe descriptors against.
package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/pkg/metrics"
)

// defaultDescriptorDim matches the embedding size produced by the
// face-recognition model in use.
const defaultDescriptorDim = 128

// Provider exposes the known-face set to the capture pipeline.
type Provider interface {
	// Snapshot returns the current roster. The returned slice is safe to
	// read concurrently with later mutations.
	Snapshot(ctx context.Context) []model.KnownPerson
}

// MemRoster is an in-memory roster keyed by person ID. A person may
// contribute several descriptor samples under the same ID.
type MemRoster struct {
	mu      sync.RWMutex
	entries []model.KnownPerson
	byID    map[string][]int
	dim     int
}

// NewMemRoster creates an empty roster with configuration options.
func NewMemRoster(opts ...Option) *MemRoster {
	r := &MemRoster{
		byID: make(map[string][]int),
		dim:  defaultDescriptorDim,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers one descriptor sample for a person. Descriptors are
// validated against the configured dimension at load time so the
// matcher never sees a ragged roster.
func (r *MemRoster) Add(_ context.Context, p model.KnownPerson) error {
	if p.PersonID == "" {
		return ErrEmptyPersonID
	}
	if len(p.Descriptor) != r.dim {
		return fmt.Errorf("person %s: got %d values, want %d: %w",
			p.PersonID, len(p.Descriptor), r.dim, ErrDimensionMismatch)
	}

	desc := make(model.Descriptor, len(p.Descriptor))
	copy(desc, p.Descriptor)
	p.Descriptor = desc

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[p.PersonID] = append(r.byID[p.PersonID], len(r.entries))
	r.entries = append(r.entries, p)
	metrics.UpdateTrackedStudents(len(r.byID))
	return nil
}

// Load replaces the whole roster. It validates every entry before
// touching the current set, so a bad batch leaves the roster unchanged.
func (r *MemRoster) Load(_ context.Context, people []model.KnownPerson) error {
	entries := make([]model.KnownPerson, 0, len(people))
	byID := make(map[string][]int, len(people))
	for _, p := range people {
		if p.PersonID == "" {
			return ErrEmptyPersonID
		}
		if len(p.Descriptor) != r.dim {
			return fmt.Errorf("person %s: got %d values, want %d: %w",
				p.PersonID, len(p.Descriptor), r.dim, ErrDimensionMismatch)
		}
		desc := make(model.Descriptor, len(p.Descriptor))
		copy(desc, p.Descriptor)
		p.Descriptor = desc

		byID[p.PersonID] = append(byID[p.PersonID], len(entries))
		entries = append(entries, p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = entries
	r.byID = byID
	metrics.UpdateTrackedStudents(len(r.byID))
	return nil
}

// Remove drops every sample registered under a person ID.
func (r *MemRoster) Remove(_ context.Context, personID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[personID]; !ok {
		return fmt.Errorf("%s: %w", personID, ErrPersonNotFound)
	}

	kept := r.entries[:0:0]
	byID := make(map[string][]int, len(r.byID)-1)
	for _, e := range r.entries {
		if e.PersonID == personID {
			continue
		}
		byID[e.PersonID] = append(byID[e.PersonID], len(kept))
		kept = append(kept, e)
	}
	r.entries = kept
	r.byID = byID
	metrics.UpdateTrackedStudents(len(r.byID))
	return nil
}

// Snapshot returns a copy of the roster entries.
func (r *MemRoster) Snapshot(_ context.Context) []model.KnownPerson {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.KnownPerson, len(r.entries))
	copy(out, r.entries)
	return out
}

// People returns the number of distinct person IDs in the roster.
func (r *MemRoster) People(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Dim returns the descriptor dimension this roster enforces.
func (r *MemRoster) Dim() int {
	return r.dim
}

var _ Provider = (*MemRoster)(nil)
