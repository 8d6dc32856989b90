// Package liveness gates high-confidence matches behind an external
// anti-spoofing check.
package liveness

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/okian/muster/pkg/metrics"
)

// Candidate identifies the person a liveness check is run for.
type Candidate struct {
	PersonID   string
	PersonName string
}

// Checker is the external liveness verification, treated as opaque.
type Checker interface {
	// Check returns true when the subject passed verification.
	Check(ctx context.Context, candidate Candidate) (bool, error)
}

// Gate enforces a single in-flight liveness check system-wide. The check
// occupies the one on-screen verification surface, so while one is running
// newly detected candidates are dropped, not queued.
type Gate struct {
	checker Checker
	busy    atomic.Bool
}

// NewGate creates a gate over the given checker.
func NewGate(checker Checker) *Gate {
	return &Gate{checker: checker}
}

// Offer runs a liveness check for the candidate unless one is already in
// flight. It returns ErrCheckInFlight without invoking the checker when
// the gate is occupied. A failed check is terminal for this detection;
// the gate frees up so the person can be re-offered on a later frame.
func (g *Gate) Offer(ctx context.Context, candidate Candidate) (bool, error) {
	if !g.busy.CompareAndSwap(false, true) {
		metrics.RecordLivenessGateBusy()
		return false, ErrCheckInFlight
	}
	defer g.busy.Store(false)

	verified, err := g.checker.Check(ctx, candidate)
	if err != nil {
		metrics.RecordLivenessCheck("failed")
		return false, fmt.Errorf("liveness check for %s: %w", candidate.PersonID, err)
	}
	if verified {
		metrics.RecordLivenessCheck("verified")
	} else {
		metrics.RecordLivenessCheck("failed")
	}
	return verified, nil
}

// Busy reports whether a check is currently in flight.
func (g *Gate) Busy() bool {
	return g.busy.Load()
}
