// Package matcher computes the closest roster identity for a probe descriptor.
package matcher

import (
	"context"
	"math"

	"github.com/okian/muster/internal/domain/model"
)

// Default matcher configuration constants.
const (
	// defaultDistanceCap is the Euclidean distance at and beyond which
	// confidence bottoms out at zero.
	defaultDistanceCap = 1.0
)

// Matcher finds the best roster match for a probe descriptor.
type Matcher interface {
	// Match returns the arg-min roster entry and its confidence, or
	// false when the roster holds no comparable entry. Match never
	// thresholds; even a low-confidence best guess is returned and the
	// caller decides whether to act on it.
	Match(ctx context.Context, probe model.Descriptor, roster []model.KnownPerson) (model.Match, bool)
}

// EuclideanMatcher implements Matcher using Euclidean distance over the
// embedding space. Confidence is 1 - min(distance, cap)/cap, which is
// monotonically decreasing in distance and clamped to [0, 1].
type EuclideanMatcher struct {
	distanceCap float64
}

// New creates a matcher with configuration options.
func New(opts ...Option) *EuclideanMatcher {
	m := &EuclideanMatcher{
		distanceCap: defaultDistanceCap,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match runs once per detected face per processed frame. Roster entries
// whose descriptor length differs from the probe cannot be compared and
// are skipped.
func (m *EuclideanMatcher) Match(_ context.Context, probe model.Descriptor, roster []model.KnownPerson) (model.Match, bool) {
	if len(probe) == 0 || len(roster) == 0 {
		return model.Match{}, false
	}

	best := model.Match{Distance: math.Inf(1)}
	found := false
	for _, person := range roster {
		if len(person.Descriptor) != len(probe) {
			continue
		}
		d := distance(probe, person.Descriptor)
		if d < best.Distance {
			best = model.Match{
				PersonID:   person.PersonID,
				PersonName: person.PersonName,
				Distance:   d,
			}
			found = true
		}
	}
	if !found {
		return model.Match{}, false
	}

	best.Confidence = m.confidence(best.Distance)
	return best, true
}

// confidence maps a distance to [0, 1], higher for closer probes.
func (m *EuclideanMatcher) confidence(dist float64) float64 {
	if dist >= m.distanceCap {
		return 0
	}
	if dist < 0 {
		return 1
	}
	return 1 - dist/m.distanceCap
}

// distance computes the Euclidean distance between two equal-length vectors.
func distance(a, b model.Descriptor) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
