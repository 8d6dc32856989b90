// Package capture runs the per-camera detection loop that turns face
// descriptors into check-in jobs.
package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/muster/internal/domain/liveness"
	"github.com/okian/muster/internal/domain/matcher"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// Default capture configuration constants.
const (
	defaultTickInterval   = 200 * time.Millisecond
	defaultMatchThreshold = 0.45
)

// Detector produces one descriptor per face found in the current frame.
// The embedding model behind it is opaque to this package.
type Detector interface {
	Detect(ctx context.Context) ([]model.Descriptor, error)
}

// Roster supplies the known-face set to match against.
type Roster interface {
	Snapshot(ctx context.Context) []model.KnownPerson
}

// Gate is the single-flight liveness checkpoint.
type Gate interface {
	Offer(ctx context.Context, candidate liveness.Candidate) (bool, error)
}

// Debouncer guards per-person attempt frequency.
type Debouncer interface {
	TryBegin(ctx context.Context, personID string, now time.Time) bool
	Complete(ctx context.Context, personID string)
}

// Sink accepts check-in jobs for asynchronous recording.
type Sink interface {
	Enqueue(ctx context.Context, job model.CheckInJob) bool
}

// Loop polls the detector on a fixed tick and drives each recognized
// face through liveness, debouncing, and the recording queue. Matching
// runs to completion within the tick; liveness and recording are
// asynchronous so a slow check never stalls detection.
type Loop struct {
	detector  Detector
	roster    Roster
	matcher   matcher.Matcher
	gate      Gate
	debouncer Debouncer
	sink      Sink

	tick      time.Duration
	threshold float64
	now       func() time.Time

	wg  sync.WaitGroup
	log logger.Logger
}

// NewLoop creates a capture loop with configuration options.
func NewLoop(d Detector, r Roster, m matcher.Matcher, g Gate, deb Debouncer, s Sink, opts ...Option) *Loop {
	l := &Loop{
		detector:  d,
		roster:    r,
		matcher:   m,
		gate:      g,
		debouncer: deb,
		sink:      s,
		tick:      defaultTickInterval,
		threshold: defaultMatchThreshold,
		now:       time.Now,
		log:       logger.Get().Named("capture"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run polls until ctx is cancelled, then waits for in-flight liveness
// offers to settle.
func (l *Loop) Run(ctx context.Context) {
	l.log.Info(ctx, "capture loop started",
		logger.Duration("tick", l.tick),
		logger.Float64("threshold", l.threshold),
	)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.wg.Wait()
			l.log.Info(ctx, "capture loop stopped")
			return
		case <-ticker.C:
			l.processFrame(ctx)
		}
	}
}

// processFrame matches every face in the current frame and hands
// qualifying candidates to the async check-in path.
func (l *Loop) processFrame(ctx context.Context) {
	descriptors, err := l.detector.Detect(ctx)
	if err != nil {
		l.log.Warn(ctx, "frame detection failed", logger.Error(err))
		return
	}
	metrics.RecordFrameProcessed()
	if len(descriptors) == 0 {
		return
	}

	roster := l.roster.Snapshot(ctx)
	for _, probe := range descriptors {
		metrics.RecordFaceDetected()

		match, ok := l.matcher.Match(ctx, probe, roster)
		if !ok {
			metrics.RecordUnknownFace()
			continue
		}
		metrics.RecordMatchConfidence(match.Confidence)
		if match.Confidence < l.threshold {
			metrics.RecordUnknownFace()
			l.log.Debug(ctx, "match below threshold",
				logger.String("personID", match.PersonID),
				logger.Float64("confidence", match.Confidence),
			)
			continue
		}
		metrics.RecordMatchActionable()

		l.wg.Add(1)
		go func(m model.Match) {
			defer l.wg.Done()
			l.verify(ctx, m)
		}(match)
	}
}

// verify runs the liveness check and, on success, claims the person's
// debounce slot and enqueues the check-in. A full queue releases the
// pending marker but leaves the cooldown stamp in place.
func (l *Loop) verify(ctx context.Context, match model.Match) {
	verified, err := l.gate.Offer(ctx, liveness.Candidate{
		PersonID:   match.PersonID,
		PersonName: match.PersonName,
	})
	if err != nil {
		if !errors.Is(err, liveness.ErrCheckInFlight) {
			l.log.Warn(ctx, "liveness check errored",
				logger.String("personID", match.PersonID),
				logger.Error(err),
			)
		}
		return
	}
	if !verified {
		l.log.Info(ctx, "liveness check failed",
			logger.String("personID", match.PersonID),
		)
		return
	}

	now := l.now()
	if !l.debouncer.TryBegin(ctx, match.PersonID, now) {
		metrics.RecordDebounceSuppressed()
		return
	}

	job := model.CheckInJob{
		PersonID:   match.PersonID,
		PersonName: match.PersonName,
		Confidence: match.Confidence,
		Method:     model.MethodFace,
		DetectedAt: now,
	}
	if !l.sink.Enqueue(ctx, job) {
		l.debouncer.Complete(ctx, match.PersonID)
		l.log.Warn(ctx, "check-in queue full, dropping job",
			logger.String("personID", match.PersonID),
		)
	}
}
