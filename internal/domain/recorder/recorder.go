// Package recorder turns an identified person into durable attendance
// records across every open session.
package recorder

import (
	"context"
	"errors"
	"time"

	repository "github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// Outcome summarizes a recording attempt across all open sessions.
// Values are ordered by how informative they are to the operator; the
// overall outcome of an attempt is the maximum per-session outcome, so a
// transient failure is surfaced over a silent not-enrolled skip.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeNotEnrolled
	OutcomeAlreadyRecorded
	OutcomeTransientFailure
	OutcomeRecorded
)

// String renders the outcome for logs and API payloads.
func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeTransientFailure:
		return "failed"
	case OutcomeAlreadyRecorded:
		return "already_recorded"
	case OutcomeNotEnrolled:
		return "not_enrolled"
	default:
		return "none"
	}
}

// Submitter submits one check-in, idempotent per (student, session).
type Submitter interface {
	SubmitCheckIn(ctx context.Context, studentID, sessionID string, at time.Time, confidence float64, method model.CheckInMethod) (model.AttendanceRecord, bool, error)
}

// SessionSource lists the sessions currently accepting records.
type SessionSource interface {
	ActiveSessions(ctx context.Context) ([]model.Session, error)
}

// Recorder submits check-ins for a matched person against every open
// session. Per-person exclusivity is the debouncer's job; the recorder is
// safe for overlapping calls on different people.
type Recorder struct {
	sessions  SessionSource
	submitter Submitter
	notify    func()
	log       logger.Logger
}

// New creates a recorder with configuration options.
func New(sessions SessionSource, submitter Submitter, opts ...Option) *Recorder {
	r := &Recorder{
		sessions:  sessions,
		submitter: submitter,
		notify:    func() {},
		log:       logger.Get().Named("recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record submits the job to every open session independently, without
// short-circuiting on per-session failures, and reports the most
// informative overall outcome. Transient failures are logged and left for
// the next natural recognition event; there is no retry loop here.
func (r *Recorder) Record(ctx context.Context, job model.CheckInJob) Outcome {
	active, err := r.sessions.ActiveSessions(ctx)
	if err != nil {
		metrics.RecordCheckInFailed()
		r.log.Error(ctx, "listing open sessions failed", logger.Error(err))
		return OutcomeTransientFailure
	}

	overall := OutcomeNone
	for _, sess := range active {
		outcome := r.submitOne(ctx, job, sess)
		if outcome > overall {
			overall = outcome
		}
	}

	if overall == OutcomeRecorded {
		r.notify()
	}
	return overall
}

func (r *Recorder) submitOne(ctx context.Context, job model.CheckInJob, sess model.Session) Outcome {
	rec, created, err := r.submitter.SubmitCheckIn(ctx, job.PersonID, sess.ID, job.DetectedAt, job.Confidence, job.Method)
	switch {
	case err == nil && created:
		metrics.RecordCheckInRecorded()
		r.log.Info(ctx, "attendance recorded",
			logger.String("studentID", job.PersonID),
			logger.String("sessionID", sess.ID),
			logger.String("status", string(rec.Status)),
			logger.String("method", string(job.Method)),
			logger.Float64("confidence", job.Confidence),
		)
		return OutcomeRecorded
	case err == nil:
		metrics.RecordCheckInDuplicate()
		return OutcomeAlreadyRecorded
	case errors.Is(err, repository.ErrNotEnrolled):
		// expected whenever unrelated sessions are open at once
		metrics.RecordCheckInSkipped()
		return OutcomeNotEnrolled
	case errors.Is(err, repository.ErrSessionNotActive):
		// the session closed between listing and submission; the next
		// sighting will see the fresh session list
		metrics.RecordCheckInSkipped()
		return OutcomeNotEnrolled
	default:
		metrics.RecordCheckInFailed()
		r.log.Warn(ctx, "check-in submission failed",
			logger.String("studentID", job.PersonID),
			logger.String("sessionID", sess.ID),
			logger.Error(err),
		)
		return OutcomeTransientFailure
	}
}
