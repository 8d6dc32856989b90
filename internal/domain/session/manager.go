// Package session governs the lifecycle of attendance sessions against a
// course's weekly schedule.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// Repo is the slice of the store the manager needs.
type Repo interface {
	PutSession(ctx context.Context, s model.Session) (model.Session, error)
	UpdateSession(ctx context.Context, s model.Session) error
	DeleteSession(ctx context.Context, id string) error
	Session(ctx context.Context, id string) (model.Session, error)
	SessionsOn(ctx context.Context, courseID string, date time.Time) ([]model.Session, error)
	Enrollment(ctx context.Context, courseID string) []string
}

// OpenRequest asks for a new session occupying a schedule slot on a date.
type OpenRequest struct {
	CourseID string
	Date     time.Time
	Slot     model.ScheduleSlot
	// Room optionally overrides the slot's room for this session only.
	// Scheduling validation is unaffected.
	Room string
}

// Manager opens, closes and deletes sessions. One session at most may be
// Active per (course, slot, date); a Closed slot may be reopened, which
// creates a fresh session rather than resurrecting the closed one.
type Manager struct {
	mu   sync.Mutex
	repo Repo
	now  func() time.Time
	log  logger.Logger
}

// NewManager creates a lifecycle manager over the given repository.
func NewManager(repo Repo, opts ...Option) *Manager {
	m := &Manager{
		repo: repo,
		now:  time.Now,
		log:  logger.Get().Named("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CanOpen validates an open attempt against the slot's time window and the
// sessions already existing on that date. The checks run in a fixed order:
// slot sanity, slot exclusivity, then the time window.
func (m *Manager) CanOpen(slot model.ScheduleSlot, date, now time.Time, existing []model.Session) error {
	if !slot.Valid() || date.Weekday() != slot.DayOfWeek {
		return fmt.Errorf("slot %s %s-%s on %s: %w",
			slot.DayOfWeek, slot.StartTime, slot.EndTime, date.Format("2006-01-02"), ErrInvalidSlot)
	}

	for _, sess := range existing {
		if sess.Status != model.SessionActive {
			// closed sessions never block reopening
			continue
		}
		if sess.DayOfWeek == slot.DayOfWeek && sess.StartTime == slot.StartTime {
			return fmt.Errorf("session %s occupies the slot: %w", sess.ID, ErrSlotAlreadyActive)
		}
	}

	start := slot.StartTime.On(date)
	end := slot.EndTime.On(date)
	if now.Before(start) {
		return fmt.Errorf("slot opens at %s: %w", start.Format(time.RFC3339), ErrTooEarly)
	}
	if now.After(end) {
		return fmt.Errorf("slot ended at %s: %w", end.Format(time.RFC3339), ErrExpired)
	}
	return nil
}

// Open validates and creates a new Active session. The validate-then-create
// sequence runs under the manager mutex so two concurrent opens of the same
// slot cannot both succeed; the loser observes ErrSlotAlreadyActive.
func (m *Manager) Open(ctx context.Context, req OpenRequest) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	existing, err := m.repo.SessionsOn(ctx, req.CourseID, req.Date)
	if err != nil {
		return model.Session{}, fmt.Errorf("open session: %w", err)
	}
	if err := m.CanOpen(req.Slot, req.Date, now, existing); err != nil {
		metrics.RecordOpenRejected(rejectionReason(err))
		m.log.Warn(ctx, "session open rejected",
			logger.String("courseID", req.CourseID),
			logger.Error(err),
		)
		return model.Session{}, err
	}

	room := req.Room
	if room == "" {
		room = req.Slot.Room
	}
	sess := model.Session{
		CourseID:      req.CourseID,
		Date:          req.Date,
		DayOfWeek:     req.Slot.DayOfWeek,
		StartTime:     req.Slot.StartTime,
		EndTime:       req.Slot.EndTime,
		Room:          room,
		Status:        model.SessionActive,
		OpenedAt:      now,
		ExpectedCount: len(m.repo.Enrollment(ctx, req.CourseID)),
	}
	created, err := m.repo.PutSession(ctx, sess)
	if err != nil {
		return model.Session{}, fmt.Errorf("open session: %w", err)
	}

	metrics.RecordSessionOpened()
	m.log.Info(ctx, "session opened",
		logger.String("sessionID", created.ID),
		logger.String("courseID", created.CourseID),
		logger.String("room", created.Room),
		logger.Int("expected", created.ExpectedCount),
	)
	return created, nil
}

// Close transitions an Active session to Closed. Stats are frozen at their
// last computed value; nothing is recomputed retroactively.
func (m *Manager) Close(ctx context.Context, sessionID string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.repo.Session(ctx, sessionID)
	if err != nil {
		return model.Session{}, fmt.Errorf("close %s: %w", sessionID, ErrNotActive)
	}
	if sess.Status != model.SessionActive {
		return model.Session{}, fmt.Errorf("close %s (status %s): %w", sessionID, sess.Status, ErrNotActive)
	}

	sess.Status = model.SessionClosed
	sess.ClosedAt = m.now()
	if err := m.repo.UpdateSession(ctx, sess); err != nil {
		return model.Session{}, fmt.Errorf("close %s: %w", sessionID, err)
	}

	metrics.RecordSessionClosed()
	m.log.Info(ctx, "session closed", logger.String("sessionID", sessionID))
	return sess, nil
}

// Delete removes a Closed session. Deleting the history of a still-open
// session is rejected.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.repo.Session(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if sess.Status != model.SessionClosed {
		return fmt.Errorf("delete %s (status %s): %w", sessionID, sess.Status, ErrSessionActive)
	}
	if err := m.repo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	metrics.RecordSessionDeleted()
	m.log.Info(ctx, "session deleted", logger.String("sessionID", sessionID))
	return nil
}

// rejectionReason maps a CanOpen error to a metrics label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrSlotAlreadyActive):
		return "slot_active"
	case errors.Is(err, ErrTooEarly):
		return "too_early"
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "invalid"
	}
}
