// Package repository defines the attendance store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/muster/internal/domain/model"
)

// Store provides read/write access to sessions, enrollments and records.
// Lifecycle transition rules live in the session manager; the store only
// guarantees referential integrity and check-in idempotency.
type Store interface {
	// PutSession inserts a session, minting an id when none is set.
	PutSession(ctx context.Context, s model.Session) (model.Session, error)

	// UpdateSession replaces an existing session by id.
	// Returns ErrSessionNotFound for unknown ids.
	UpdateSession(ctx context.Context, s model.Session) error

	// DeleteSession removes a session and its records.
	DeleteSession(ctx context.Context, id string) error

	// Session returns a session by id.
	Session(ctx context.Context, id string) (model.Session, error)

	// ActiveSessions returns every session with status Active.
	ActiveSessions(ctx context.Context) ([]model.Session, error)

	// SessionsOn returns the course's sessions dated on the given day.
	SessionsOn(ctx context.Context, courseID string, date time.Time) ([]model.Session, error)

	// SubmitCheckIn records a check-in for (studentID, sessionID).
	// It is idempotent per pair: the second submission returns the
	// existing record with created=false and no error. It returns
	// ErrNotEnrolled when the student has no enrollment in the
	// session's course and ErrSessionNotActive when the session cannot
	// accept records.
	SubmitCheckIn(ctx context.Context, studentID, sessionID string, at time.Time, confidence float64, method model.CheckInMethod) (model.AttendanceRecord, bool, error)

	// RecordsBySession returns all records for one session.
	RecordsBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error)

	// SetEnrollment replaces the enrolled student list for a course.
	SetEnrollment(ctx context.Context, courseID string, studentIDs []string)

	// Enrollment returns the current enrolled student list for a course.
	Enrollment(ctx context.Context, courseID string) []string

	// RecentRecords returns up to limit of the newest records,
	// newest first.
	RecentRecords(ctx context.Context, limit int) []model.AttendanceRecord
}
