package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/muster/internal/domain/model"
)

// Default store configuration constants.
const (
	defaultLateAfter   = 15 * time.Minute
	defaultRecentLimit = 100
)

// MemStore implements Store with in-process maps guarded by one RWMutex.
type MemStore struct {
	mu sync.RWMutex

	sessions    map[string]model.Session
	records     map[string]map[string]model.AttendanceRecord // sessionID -> studentID -> record
	enrollments map[string][]string                          // courseID -> studentIDs
	recent      []model.AttendanceRecord                     // newest last, bounded

	lateAfter   time.Duration
	recentLimit int
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		sessions:    make(map[string]model.Session),
		records:     make(map[string]map[string]model.AttendanceRecord),
		enrollments: make(map[string][]string),
		lateAfter:   defaultLateAfter,
		recentLimit: defaultRecentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutSession inserts a session, minting an id when none is set.
func (s *MemStore) PutSession(_ context.Context, sess model.Session) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if _, exists := s.sessions[sess.ID]; exists {
		return model.Session{}, fmt.Errorf("put session %s: id already exists", sess.ID)
	}
	s.sessions[sess.ID] = sess
	s.records[sess.ID] = make(map[string]model.AttendanceRecord)
	return sess, nil
}

// UpdateSession replaces an existing session by id.
func (s *MemStore) UpdateSession(_ context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; !exists {
		return fmt.Errorf("update session %s: %w", sess.ID, ErrSessionNotFound)
	}
	s.sessions[sess.ID] = sess
	return nil
}

// DeleteSession removes a session and its records.
func (s *MemStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return fmt.Errorf("delete session %s: %w", id, ErrSessionNotFound)
	}
	delete(s.sessions, id)
	delete(s.records, id)
	return nil
}

// Session returns a session by id.
func (s *MemStore) Session(_ context.Context, id string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	if !exists {
		return model.Session{}, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// ActiveSessions returns every session with status Active, oldest first.
func (s *MemStore) ActiveSessions(_ context.Context) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []model.Session
	for _, sess := range s.sessions {
		if sess.Status == model.SessionActive {
			active = append(active, sess)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].OpenedAt.Before(active[j].OpenedAt)
	})
	return active, nil
}

// SessionsOn returns the course's sessions dated on the given day.
func (s *MemStore) SessionsOn(_ context.Context, courseID string, date time.Time) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	y, m, d := date.Date()
	var out []model.Session
	for _, sess := range s.sessions {
		if sess.CourseID != courseID {
			continue
		}
		sy, sm, sd := sess.Date.Date()
		if sy == y && sm == m && sd == d {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out, nil
}

// SubmitCheckIn records a check-in for (studentID, sessionID) exactly once.
func (s *MemStore) SubmitCheckIn(_ context.Context, studentID, sessionID string, at time.Time, confidence float64, method model.CheckInMethod) (model.AttendanceRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists || sess.Status != model.SessionActive {
		return model.AttendanceRecord{}, false, fmt.Errorf("check-in to session %s: %w", sessionID, ErrSessionNotActive)
	}
	if !s.enrolled(sess.CourseID, studentID) {
		return model.AttendanceRecord{}, false, fmt.Errorf("check-in of %s to course %s: %w", studentID, sess.CourseID, ErrNotEnrolled)
	}

	if existing, dup := s.records[sessionID][studentID]; dup {
		return existing, false, nil
	}

	status := model.StatusNormal
	if at.After(sess.StartTime.On(sess.Date).Add(s.lateAfter)) {
		status = model.StatusLate
	}
	rec := model.AttendanceRecord{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		SessionID:   sessionID,
		Status:      status,
		CheckInTime: at,
		Method:      method,
		Confidence:  confidence,
	}
	s.records[sessionID][studentID] = rec

	s.recent = append(s.recent, rec)
	if len(s.recent) > s.recentLimit {
		s.recent = s.recent[len(s.recent)-s.recentLimit:]
	}
	return rec, true, nil
}

// RecordsBySession returns all records for one session, oldest first.
func (s *MemStore) RecordsBySession(_ context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStudent, exists := s.records[sessionID]
	if !exists {
		if _, ok := s.sessions[sessionID]; !ok {
			return nil, fmt.Errorf("records of session %s: %w", sessionID, ErrSessionNotFound)
		}
		return nil, nil
	}
	out := make([]model.AttendanceRecord, 0, len(byStudent))
	for _, rec := range byStudent {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckInTime.Before(out[j].CheckInTime)
	})
	return out, nil
}

// SetEnrollment replaces the enrolled student list for a course.
func (s *MemStore) SetEnrollment(_ context.Context, courseID string, studentIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[courseID] = append([]string(nil), studentIDs...)
}

// Enrollment returns a copy of the enrolled student list for a course.
func (s *MemStore) Enrollment(_ context.Context, courseID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.enrollments[courseID]...)
}

// RecentRecords returns up to limit of the newest records, newest first.
func (s *MemStore) RecentRecords(_ context.Context, limit int) []model.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	out := make([]model.AttendanceRecord, 0, limit)
	for i := len(s.recent) - 1; i >= len(s.recent)-limit; i-- {
		out = append(out, s.recent[i])
	}
	return out
}

// enrolled must be called with at least a read lock held.
func (s *MemStore) enrolled(courseID, studentID string) bool {
	for _, id := range s.enrollments[courseID] {
		if id == studentID {
			return true
		}
	}
	return false
}
