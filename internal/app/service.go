// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	checkinqueue "github.com/okian/muster/internal/adapters/mq/queue"
	workerpool "github.com/okian/muster/internal/adapters/mq/worker"
	repository "github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/capture"
	"github.com/okian/muster/internal/domain/debounce"
	"github.com/okian/muster/internal/domain/liveness"
	"github.com/okian/muster/internal/domain/matcher"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/recorder"
	"github.com/okian/muster/internal/domain/session"
	"github.com/okian/muster/internal/domain/stats"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// passChecker stands in when no external liveness checker is wired. It
// verifies everyone, which matches deployments without an anti-spoofing
// surface.
type passChecker struct{}

func (passChecker) Check(_ context.Context, _ liveness.Candidate) (bool, error) {
	return true, nil
}

// Service implements the API dependencies for the attendance system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	roster    *roster.MemRoster
	matcher   matcher.Matcher
	gate      *liveness.Gate
	debouncer debounce.Debouncer
	recorder  *recorder.Recorder
	sessions  *session.Manager
	queue     checkinqueue.Queue
	pool      *workerpool.Pool
	loop      *capture.Loop

	// External collaborators
	detector capture.Detector
	checker  liveness.Checker

	// Configuration
	workerCount    int
	queueSize      int
	cooldown       time.Duration
	tickInterval   time.Duration
	matchThreshold float64
	distanceCap    float64
	descriptorDim  int
	lateAfter      time.Duration
	recentLimit    int

	// State
	started       bool
	captureCancel context.CancelFunc
	refreshes     atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      1024,
		cooldown:       30 * time.Second,
		tickInterval:   200 * time.Millisecond,
		matchThreshold: 0.45,
		distanceCap:    1.0,
		descriptorDim:  128,
		lateAfter:      15 * time.Minute,
		recentLimit:    100,
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting attendance service...")

	s.store = repository.NewMemStore(
		repository.WithLateAfter(s.lateAfter),
		repository.WithRecentLimit(s.recentLimit),
	)
	s.roster = roster.NewMemRoster(
		roster.WithDescriptorDim(s.descriptorDim),
	)
	s.matcher = matcher.New(
		matcher.WithDistanceCap(s.distanceCap),
	)
	s.debouncer = debounce.NewInMemoryDebouncer(
		debounce.WithCooldown(s.cooldown),
	)
	s.queue = checkinqueue.NewInMemoryQueue(
		checkinqueue.WithCapacity(s.queueSize),
	)
	s.sessions = session.NewManager(s.store)
	s.recorder = recorder.New(s.store, s.store,
		recorder.WithNotify(func() { s.refreshes.Add(1) }),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.recorder, s.debouncer)
	s.pool.Start(ctx)

	if s.detector != nil {
		checker := s.checker
		if checker == nil {
			s.logger.Warn(ctx, "no liveness checker wired, verifying all candidates")
			checker = passChecker{}
		}
		s.gate = liveness.NewGate(checker)
		s.loop = capture.NewLoop(s.detector, s.roster, s.matcher, s.gate, s.debouncer, s.queue,
			capture.WithTickInterval(s.tickInterval),
			capture.WithMatchThreshold(s.matchThreshold),
		)

		captureCtx, cancel := context.WithCancel(ctx)
		s.captureCancel = cancel
		go s.loop.Run(captureCtx)
	}

	s.started = true
	s.logger.Info(ctx, "attendance service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("cooldown", s.cooldown),
		logger.Bool("capture", s.detector != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping attendance service...")

	if s.captureCancel != nil {
		s.captureCancel()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if q, ok := s.queue.(*checkinqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "attendance service stopped")
}

// OpenSession opens a session for a schedule slot, validating the time
// window and slot exclusivity.
func (s *Service) OpenSession(ctx context.Context, req session.OpenRequest) (model.Session, error) {
	return s.sessions.Open(ctx, req)
}

// CloseSession transitions an active session to closed.
func (s *Service) CloseSession(ctx context.Context, sessionID string) (model.Session, error) {
	return s.sessions.Close(ctx, sessionID)
}

// DeleteSession removes a closed session and its records.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Session returns one session by id.
func (s *Service) Session(ctx context.Context, sessionID string) (model.Session, error) {
	return s.store.Session(ctx, sessionID)
}

// ActiveSessions lists the sessions currently accepting records.
func (s *Service) ActiveSessions(ctx context.Context) ([]model.Session, error) {
	return s.store.ActiveSessions(ctx)
}

// SessionStats computes live statistics for one session from its
// records and the course's current enrollment.
func (s *Service) SessionStats(ctx context.Context, sessionID string) (model.SessionStats, error) {
	sess, err := s.store.Session(ctx, sessionID)
	if err != nil {
		return model.SessionStats{}, err
	}
	records, err := s.store.RecordsBySession(ctx, sessionID)
	if err != nil {
		return model.SessionStats{}, err
	}
	enrolled := s.store.Enrollment(ctx, sess.CourseID)
	return stats.Compute(enrolled, records), nil
}

// ManualCheckIn records an operator-entered check-in for one student in
// one session, bypassing matching and liveness.
func (s *Service) ManualCheckIn(ctx context.Context, studentID, sessionID string) (model.AttendanceRecord, bool, error) {
	rec, created, err := s.store.SubmitCheckIn(ctx, studentID, sessionID, time.Now(), 1.0, model.MethodManual)
	if err == nil && created {
		s.refreshes.Add(1)
	}
	return rec, created, err
}

// RecentActivity returns the newest attendance records, newest first.
func (s *Service) RecentActivity(ctx context.Context, limit int) []model.AttendanceRecord {
	return s.store.RecentRecords(ctx, limit)
}

// SetEnrollment replaces a course's enrolled student list.
func (s *Service) SetEnrollment(ctx context.Context, courseID string, studentIDs []string) {
	s.store.SetEnrollment(ctx, courseID, studentIDs)
}

// Enrollment returns a course's enrolled student list.
func (s *Service) Enrollment(ctx context.Context, courseID string) []string {
	return s.store.Enrollment(ctx, courseID)
}

// LoadRoster replaces the known-face set.
func (s *Service) LoadRoster(ctx context.Context, people []model.KnownPerson) error {
	return s.roster.Load(ctx, people)
}

// AddKnownPerson registers one descriptor sample.
func (s *Service) AddKnownPerson(ctx context.Context, p model.KnownPerson) error {
	return s.roster.Add(ctx, p)
}

// RemoveKnownPerson drops every sample for a person.
func (s *Service) RemoveKnownPerson(ctx context.Context, personID string) error {
	return s.roster.Remove(ctx, personID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		out["queueLength"] = queueLen
		out["trackedPeople"] = s.roster.People(ctx)
		out["pendingAttempts"] = s.debouncer.Pending()
		out["refreshSignals"] = s.refreshes.Load()
		if active, err := s.store.ActiveSessions(ctx); err == nil {
			out["activeSessions"] = len(active)
			metrics.UpdateActiveSessions(len(active))
		}

		metrics.UpdateQueueSize(queueLen)
	}

	return out
}
