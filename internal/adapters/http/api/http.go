// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	repository "github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	OpenSession(ctx context.Context, req session.OpenRequest) (model.Session, error)
	CloseSession(ctx context.Context, sessionID string) (model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (model.Session, error)
	ActiveSessions(ctx context.Context) ([]model.Session, error)
	SessionStats(ctx context.Context, sessionID string) (model.SessionStats, error)

	// Recording.
	ManualCheckIn(ctx context.Context, studentID, sessionID string) (model.AttendanceRecord, bool, error)
	RecentActivity(ctx context.Context, limit int) []model.AttendanceRecord

	// Rosters.
	SetEnrollment(ctx context.Context, courseID string, studentIDs []string)
	Enrollment(ctx context.Context, courseID string) []string
	LoadRoster(ctx context.Context, people []model.KnownPerson) error
	AddKnownPerson(ctx context.Context, p model.KnownPerson) error
	RemoveKnownPerson(ctx context.Context, personID string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	sessionsHandler   *SessionsHandler
	checkInHandler    *CheckInHandler
	activityHandler   *ActivityHandler
	rosterHandler     *RosterHandler
	enrollmentHandler *EnrollmentHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		sessionsHandler:   NewSessionsHandler(deps),
		checkInHandler:    NewCheckInHandler(deps),
		activityHandler:   NewActivityHandler(deps),
		rosterHandler:     NewRosterHandler(deps),
		enrollmentHandler: NewEnrollmentHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/activity", MetricsMiddleware(s.activityHandler.HandleGetActivity, "activity"))
	mux.HandleFunc("/checkins", MetricsMiddleware(s.checkInHandler.HandlePostCheckIn, "checkins"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleSessions, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSessionByID, "sessions"))
	mux.HandleFunc("/roster", MetricsMiddleware(s.rosterHandler.HandleRoster, "roster"))
	mux.HandleFunc("/roster/", MetricsMiddleware(s.rosterHandler.HandleRosterByID, "roster"))
	mux.HandleFunc("/enrollment/", MetricsMiddleware(s.enrollmentHandler.HandleEnrollment, "enrollment"))
}

// openSessionRequest mirrors the JSON schema for POST /sessions.
type openSessionRequest struct {
	CourseID  string `json:"course_id"`
	Date      string `json:"date"`
	DayOfWeek *int   `json:"day_of_week,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room,omitempty"`
}

// toOpenRequest validates the payload and builds the domain request.
// day_of_week defaults to the date's weekday when omitted.
func (r openSessionRequest) toOpenRequest() (session.OpenRequest, error) {
	if r.CourseID == "" {
		return session.OpenRequest{}, errors.New("missing course_id")
	}
	date, err := time.ParseInLocation("2006-01-02", r.Date, time.Local)
	if err != nil {
		return session.OpenRequest{}, errors.New("invalid date; must be YYYY-MM-DD")
	}
	start, err := model.ParseClockTime(r.StartTime)
	if err != nil {
		return session.OpenRequest{}, errors.New("invalid start_time; must be HH:MM")
	}
	end, err := model.ParseClockTime(r.EndTime)
	if err != nil {
		return session.OpenRequest{}, errors.New("invalid end_time; must be HH:MM")
	}

	day := date.Weekday()
	if r.DayOfWeek != nil {
		day = time.Weekday(*r.DayOfWeek)
	}

	return session.OpenRequest{
		CourseID: r.CourseID,
		Date:     date,
		Slot: model.ScheduleSlot{
			DayOfWeek: day,
			StartTime: start,
			EndTime:   end,
			Room:      r.Room,
		},
		Room: r.Room,
	}, nil
}

type checkInRequest struct {
	StudentID string `json:"student_id"`
	SessionID string `json:"session_id"`
}

type checkInResponse struct {
	Record    model.AttendanceRecord `json:"record"`
	Duplicate bool                   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates domain sentinels to HTTP statuses. Slot and
// lifecycle conflicts are user-correctable, so they map to 409 rather
// than 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidSlot),
		errors.Is(err, roster.ErrDimensionMismatch),
		errors.Is(err, roster.ErrEmptyPersonID):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, roster.ErrPersonNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, session.ErrTooEarly):
		writeError(w, http.StatusConflict, "too_early", err)
	case errors.Is(err, session.ErrExpired):
		writeError(w, http.StatusConflict, "expired", err)
	case errors.Is(err, session.ErrSlotAlreadyActive):
		writeError(w, http.StatusConflict, "slot_already_active", err)
	case errors.Is(err, session.ErrNotActive),
		errors.Is(err, repository.ErrSessionNotActive):
		writeError(w, http.StatusConflict, "session_not_active", err)
	case errors.Is(err, session.ErrSessionActive):
		writeError(w, http.StatusConflict, "session_active", err)
	case errors.Is(err, repository.ErrNotEnrolled):
		writeError(w, http.StatusConflict, "not_enrolled", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
