// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/muster/internal/domain/model"
)

// CheckInDependencies defines the interface for manual check-ins.
type CheckInDependencies interface {
	ManualCheckIn(ctx context.Context, studentID, sessionID string) (model.AttendanceRecord, bool, error)
}

// CheckInHandler handles operator-entered check-ins.
type CheckInHandler struct {
	deps CheckInDependencies
}

// NewCheckInHandler creates a new check-in handler.
func NewCheckInHandler(deps CheckInDependencies) *CheckInHandler {
	return &CheckInHandler{deps: deps}
}

// HandlePostCheckIn handles POST /checkins requests. Submissions are
// idempotent per (student, session); a repeat returns the existing
// record flagged as a duplicate.
func (h *CheckInHandler) HandlePostCheckIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if req.StudentID == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingField)
		return
	}

	rec, created, err := h.deps.ManualCheckIn(r.Context(), req.StudentID, req.SessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	writeJSON(w, status, checkInResponse{Record: rec, Duplicate: !created})
}
