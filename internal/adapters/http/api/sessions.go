// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/session"
)

// SessionDependencies defines the interface for session lifecycle
// operations.
type SessionDependencies interface {
	OpenSession(ctx context.Context, req session.OpenRequest) (model.Session, error)
	CloseSession(ctx context.Context, sessionID string) (model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (model.Session, error)
	ActiveSessions(ctx context.Context) ([]model.Session, error)
	SessionStats(ctx context.Context, sessionID string) (model.SessionStats, error)
}

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleSessions handles POST /sessions and GET /sessions requests.
func (h *SessionsHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleOpen(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	open, err := req.toOpenRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	sess, err := h.deps.OpenSession(r.Context(), open)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *SessionsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.deps.ActiveSessions(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// HandleSessionByID handles requests under /sessions/{id}:
//
//	GET    /sessions/{id}        session detail
//	DELETE /sessions/{id}        delete a closed session
//	POST   /sessions/{id}/close  close an active session
//	GET    /sessions/{id}/stats  live statistics
func (h *SessionsHandler) HandleSessionByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	id, action, _ := strings.Cut(path, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		sess, err := h.deps.Session(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	case action == "" && r.Method == http.MethodDelete:
		if err := h.deps.DeleteSession(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case action == "close" && r.Method == http.MethodPost:
		sess, err := h.deps.CloseSession(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	case action == "stats" && r.Method == http.MethodGet:
		stats, err := h.deps.SessionStats(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	default:
		http.NotFound(w, r)
	}
}
