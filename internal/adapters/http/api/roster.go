// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/muster/internal/domain/model"
)

// RosterDependencies defines the interface for known-face management.
type RosterDependencies interface {
	LoadRoster(ctx context.Context, people []model.KnownPerson) error
	AddKnownPerson(ctx context.Context, p model.KnownPerson) error
	RemoveKnownPerson(ctx context.Context, personID string) error
}

// RosterHandler handles known-face roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleRoster handles PUT /roster (replace the whole set) and
// POST /roster (add one descriptor sample).
func (h *RosterHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		var people []model.KnownPerson
		if err := json.NewDecoder(r.Body).Decode(&people); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.LoadRoster(r.Context(), people); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"loaded": len(people)})
	case http.MethodPost:
		var person model.KnownPerson
		if err := json.NewDecoder(r.Body).Decode(&person); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.AddKnownPerson(r.Context(), person); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	default:
		http.NotFound(w, r)
	}
}

// HandleRosterByID handles DELETE /roster/{person_id} requests.
func (h *RosterHandler) HandleRosterByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	personID := strings.TrimPrefix(r.URL.Path, "/roster/")
	if personID == "" || strings.Contains(personID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.RemoveKnownPerson(r.Context(), personID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
