// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/muster/internal/domain/model"
)

// defaultActivityLimit bounds GET /activity when no limit is given.
const defaultActivityLimit = 20

// ActivityDependencies defines the interface for the recent-activity feed.
type ActivityDependencies interface {
	RecentActivity(ctx context.Context, limit int) []model.AttendanceRecord
}

// ActivityHandler handles recent-activity requests.
type ActivityHandler struct {
	deps ActivityDependencies
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps ActivityDependencies) *ActivityHandler {
	return &ActivityHandler{deps: deps}
}

// HandleGetActivity handles GET /activity?limit=N requests, newest first.
func (h *ActivityHandler) HandleGetActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}

	records := h.deps.RecentActivity(r.Context(), limit)
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
