// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// EnrollmentDependencies defines the interface for course enrollment.
type EnrollmentDependencies interface {
	SetEnrollment(ctx context.Context, courseID string, studentIDs []string)
	Enrollment(ctx context.Context, courseID string) []string
}

// EnrollmentHandler handles course enrollment requests.
type EnrollmentHandler struct {
	deps EnrollmentDependencies
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(deps EnrollmentDependencies) *EnrollmentHandler {
	return &EnrollmentHandler{deps: deps}
}

// HandleEnrollment handles PUT and GET /enrollment/{course_id} requests.
func (h *EnrollmentHandler) HandleEnrollment(w http.ResponseWriter, r *http.Request) {
	courseID := strings.TrimPrefix(r.URL.Path, "/enrollment/")
	if courseID == "" || strings.Contains(courseID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var studentIDs []string
		if err := json.NewDecoder(r.Body).Decode(&studentIDs); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		h.deps.SetEnrollment(r.Context(), courseID, studentIDs)
		writeJSON(w, http.StatusOK, map[string]int{"enrolled": len(studentIDs)})
	case http.MethodGet:
		studentIDs := h.deps.Enrollment(r.Context(), courseID)
		if studentIDs == nil {
			studentIDs = []string{}
		}
		writeJSON(w, http.StatusOK, studentIDs)
	default:
		http.NotFound(w, r)
	}
}
