// Package stats derives live attendance counts from the record set.
package stats

import (
	"github.com/okian/muster/internal/domain/model"
)

// Compute derives session statistics from the current enrollment roster
// and the session's attendance records. It is a pure recomputation: no
// running tallies are kept anywhere, so the result cannot drift from the
// record set regardless of missed update events.
//
// ExpectedCount follows the roster at computation time, not a snapshot
// taken at session open, so mid-session enrollment changes show up on the
// next recomputation. Students with no record are only visible implicitly
// as ExpectedCount - PresentCount.
func Compute(enrolled []string, records []model.AttendanceRecord) model.SessionStats {
	s := model.SessionStats{
		ExpectedCount: len(enrolled),
	}
	for _, r := range records {
		switch r.Status {
		case model.StatusNormal:
			s.NormalCount++
		case model.StatusLate:
			s.LateCount++
		case model.StatusAbsent:
			s.AbsentCount++
		case model.StatusLeave:
			// leave records carry no per-status counter but still
			// count as present below
		}
		if r.Status != model.StatusAbsent {
			s.PresentCount++
		}
	}
	return s
}
