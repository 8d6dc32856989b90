// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Descriptor is a fixed-length face embedding produced by an external
// model. The dimensionality is model-defined; descriptors are validated
// against the configured dimension when a roster is loaded.
type Descriptor []float64

// KnownPerson is one enrolled biometric sample. A person may have several
// samples sharing the same PersonID; the matcher considers all of them.
type KnownPerson struct {
	PersonID   string
	PersonName string
	Descriptor Descriptor
}

// Match is the matcher's best guess for a probe descriptor. The matcher
// never thresholds; Confidence interpretation is up to the caller.
type Match struct {
	PersonID   string  `json:"person_id"`
	PersonName string  `json:"person_name"`
	Confidence float64 `json:"confidence"`
	Distance   float64 `json:"distance"`
}

// SessionStatus enumerates attendance session states.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionClosed    SessionStatus = "closed"
	SessionCancelled SessionStatus = "cancelled"
)

// AttendanceStatus enumerates per-record attendance states.
type AttendanceStatus string

const (
	StatusNormal AttendanceStatus = "normal"
	StatusLate   AttendanceStatus = "late"
	StatusAbsent AttendanceStatus = "absent"
	StatusLeave  AttendanceStatus = "leave"
)

// CheckInMethod enumerates how a record was produced.
type CheckInMethod string

const (
	MethodManual CheckInMethod = "manual"
	MethodFace   CheckInMethod = "face"
)

// ClockTime is a wall-clock time of day without a date, e.g. 09:00.
type ClockTime struct {
	Hour   int
	Minute int
}

// ErrInvalidClockTime reports a malformed HH:MM value.
var ErrInvalidClockTime = errors.New("invalid clock time")

// ParseClockTime parses "HH:MM" into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// String renders the time as zero-padded HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the clock time to the given date, keeping its location.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// MarshalJSON renders the clock time as an HH:MM string.
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON parses an HH:MM string.
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidClockTime, data)
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ScheduleSlot is one recurring entry in a course's weekly schedule.
type ScheduleSlot struct {
	DayOfWeek time.Weekday `json:"day_of_week"`
	StartTime ClockTime    `json:"start_time"`
	EndTime   ClockTime    `json:"end_time"`
	Room      string       `json:"room"`
}

// Valid reports whether the slot has a sane time window.
func (s ScheduleSlot) Valid() bool {
	return s.DayOfWeek >= time.Sunday && s.DayOfWeek <= time.Saturday &&
		s.StartTime.Minutes() < s.EndTime.Minutes()
}

// Session is a single opening of a course's scheduled slot on a date.
type Session struct {
	ID            string        `json:"id"`
	CourseID      string        `json:"course_id"`
	Date          time.Time     `json:"date"`
	DayOfWeek     time.Weekday  `json:"day_of_week"`
	StartTime     ClockTime     `json:"start_time"`
	EndTime       ClockTime     `json:"end_time"`
	Room          string        `json:"room"`
	Status        SessionStatus `json:"status"`
	OpenedAt      time.Time     `json:"opened_at"`
	ClosedAt      time.Time     `json:"closed_at,omitzero"`
	ExpectedCount int           `json:"expected_count"`
}

// AttendanceRecord is one student's check-in for one session. At most one
// record exists per (student, session) pair.
type AttendanceRecord struct {
	ID          string           `json:"id"`
	StudentID   string           `json:"student_id"`
	SessionID   string           `json:"session_id"`
	Status      AttendanceStatus `json:"status"`
	CheckInTime time.Time        `json:"check_in_time"`
	Method      CheckInMethod    `json:"method"`
	Confidence  float64          `json:"confidence,omitempty"`
}

// SessionStats are derived live counts for one session.
type SessionStats struct {
	ExpectedCount int `json:"expected_count"`
	PresentCount  int `json:"present_count"`
	NormalCount   int `json:"normal_count"`
	LateCount     int `json:"late_count"`
	AbsentCount   int `json:"absent_count"`
}

// CheckInJob is a recording attempt flowing from the capture loop to the
// check-in workers.
type CheckInJob struct {
	PersonID   string
	PersonName string
	Confidence float64
	Method     CheckInMethod
	DetectedAt time.Time
}
