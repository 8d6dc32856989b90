package simulator

import "time"

// Config holds configuration for a simulated classroom run.
type Config struct {
	BaseURL       string        // Base URL of the service
	CourseID      string        // Course to enroll and open a session for
	Students      int           // Number of synthetic students to generate
	DescriptorDim int           // Descriptor length; must match the server's descriptor_dim
	CheckInRatio  float64       // Fraction of students that check in
	Workers       int           // Number of concurrent submitters
	Timeout       time.Duration // HTTP request timeout
	LogFile       string        // Log file for run output
	Verbose       bool          // Enable verbose logging
}

// Student is a synthetic roster entry.
type Student struct {
	PersonID   string    `json:"person_id"`
	PersonName string    `json:"person_name"`
	Descriptor []float64 `json:"descriptor"`
}

// Session mirrors the session shape returned by the API.
type Session struct {
	ID            string `json:"id"`
	CourseID      string `json:"course_id"`
	Status        string `json:"status"`
	ExpectedCount int    `json:"expected_count"`
}

// SessionStats mirrors the per-session statistics payload.
type SessionStats struct {
	ExpectedCount int `json:"expected_count"`
	PresentCount  int `json:"present_count"`
	NormalCount   int `json:"normal_count"`
	LateCount     int `json:"late_count"`
	AbsentCount   int `json:"absent_count"`
}

// checkInResponse mirrors the response from POST /checkins.
type checkInResponse struct {
	Duplicate bool `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	StudentsGenerated  int
	CheckInsSubmitted  int
	CheckInsSuccessful int
	CheckInsDuplicate  int
	CheckInsFailed     int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
