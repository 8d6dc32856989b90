package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionNotActive = errors.New("session not active")
	ErrNotEnrolled      = errors.New("student not enrolled")
)
