package session

import "errors"

// Sentinel kinds for lifecycle errors. All of these are user-correctable;
// none should crash a caller.
var (
	ErrSlotAlreadyActive = errors.New("slot already has an active session")
	ErrTooEarly          = errors.New("before scheduled start time")
	ErrExpired           = errors.New("after scheduled end time")
	ErrNotActive         = errors.New("session is not active")
	ErrSessionActive     = errors.New("session is still active")
	ErrInvalidSlot       = errors.New("invalid schedule slot")
)
