package liveness

import "errors"

// Sentinel kinds for liveness errors.
var (
	ErrCheckInFlight = errors.New("liveness check already in flight")
)
