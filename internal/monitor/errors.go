package monitor

import "errors"

// Sentinel kinds for monitor errors.
var (
	ErrAlreadyRunning  = errors.New("monitor task already running")
	ErrInvalidInterval = errors.New("monitor interval must be positive")
	ErrNilTask         = errors.New("monitor task is nil")
)
