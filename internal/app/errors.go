package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrStopped          = errors.New("service stopped")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrDuplicateCommand = errors.New("duplicate command")
	ErrBackpressure     = errors.New("command queue full")
	ErrRateLimited      = errors.New("ingest rate limit exceeded")
)
