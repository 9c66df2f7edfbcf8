package compare

import "errors"

var (
	// ErrInvalidRange is returned when the configured range is reversed.
	ErrInvalidRange = errors.New("compare: low must not exceed high")
	// ErrRun wraps a failure inside a single sorter/strategy run.
	ErrRun = errors.New("compare: run failed")
)
