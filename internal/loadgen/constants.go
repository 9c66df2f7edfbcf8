package loadgen

import "time"

// Submitter configuration constants.
const (
	submittersPerCPU  = 2
	backpressureDelay = 500 * time.Microsecond
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)
