package loadgen

import "errors"

var (
	// ErrInvalidConfig is returned for a run that cannot be generated.
	ErrInvalidConfig = errors.New("loadgen: invalid config")
	// ErrVerification is returned when the final standings disagree with
	// the commands that were submitted.
	ErrVerification = errors.New("loadgen: verification failed")
)
