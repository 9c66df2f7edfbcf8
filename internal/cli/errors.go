package cli

import "errors"

var (
	// ErrInvalidFormat is returned for an unknown --format value.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrReadCommands is returned when an ingest file cannot be read or parsed.
	ErrReadCommands = errors.New("read commands")
)
