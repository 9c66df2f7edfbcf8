package search

import "errors"

// Sentinel kinds for search errors.
var (
	ErrUnknownStrategy = errors.New("unknown search strategy")

	// ErrPreconditionViolation reports a range query over input that is not
	// sorted by score descending. It signals a wiring bug in the caller, not a
	// runtime condition, and is never recovered from by falling back.
	ErrPreconditionViolation = errors.New("search precondition violated: input not sorted by score descending")
)
