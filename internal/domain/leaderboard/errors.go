package leaderboard

import (
	"errors"

	"github.com/okian/ladder/internal/domain/search"
)

// Sentinel kinds for leaderboard errors. These allow errors.Is from callers.
var (
	ErrDuplicateName = errors.New("name already on leaderboard")
	ErrNotFound      = errors.New("name not found")
	ErrInvalidRange  = errors.New("invalid score range: low exceeds high")
	ErrInvalidName   = errors.New("name must not be empty")
	ErrNilStrategy   = errors.New("sorter and search strategy are required")

	// ErrPreconditionViolation is returned when a search strategy rejects the
	// ranked order it was handed. It indicates a bug in the collection's sort
	// bookkeeping and should be treated as fatal to the call.
	ErrPreconditionViolation = search.ErrPreconditionViolation
)
