package repository

import (
	"context"
	"errors"

	"github.com/okian/ladder/internal/domain/leaderboard"
)

// Errors surfaced by the store. They are the engine's sentinels so callers
// can match with errors.Is without importing the domain package.
var (
	ErrNotFound              = leaderboard.ErrNotFound
	ErrDuplicateName         = leaderboard.ErrDuplicateName
	ErrInvalidRange          = leaderboard.ErrInvalidRange
	ErrInvalidName           = leaderboard.ErrInvalidName
	ErrPreconditionViolation = leaderboard.ErrPreconditionViolation
)

// ErrorKind maps an error to a short metrics label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrPreconditionViolation):
		return "precondition_violation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
