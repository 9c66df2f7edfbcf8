package sorting

import "errors"

// Sentinel kinds for sorting errors.
var (
	ErrUnknownSorter = errors.New("unknown sorter")
)
