// Package sorting provides interchangeable strategies that order entities by
// the leaderboard total order (score DESC, name ASC).
//
// Every Sorter returns a new slice and leaves its input untouched. Because the
// comparator is a total order, all strategies produce identical output for
// identical input; they only differ in cost and stability.
package sorting

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/ladder/internal/domain/model"
)

// Sorter orders a sequence of entities.
type Sorter interface {
	// Sort returns a new slice holding entities in ranked order.
	Sort(entities []model.Entity) []model.Entity
	// Name is the display name used in reports.
	Name() string
}

// Registered sorter names.
const (
	NameMerge   = "merge"
	NameQuick   = "quick"
	NameBuiltin = "builtin"
)

// New returns the sorter registered under name.
func New(name string) (Sorter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameMerge:
		return MergeSort{}, nil
	case NameQuick:
		return QuickSort{}, nil
	case NameBuiltin:
		return Builtin{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSorter, name)
	}
}

// Names lists the registered sorter names.
func Names() []string {
	return []string{NameMerge, NameQuick, NameBuiltin}
}

// Builtin delegates to the standard library's stable sort. It is the baseline
// the hand-written strategies are compared against.
type Builtin struct{}

// Name implements Sorter.
func (Builtin) Name() string { return "Builtin Stable Sort" }

// Sort implements Sorter.
func (Builtin) Sort(entities []model.Entity) []model.Entity {
	out := slices.Clone(entities)
	slices.SortStableFunc(out, model.Compare)
	return out
}
