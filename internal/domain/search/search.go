// Package search provides interchangeable lookup strategies over a
// leaderboard: exact-name lookup and inclusive score-range queries.
package search

import (
	"fmt"
	"strings"

	"github.com/okian/ladder/internal/domain/model"
)

// Source is the read-only view a Strategy resolves names against.
type Source interface {
	// Entities returns the entities in insertion order. Callers must not modify it.
	Entities() []model.Entity
	// Lookup resolves a name through the hash index.
	Lookup(name string) (model.Entity, bool)
}

// Strategy locates entities by name or by score range.
type Strategy interface {
	// FindByName returns the entity whose name matches exactly.
	// Absence is reported through the boolean, never as an error.
	FindByName(src Source, name string) (model.Entity, bool)

	// FindInRange returns a copy of the entities with low <= score <= high,
	// keeping the order of ranked. ranked must be sorted by score descending;
	// a reversed range (low > high) yields no entities.
	FindInRange(ranked []model.Entity, low, high int) ([]model.Entity, error)

	// Name is the display name used in reports.
	Name() string
}

// Registered strategy names.
const (
	NameLinear = "linear"
	NameBinary = "binary"
)

// New returns the strategy registered under name.
func New(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameLinear:
		return Linear{}, nil
	case NameBinary:
		return NewBinary(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Names lists the registered strategy names.
func Names() []string {
	return []string{NameLinear, NameBinary}
}
