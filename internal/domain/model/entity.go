// Package model contains domain models passed between layers.
package model

import (
	"cmp"
	"strconv"
	"strings"
)

// Entity is a named, scored leaderboard row. It is replaced, never mutated,
// when its score changes.
type Entity struct {
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
}

// String renders the entity as Name(Score).
func (e Entity) String() string {
	var b strings.Builder
	b.Grow(len(e.Name) + 8)
	b.WriteString(e.Name)
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(e.Score))
	b.WriteByte(')')
	return b.String()
}

// Compare orders a before b when a ranks earlier on the leaderboard.
//
// Ordering: score DESC, then name ASC (byte-wise). Names are unique within a
// collection, so this is a total order over its entities.
func Compare(a, b Entity) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// Less reports whether a ranks strictly ahead of b.
func Less(a, b Entity) bool {
	if a.Score != b.Score {
		return a.Score > b.Score // higher score ranks earlier
	}
	return a.Name < b.Name // tie-breaker by name asc
}
