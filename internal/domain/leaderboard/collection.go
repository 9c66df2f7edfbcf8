// Package leaderboard implements the ranked collection: a mutable set of
// uniquely named, scored entities that is always queryable in rank order.
//
// Ranking: score DESC, then name ASC. Ranks are 1-based and unique; two
// entities never share a rank.
//
// The ranked order is computed lazily. Every mutation marks the cached order
// dirty and the first rank-dependent query after it re-sorts with the
// configured Sorter. Batch loads therefore pay for one sort, not one per add.
//
// Concurrency: a Collection performs no locking and owns no goroutines.
// Mutations and rank-dependent reads (which may re-sort) must not run
// concurrently with anything else on the same Collection; unsynchronized
// concurrent use is undefined behavior. Callers provide exclusion, e.g. the
// repository package's LockedStore or a single owning goroutine.
package leaderboard

import (
	"fmt"

	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
)

// Standing is one row of a ranked view.
type Standing struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
}

// Collection is the ranked leaderboard engine.
type Collection struct {
	entities []model.Entity // insertion order; source of truth
	index    map[string]int // name -> position in entities

	cache *order // nil when dirty

	sorter   sorting.Sorter
	strategy search.Strategy
	sorts    int
}

// New creates an empty collection. Both strategies are fixed for the
// collection's lifetime.
func New(sorter sorting.Sorter, strategy search.Strategy) (*Collection, error) {
	if sorter == nil || strategy == nil {
		return nil, ErrNilStrategy
	}
	return &Collection{
		index:    make(map[string]int),
		sorter:   sorter,
		strategy: strategy,
	}, nil
}

// Add inserts a new entity. O(1) amortized.
func (c *Collection) Add(name string, score int) error {
	if name == "" {
		return ErrInvalidName
	}
	if _, ok := c.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	c.index[name] = len(c.entities)
	c.entities = append(c.entities, model.Entity{Name: name, Score: score})
	c.invalidate()
	return nil
}

// UpdateScore replaces the score of an existing entity, keeping its position
// in insertion order. O(1).
func (c *Collection) UpdateScore(name string, score int) error {
	i, ok := c.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	c.entities[i] = model.Entity{Name: name, Score: score}
	c.invalidate()
	return nil
}

// Remove deletes an entity. O(n) for compacting the insertion order.
func (c *Collection) Remove(name string) error {
	i, ok := c.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	copy(c.entities[i:], c.entities[i+1:])
	c.entities[len(c.entities)-1] = model.Entity{}
	c.entities = c.entities[:len(c.entities)-1]
	delete(c.index, name)
	for j := i; j < len(c.entities); j++ {
		c.index[c.entities[j].Name] = j
	}
	c.invalidate()
	return nil
}

// TopN returns the first min(n, Len()) entities in ranked order. n <= 0
// yields an empty slice.
func (c *Collection) TopN(n int) []model.Entity {
	if n <= 0 {
		return []model.Entity{}
	}
	ranked := c.ranked().ranked
	n = min(n, len(ranked))
	out := make([]model.Entity, n)
	copy(out, ranked[:n])
	return out
}

// Rank returns the 1-based position of name.
func (c *Collection) Rank(name string) (int, error) {
	if _, ok := c.index[name]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.ranked().rankOf[name], nil
}

// AtRank returns the entity holding the given 1-based rank.
func (c *Collection) AtRank(rank int) (model.Entity, bool) {
	if rank < 1 || rank > len(c.entities) {
		return model.Entity{}, false
	}
	return c.ranked().ranked[rank-1], true
}

// FindByName resolves name through the configured search strategy. Absence is
// a normal result and is reported through the boolean.
func (c *Collection) FindByName(name string) (model.Entity, bool) {
	return c.strategy.FindByName(source{c}, name)
}

// FindInScoreRange returns the entities with low <= score <= high in ranked
// order.
func (c *Collection) FindInScoreRange(low, high int) ([]model.Entity, error) {
	if low > high {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, low, high)
	}
	out, err := c.strategy.FindInRange(c.ranked().ranked, low, high)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.strategy.Name(), err)
	}
	return out, nil
}

// Snapshot materializes the full ranked order.
func (c *Collection) Snapshot() []Standing {
	ranked := c.ranked().ranked
	out := make([]Standing, len(ranked))
	for i, e := range ranked {
		out[i] = Standing{Rank: i + 1, Name: e.Name, Score: e.Score}
	}
	return out
}

// Len returns the number of entities.
func (c *Collection) Len() int { return len(c.entities) }

// SortCount returns how many times the collection has invoked its sorter.
func (c *Collection) SortCount() int { return c.sorts }

// SorterName returns the configured sorter's display name.
func (c *Collection) SorterName() string { return c.sorter.Name() }

// StrategyName returns the configured search strategy's display name.
func (c *Collection) StrategyName() string { return c.strategy.Name() }

// invalidate marks the cached order dirty. Every mutation goes through here.
func (c *Collection) invalidate() {
	c.cache = nil
}

// ranked returns the current order, re-sorting if the cache is dirty. This is
// the only place the cache becomes clean.
func (c *Collection) ranked() *order {
	if c.cache == nil {
		c.cache = newOrder(c.sorter.Sort(c.entities))
		c.sorts++
	}
	return c.cache
}

// source adapts a Collection to search.Source.
type source struct{ c *Collection }

func (s source) Entities() []model.Entity { return s.c.entities }

func (s source) Lookup(name string) (model.Entity, bool) {
	i, ok := s.c.index[name]
	if !ok {
		return model.Entity{}, false
	}
	return s.c.entities[i], true
}
