// Package repository wraps the ranked collection in a Store that is safe for
// concurrent use and publishes lock-free snapshots for readers.
package repository

import (
	"context"
	"time"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
)

// Store provides context-aware read/write access to the ranking state.
type Store interface {
	// Add inserts a new entity. Returns ErrDuplicateName if the name exists.
	Add(ctx context.Context, name string, score int) error
	// UpdateScore replaces the score of an existing entity.
	UpdateScore(ctx context.Context, name string, score int) error
	// Remove deletes an entity.
	Remove(ctx context.Context, name string) error

	// TopN returns up to n entities in ranked order.
	TopN(ctx context.Context, n int) ([]model.Entity, error)
	// Rank returns the 1-based rank of name or ErrNotFound.
	Rank(ctx context.Context, name string) (int, error)
	// AtRank returns the entity at a 1-based rank.
	AtRank(ctx context.Context, rank int) (model.Entity, bool)
	// FindByName looks an entity up through the configured strategy.
	FindByName(ctx context.Context, name string) (model.Entity, bool)
	// FindInScoreRange returns entities with low <= score <= high in rank order.
	FindInScoreRange(ctx context.Context, low, high int) ([]model.Entity, error)
	// Snapshot materializes the full ranked order.
	Snapshot(ctx context.Context) ([]leaderboard.Standing, error)

	// Count returns the number of entities.
	Count(ctx context.Context) int
}

// Snapshot is an immutable, periodically published view of the leaderboard.
type Snapshot struct {
	Standings  []leaderboard.Standing
	TopCache   []leaderboard.Standing // first TopCacheSize standings
	RankByName map[string]int
	TakenAt    time.Time
}
