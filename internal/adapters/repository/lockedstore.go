package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
	"github.com/okian/ladder/pkg/stopwatch"
)

const component = "repository"

// LockedStore serializes every call into a leaderboard.Collection.
//
// A single mutex guards reads and writes alike: rank-dependent reads may
// re-sort the collection, so they mutate its cache.
type LockedStore struct {
	mu  sync.Mutex
	col *leaderboard.Collection

	snapshotInterval time.Duration
	topCacheSize     int
	log              logger.Logger

	snapshot atomic.Pointer[Snapshot]

	wg        sync.WaitGroup
	stopChan  chan struct{}
	closeOnce sync.Once
}

var _ Store = (*LockedStore)(nil)

// NewLockedStore builds a store over a fresh collection and starts the
// snapshot publisher. The publisher stops on Close or when ctx is done.
func NewLockedStore(ctx context.Context, sorter sorting.Sorter, strategy search.Strategy, opts ...Option) (*LockedStore, error) {
	if sorter == nil {
		return nil, leaderboard.ErrNilStrategy
	}
	col, err := leaderboard.New(timedSorter{sorter}, strategy)
	if err != nil {
		return nil, err
	}

	s := &LockedStore{
		col:              col,
		snapshotInterval: time.Second,
		topCacheSize:     10,
		stopChan:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named(component)
	}

	s.Publish()
	if s.snapshotInterval > 0 {
		s.startPeriodicSnapshots(ctx)
	}
	return s, nil
}

// Add implements Store.
func (s *LockedStore) Add(ctx context.Context, name string, score int) error {
	return s.mutate(ctx, "add", func() error { return s.col.Add(name, score) })
}

// UpdateScore implements Store.
func (s *LockedStore) UpdateScore(ctx context.Context, name string, score int) error {
	return s.mutate(ctx, "update", func() error { return s.col.UpdateScore(name, score) })
}

// Remove implements Store.
func (s *LockedStore) Remove(ctx context.Context, name string) error {
	return s.mutate(ctx, "remove", func() error { return s.col.Remove(name) })
}

func (s *LockedStore) mutate(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		s.record(op, time.Now(), err)
		return err
	}
	start := time.Now()
	s.mu.Lock()
	err := fn()
	n := s.col.Len()
	s.mu.Unlock()

	s.record(op, start, err)
	if err == nil {
		metrics.UpdateEntityCount(n)
	}
	return err
}

// TopN implements Store.
func (s *LockedStore) TopN(ctx context.Context, n int) ([]model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	s.mu.Lock()
	out := s.col.TopN(n)
	s.mu.Unlock()
	s.record("top_n", start, nil)
	return out, nil
}

// Rank implements Store.
func (s *LockedStore) Rank(ctx context.Context, name string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	s.mu.Lock()
	rank, err := s.col.Rank(name)
	s.mu.Unlock()
	s.record("rank", start, err)
	return rank, err
}

// AtRank implements Store.
func (s *LockedStore) AtRank(ctx context.Context, rank int) (model.Entity, bool) {
	if ctx.Err() != nil {
		return model.Entity{}, false
	}
	start := time.Now()
	s.mu.Lock()
	e, ok := s.col.AtRank(rank)
	s.mu.Unlock()
	s.record("at_rank", start, nil)
	return e, ok
}

// FindByName implements Store.
func (s *LockedStore) FindByName(ctx context.Context, name string) (model.Entity, bool) {
	if ctx.Err() != nil {
		return model.Entity{}, false
	}
	start := time.Now()
	s.mu.Lock()
	e, ok := s.col.FindByName(name)
	strategy := s.col.StrategyName()
	s.mu.Unlock()
	metrics.RecordSearchLatency(strategy, "name", stopwatch.ToMilliseconds(time.Since(start)))
	s.record("find_by_name", start, nil)
	return e, ok
}

// FindInScoreRange implements Store.
func (s *LockedStore) FindInScoreRange(ctx context.Context, low, high int) ([]model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	s.mu.Lock()
	out, err := s.col.FindInScoreRange(low, high)
	strategy := s.col.StrategyName()
	s.mu.Unlock()
	metrics.RecordSearchLatency(strategy, "range", stopwatch.ToMilliseconds(time.Since(start)))
	s.record("find_in_range", start, err)
	if errors.Is(err, ErrPreconditionViolation) {
		s.log.Error(ctx, "ranked order rejected by search strategy", logger.String("strategy", strategy), logger.Error(err))
	}
	return out, err
}

// Snapshot implements Store.
func (s *LockedStore) Snapshot(ctx context.Context) ([]leaderboard.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	s.mu.Lock()
	out := s.col.Snapshot()
	s.mu.Unlock()
	s.record("snapshot", start, nil)
	return out, nil
}

// Count implements Store.
func (s *LockedStore) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Len()
}

// SortCount returns how many times the underlying collection has re-sorted.
func (s *LockedStore) SortCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.SortCount()
}

// Cached returns the last published snapshot. It never blocks on the store lock.
func (s *LockedStore) Cached() *Snapshot {
	return s.snapshot.Load()
}

// Publish rebuilds and publishes a snapshot now.
func (s *LockedStore) Publish() {
	sw := stopwatch.Started()
	s.mu.Lock()
	standings := s.col.Snapshot()
	s.mu.Unlock()

	snap := &Snapshot{
		Standings:  standings,
		TopCache:   standings[:min(s.topCacheSize, len(standings))],
		RankByName: make(map[string]int, len(standings)),
		TakenAt:    time.Now(),
	}
	for _, st := range standings {
		snap.RankByName[st.Name] = st.Rank
	}
	s.snapshot.Store(snap)

	metrics.RecordSnapshotRebuild(stopwatch.ToMilliseconds(sw.Stop()), snap.TakenAt.Unix())
}

func (s *LockedStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Publish()
			}
		}
	}()
}

// Close stops the snapshot publisher and waits for it to exit.
func (s *LockedStore) Close() error {
	s.closeOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *LockedStore) record(op string, start time.Time, err error) {
	kind := ErrorKind(err)
	metrics.RecordOperation(op, kind, stopwatch.ToMilliseconds(time.Since(start)))
	if err != nil {
		metrics.RecordErrorByComponent(component, kind)
	}
}

// timedSorter reports every re-sort to metrics.
type timedSorter struct {
	sorting.Sorter
}

func (t timedSorter) Sort(in []model.Entity) []model.Entity {
	var out []model.Entity
	d := stopwatch.Time(func() { out = t.Sorter.Sort(in) })
	metrics.RecordSort(t.Name(), stopwatch.ToMilliseconds(d))
	return out
}
