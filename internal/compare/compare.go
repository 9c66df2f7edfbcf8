// Package compare times every sorter and search strategy pairing against the
// same generated leaderboard.
package compare

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
	"github.com/okian/ladder/pkg/stopwatch"
)

const (
	defaultSize = 1000
	defaultTopN = 10
	maxScore    = 10_000
)

// Phase names reported per run.
const (
	PhaseInsert = "insert"
	PhaseTopN   = "top_n"
	PhaseRank   = "rank"
	PhaseRange  = "range"
)

// Result holds the timings of one sorter/strategy pairing.
type Result struct {
	Sorter   string        `json:"sorter" yaml:"sorter"`
	Strategy string        `json:"strategy" yaml:"strategy"`
	Players  int           `json:"players" yaml:"players"`
	Insert   time.Duration `json:"insert_ns" yaml:"insert"`
	TopN     time.Duration `json:"top_n_ns" yaml:"top_n"`
	Rank     time.Duration `json:"rank_ns" yaml:"rank"`
	Range    time.Duration `json:"range_ns" yaml:"range"`
	Matches  int           `json:"range_matches" yaml:"range_matches"`
	Sorts    int           `json:"sorts" yaml:"sorts"`
}

// TotalMS is the sum of every phase in milliseconds.
func (r Result) TotalMS() float64 {
	return stopwatch.ToMilliseconds(r.Insert + r.TopN + r.Rank + r.Range)
}

// Runner executes the comparison.
type Runner struct {
	size       int
	seed       uint64
	topN       int
	low, high  int
	sorters    []string
	strategies []string
	log        logger.Logger
}

// New returns a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{
		size:       defaultSize,
		seed:       42,
		topN:       defaultTopN,
		low:        maxScore / 4,
		high:       maxScore * 3 / 4,
		sorters:    sorting.Names(),
		strategies: search.Names(),
		log:        logger.Get().Named("compare"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scores returns the deterministic score sequence used by every run.
func (r *Runner) Scores() []int {
	rng := rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
	scores := make([]int, r.size)
	for i := range scores {
		scores[i] = rng.IntN(maxScore)
	}
	return scores
}

// Run times each sorter/strategy pairing in order. It stops at the first
// cancelled context or failing run.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if r.low > r.high {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, r.low, r.high)
	}
	scores := r.Scores()
	results := make([]Result, 0, len(r.sorters)*len(r.strategies))
	for _, sName := range r.sorters {
		for _, qName := range r.strategies {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res, err := r.runOne(sName, qName, scores)
			if err != nil {
				return results, fmt.Errorf("%w: %s/%s: %w", ErrRun, sName, qName, err)
			}
			r.log.Debug(ctx, "comparison run finished",
				logger.String("sorter", res.Sorter),
				logger.String("strategy", res.Strategy),
				logger.Float64("total_ms", res.TotalMS()))
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *Runner) runOne(sorterName, strategyName string, scores []int) (Result, error) {
	sorter, err := sorting.New(sorterName)
	if err != nil {
		return Result{}, err
	}
	strategy, err := search.New(strategyName)
	if err != nil {
		return Result{}, err
	}
	c, err := leaderboard.New(sorter, strategy)
	if err != nil {
		return Result{}, err
	}

	res := Result{Sorter: sorter.Name(), Strategy: strategy.Name(), Players: len(scores)}

	var addErr error
	res.Insert = stopwatch.Time(func() {
		for i, score := range scores {
			if addErr = c.Add(playerName(i), score); addErr != nil {
				return
			}
		}
	})
	if addErr != nil {
		return Result{}, addErr
	}

	res.TopN = stopwatch.Time(func() { _ = c.TopN(r.topN) })

	var rankErr error
	if len(scores) > 0 {
		target := playerName(len(scores) / 2)
		res.Rank = stopwatch.Time(func() { _, rankErr = c.Rank(target) })
	}
	if rankErr != nil {
		return Result{}, rankErr
	}

	var (
		matched  int
		rangeErr error
	)
	res.Range = stopwatch.Time(func() {
		var in []model.Entity
		in, rangeErr = c.FindInScoreRange(r.low, r.high)
		matched = len(in)
	})
	if rangeErr != nil {
		return Result{}, rangeErr
	}
	res.Matches = matched
	res.Sorts = c.SortCount()

	for phase, d := range map[string]time.Duration{
		PhaseInsert: res.Insert,
		PhaseTopN:   res.TopN,
		PhaseRank:   res.Rank,
		PhaseRange:  res.Range,
	} {
		metrics.RecordComparisonPhase(sorterName, strategyName, phase, stopwatch.ToMilliseconds(d))
	}
	return res, nil
}

func playerName(i int) string {
	return "Player" + strconv.Itoa(i)
}
