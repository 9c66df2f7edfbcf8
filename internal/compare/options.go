package compare

import "github.com/okian/ladder/pkg/logger"

// Option configures a Runner.
type Option func(*Runner)

// WithSize sets how many players each run inserts.
func WithSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.size = n
		}
	}
}

// WithSeed fixes the score generator so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithTopN sets the n passed to TopN.
func WithTopN(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.topN = n
		}
	}
}

// WithRange sets the inclusive score range queried by each run.
func WithRange(low, high int) Option {
	return func(r *Runner) {
		r.low, r.high = low, high
	}
}

// WithSorters restricts the sorters being compared.
func WithSorters(names ...string) Option {
	return func(r *Runner) {
		if len(names) > 0 {
			r.sorters = names
		}
	}
}

// WithStrategies restricts the search strategies being compared.
func WithStrategies(names ...string) Option {
	return func(r *Runner) {
		if len(names) > 0 {
			r.strategies = names
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}
