package search

import (
	"fmt"
	"sync"

	"github.com/okian/ladder/internal/domain/model"
)

// BinaryOption configures a Binary strategy.
type BinaryOption func(*Binary)

// WithStrictCheck verifies the full input ordering before every range query,
// even for a slice that was already verified. This costs O(n) per query and is
// meant for tests and debugging.
func WithStrictCheck() BinaryOption {
	return func(b *Binary) {
		b.strict = true
	}
}

// Binary resolves names through the hash index in O(1) and answers range
// queries in O(log n + k) with two binary searches over the ranked order.
//
// Range queries require input sorted by score descending. Violations are
// reported as ErrPreconditionViolation. The first query against a slice scans
// it in full; later queries against the same backing array and length skip the
// scan, so a ranked slice must not be modified in place between queries. A
// zero Binary has no memory and scans on every query.
type Binary struct {
	strict bool
	seen   *verified
}

// verified remembers the last slice that passed a full ordering scan.
type verified struct {
	mu    sync.Mutex
	first *model.Entity
	n     int
}

func (v *verified) has(s []model.Entity) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.first == &s[0] && v.n == len(s)
}

func (v *verified) remember(s []model.Entity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.first, v.n = &s[0], len(s)
}

// NewBinary creates a Binary strategy. Copies share the verification memory.
func NewBinary(opts ...BinaryOption) Binary {
	b := Binary{seen: &verified{}}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Name implements Strategy.
func (Binary) Name() string { return "Binary Search" }

// FindByName implements Strategy through the source's hash index.
func (Binary) FindByName(src Source, name string) (model.Entity, bool) {
	return src.Lookup(name)
}

// FindInRange implements Strategy.
func (b Binary) FindInRange(ranked []model.Entity, low, high int) ([]model.Entity, error) {
	if err := b.checkOrder(ranked); err != nil {
		return nil, err
	}
	n := len(ranked)
	if n == 0 || low > high {
		return make([]model.Entity, 0), nil
	}
	if ranked[0].Score < ranked[n-1].Score {
		return nil, fmt.Errorf("%w: first score %d below last score %d", ErrPreconditionViolation, ranked[0].Score, ranked[n-1].Score)
	}

	// begin: first index with score <= high.
	// end: first index with score < low.
	begin := lowerBound(ranked, func(e model.Entity) bool { return e.Score <= high })
	end := lowerBound(ranked, func(e model.Entity) bool { return e.Score < low })

	if err := checkBoundaries(ranked, begin, end, low, high); err != nil {
		return nil, err
	}

	out := make([]model.Entity, end-begin)
	copy(out, ranked[begin:end])
	return out, nil
}

// checkOrder scans ranked unless it is the slice verified last time.
func (b Binary) checkOrder(ranked []model.Entity) error {
	if len(ranked) == 0 {
		return nil
	}
	if !b.strict && b.seen != nil && b.seen.has(ranked) {
		return nil
	}
	if i := firstUnsorted(ranked); i >= 0 {
		return fmt.Errorf("%w: score at index %d exceeds its predecessor", ErrPreconditionViolation, i)
	}
	if b.seen != nil {
		b.seen.remember(ranked)
	}
	return nil
}

// lowerBound returns the first index for which pred holds, assuming pred is
// false for a prefix of s and true for the rest.
func lowerBound(s []model.Entity, pred func(model.Entity) bool) int {
	begin, end := 0, len(s)
	for begin < end {
		mid := int(uint(begin+end) >> 1)
		if pred(s[mid]) {
			end = mid
		} else {
			begin = mid + 1
		}
	}
	return begin
}

// checkBoundaries verifies the located range is consistent with a descending
// order. The binary searches already guarantee s[begin] <= high and
// s[end-1] >= low, so only the opposite bounds need checking.
func checkBoundaries(s []model.Entity, begin, end, low, high int) error {
	switch {
	case begin > end:
		return fmt.Errorf("%w: range start %d after range end %d", ErrPreconditionViolation, begin, end)
	case end > begin && s[begin].Score < low:
		return fmt.Errorf("%w: score below range at index %d", ErrPreconditionViolation, begin)
	case end > begin && s[end-1].Score > high:
		return fmt.Errorf("%w: score above range at index %d", ErrPreconditionViolation, end-1)
	}
	return nil
}

// firstUnsorted returns the first index whose score exceeds its predecessor's,
// or -1 when s is sorted by score descending.
func firstUnsorted(s []model.Entity) int {
	for i := 1; i < len(s); i++ {
		if s[i].Score > s[i-1].Score {
			return i
		}
	}
	return -1
}
