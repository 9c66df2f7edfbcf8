package leaderboard

import "github.com/okian/ladder/internal/domain/model"

// order is the cached ranking. A nil *order means dirty: the next
// rank-dependent read re-sorts. A non-nil *order is clean and always matches
// the current entity set.
type order struct {
	ranked []model.Entity // score DESC, name ASC
	rankOf map[string]int // 1-based rank by name
}

func newOrder(ranked []model.Entity) *order {
	o := &order{
		ranked: ranked,
		rankOf: make(map[string]int, len(ranked)),
	}
	for i, e := range ranked {
		o.rankOf[e.Name] = i + 1
	}
	return o
}
