package search

import "github.com/okian/ladder/internal/domain/model"

// Linear scans every entity. Name lookup and range queries are both O(n).
type Linear struct{}

// Name implements Strategy.
func (Linear) Name() string { return "Linear Search" }

// FindByName implements Strategy by scanning the insertion order.
func (Linear) FindByName(src Source, name string) (model.Entity, bool) {
	for _, e := range src.Entities() {
		if e.Name == name {
			return e, true
		}
	}
	return model.Entity{}, false
}

// FindInRange implements Strategy.
func (Linear) FindInRange(ranked []model.Entity, low, high int) ([]model.Entity, error) {
	out := make([]model.Entity, 0)
	if low > high {
		return out, nil
	}
	for _, e := range ranked {
		if e.Score >= low && e.Score <= high {
			out = append(out, e)
		}
	}
	return out, nil
}
