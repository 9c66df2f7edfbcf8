package leaderboard_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
	"pgregory.net/rapid"
)

// TestCollection_Properties drives random mutation sequences against every
// sorter/strategy pair and checks them against a map-based model.
func TestCollection_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var collections []*leaderboard.Collection
		for _, cb := range combos() {
			collections = append(collections, mustNew(cb.sorter, cb.strategy))
		}

		want := map[string]int{}
		var names []string
		name := rapid.StringMatching(`[a-f]{1,3}`)
		score := rapid.IntRange(-10, 10)

		t.Repeat(map[string]func(*rapid.T){
			"Add": func(t *rapid.T) {
				n, s := name.Draw(t, "name"), score.Draw(t, "score")
				_, exists := want[n]
				for _, c := range collections {
					err := c.Add(n, s)
					if exists != errors.Is(err, leaderboard.ErrDuplicateName) {
						t.Fatalf("add %q: exists=%t err=%v", n, exists, err)
					}
				}
				if !exists {
					want[n] = s
					names = append(names, n)
				}
			},
			"UpdateScore": func(t *rapid.T) {
				if len(names) == 0 {
					t.Skip("skip: collection is empty")
				}
				n, s := rapid.SampledFrom(names).Draw(t, "name"), score.Draw(t, "score")
				for _, c := range collections {
					if err := c.UpdateScore(n, s); err != nil {
						t.Fatal(err)
					}
				}
				want[n] = s
			},
			"Remove": func(t *rapid.T) {
				if len(names) == 0 {
					t.Skip("skip: collection is empty")
				}
				n := rapid.SampledFrom(names).Draw(t, "name")
				for _, c := range collections {
					if err := c.Remove(n); err != nil {
						t.Fatal(err)
					}
				}
				delete(want, n)
				names = slices.DeleteFunc(names, func(x string) bool { return x == n })
			},
			"Range": func(t *rapid.T) {
				low := score.Draw(t, "low")
				high := rapid.IntRange(low, 12).Draw(t, "high")
				expected := make([]model.Entity, 0)
				for _, e := range expectedOrder(want) {
					if e.Score >= low && e.Score <= high {
						expected = append(expected, e)
					}
				}
				for _, c := range collections {
					got, err := c.FindInScoreRange(low, high)
					if err != nil {
						t.Fatal(err)
					}
					if diff := cmp.Diff(expected, got); diff != "" {
						t.Fatalf("%s/%s range [%d, %d] (-want +got):\n%s", c.SorterName(), c.StrategyName(), low, high, diff)
					}
				}
			},
			"": func(t *rapid.T) {
				expected := expectedOrder(want)
				for _, c := range collections {
					if c.Len() != len(want) {
						t.Fatalf("len: got %d, want %d", c.Len(), len(want))
					}
					if diff := cmp.Diff(expected, c.TopN(len(expected)+1)); diff != "" {
						t.Fatalf("%s/%s order (-want +got):\n%s", c.SorterName(), c.StrategyName(), diff)
					}
					seen := make([]bool, len(expected)+1)
					for i, e := range expected {
						rank, err := c.Rank(e.Name)
						if err != nil {
							t.Fatal(err)
						}
						if rank != i+1 || seen[rank] {
							t.Fatalf("rank of %q: got %d, want %d", e.Name, rank, i+1)
						}
						seen[rank] = true
						found, ok := c.FindByName(e.Name)
						if !ok || found != e {
							t.Fatalf("find %q: got %v, %t", e.Name, found, ok)
						}
					}
				}
			},
		})
	})
}

func expectedOrder(scores map[string]int) []model.Entity {
	out := make([]model.Entity, 0, len(scores))
	for n, s := range scores {
		out = append(out, model.Entity{Name: n, Score: s})
	}
	slices.SortFunc(out, func(a, b model.Entity) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		if a.Name < b.Name {
			return -1
		}
		return 1
	})
	return out
}

func TestCollection_SorterEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ops := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) model.Entity {
			return model.Entity{
				Name:  rapid.StringMatching(`[A-Z][a-z]{0,2}`).Draw(t, "name"),
				Score: rapid.IntRange(0, 5).Draw(t, "score"),
			}
		}), 0, 40).Draw(t, "adds")

		merge := mustNew(sorting.MergeSort{}, search.Linear{})
		quick := mustNew(sorting.QuickSort{}, search.NewBinary())
		for _, e := range ops {
			errMerge := merge.Add(e.Name, e.Score)
			errQuick := quick.Add(e.Name, e.Score)
			if (errMerge == nil) != (errQuick == nil) {
				t.Fatalf("add %v diverged: %v vs %v", e, errMerge, errQuick)
			}
		}
		if diff := cmp.Diff(merge.Snapshot(), quick.Snapshot()); diff != "" {
			t.Fatalf("merge vs quick (-merge +quick):\n%s", diff)
		}
	})
}
