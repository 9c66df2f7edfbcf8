package leaderboard_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
	. "github.com/smartystreets/goconvey/convey"
)

type combo struct {
	label    string
	sorter   sorting.Sorter
	strategy search.Strategy
}

func combos() []combo {
	var out []combo
	for _, so := range []sorting.Sorter{sorting.MergeSort{}, sorting.QuickSort{}, sorting.Builtin{}} {
		for _, st := range []search.Strategy{search.Linear{}, search.NewBinary(search.WithStrictCheck())} {
			out = append(out, combo{label: so.Name() + " with " + st.Name(), sorter: so, strategy: st})
		}
	}
	return out
}

func mustNew(sorter sorting.Sorter, strategy search.Strategy) *leaderboard.Collection {
	c, err := leaderboard.New(sorter, strategy)
	if err != nil {
		panic(err)
	}
	return c
}

func demo(c *leaderboard.Collection) {
	for _, e := range []model.Entity{
		{Name: "Alice", Score: 1500},
		{Name: "Bob", Score: 1800},
		{Name: "Charlie", Score: 1200},
		{Name: "Diana", Score: 1800},
	} {
		if err := c.Add(e.Name, e.Score); err != nil {
			panic(err)
		}
	}
}

func TestCollection_Scenario(t *testing.T) {
	Convey("Given the four demo players", t, func() {
		for _, cb := range combos() {
			Convey("When ranked by "+cb.label, func() {
				c := mustNew(cb.sorter, cb.strategy)
				demo(c)

				Convey("Then ties on 1800 are broken alphabetically", func() {
					So(c.Snapshot(), ShouldResemble, []leaderboard.Standing{
						{Rank: 1, Name: "Bob", Score: 1800},
						{Rank: 2, Name: "Diana", Score: 1800},
						{Rank: 3, Name: "Alice", Score: 1500},
						{Rank: 4, Name: "Charlie", Score: 1200},
					})
					rank, err := c.Rank("Diana")
					So(err, ShouldBeNil)
					So(rank, ShouldEqual, 2)
					So(c.TopN(2), ShouldResemble, []model.Entity{{Name: "Bob", Score: 1800}, {Name: "Diana", Score: 1800}})
				})

				Convey("Then the range 1500..1800 is Bob, Diana, Alice", func() {
					got, err := c.FindInScoreRange(1500, 1800)
					So(err, ShouldBeNil)
					So(got, ShouldResemble, []model.Entity{
						{Name: "Bob", Score: 1800},
						{Name: "Diana", Score: 1800},
						{Name: "Alice", Score: 1500},
					})
				})

				Convey("And Alice's score is raised to 1900", func() {
					So(c.UpdateScore("Alice", 1900), ShouldBeNil)

					Convey("Then Alice moves to the top", func() {
						So(c.TopN(10), ShouldResemble, []model.Entity{
							{Name: "Alice", Score: 1900},
							{Name: "Bob", Score: 1800},
							{Name: "Diana", Score: 1800},
							{Name: "Charlie", Score: 1200},
						})
						rank, err := c.Rank("Alice")
						So(err, ShouldBeNil)
						So(rank, ShouldEqual, 1)
					})
				})

				Convey("Then Bob is found by name", func() {
					e, ok := c.FindByName("Bob")
					So(ok, ShouldBeTrue)
					So(e, ShouldResemble, model.Entity{Name: "Bob", Score: 1800})
				})
			})
		}
	})
}

func TestCollection_TieBreakIgnoresInsertionOrder(t *testing.T) {
	Convey("Given Bob and Diana tied at 1800", t, func() {
		forward := mustNew(sorting.QuickSort{}, search.Linear{})
		So(forward.Add("Bob", 1800), ShouldBeNil)
		So(forward.Add("Diana", 1800), ShouldBeNil)

		reverse := mustNew(sorting.QuickSort{}, search.Linear{})
		So(reverse.Add("Diana", 1800), ShouldBeNil)
		So(reverse.Add("Bob", 1800), ShouldBeNil)

		Convey("Then Bob ranks before Diana either way", func() {
			So(forward.Snapshot(), ShouldResemble, reverse.Snapshot())
			rank, err := reverse.Rank("Bob")
			So(err, ShouldBeNil)
			So(rank, ShouldEqual, 1)
		})
	})
}

func TestCollection_Errors(t *testing.T) {
	Convey("Given a collection with the demo players", t, func() {
		c := mustNew(sorting.MergeSort{}, search.NewBinary())
		demo(c)
		before := c.Snapshot()

		Convey("When adding an existing name", func() {
			err := c.Add("Bob", 1)

			Convey("Then it fails with ErrDuplicateName and changes nothing", func() {
				So(errors.Is(err, leaderboard.ErrDuplicateName), ShouldBeTrue)
				So(c.Len(), ShouldEqual, 4)
				So(c.Snapshot(), ShouldResemble, before)
			})
		})

		Convey("When adding an empty name", func() {
			So(errors.Is(c.Add("", 1), leaderboard.ErrInvalidName), ShouldBeTrue)
		})

		Convey("When touching an absent name", func() {
			So(errors.Is(c.UpdateScore("Zoe", 1), leaderboard.ErrNotFound), ShouldBeTrue)
			So(errors.Is(c.Remove("Zoe"), leaderboard.ErrNotFound), ShouldBeTrue)
			_, err := c.Rank("Zoe")
			So(errors.Is(err, leaderboard.ErrNotFound), ShouldBeTrue)

			_, ok := c.FindByName("Zoe")
			So(ok, ShouldBeFalse)
		})

		Convey("When querying a reversed range", func() {
			sorts := c.SortCount()
			got, err := c.FindInScoreRange(1800, 1500)

			Convey("Then it fails before any work is done", func() {
				So(errors.Is(err, leaderboard.ErrInvalidRange), ShouldBeTrue)
				So(got, ShouldBeNil)
				So(c.SortCount(), ShouldEqual, sorts)
			})
		})

		Convey("When constructing without strategies", func() {
			_, err := leaderboard.New(nil, search.Linear{})
			So(errors.Is(err, leaderboard.ErrNilStrategy), ShouldBeTrue)
			_, err = leaderboard.New(sorting.MergeSort{}, nil)
			So(errors.Is(err, leaderboard.ErrNilStrategy), ShouldBeTrue)
		})
	})
}

func TestCollection_Remove(t *testing.T) {
	Convey("Given the demo players", t, func() {
		c := mustNew(sorting.MergeSort{}, search.Linear{})
		demo(c)

		Convey("When removing Alice from the middle of the insertion order", func() {
			So(c.Remove("Alice"), ShouldBeNil)

			Convey("Then the remaining names are still indexed", func() {
				So(c.Len(), ShouldEqual, 3)
				for _, name := range []string{"Bob", "Charlie", "Diana"} {
					e, ok := c.FindByName(name)
					So(ok, ShouldBeTrue)
					So(e.Name, ShouldEqual, name)
				}
				_, ok := c.FindByName("Alice")
				So(ok, ShouldBeFalse)
			})

			Convey("Then ranks close the gap", func() {
				rank, err := c.Rank("Charlie")
				So(err, ShouldBeNil)
				So(rank, ShouldEqual, 3)
			})

			Convey("Then the name can be added again", func() {
				So(c.Add("Alice", 10), ShouldBeNil)
				rank, err := c.Rank("Alice")
				So(err, ShouldBeNil)
				So(rank, ShouldEqual, 4)
			})
		})
	})
}

func TestCollection_LazySort(t *testing.T) {
	Convey("Given a freshly loaded collection", t, func() {
		c := mustNew(sorting.MergeSort{}, search.Linear{})
		for i := 0; i < 100; i++ {
			So(c.Add(fmt.Sprintf("p%03d", i), i%7), ShouldBeNil)
		}

		Convey("Then loading did not sort", func() {
			So(c.SortCount(), ShouldEqual, 0)
			So(c.Sorted(), ShouldBeFalse)
		})

		Convey("When TopN is called twice without mutation", func() {
			first := c.TopN(5)
			second := c.TopN(5)

			Convey("Then the results match and only one sort ran", func() {
				So(second, ShouldResemble, first)
				So(c.SortCount(), ShouldEqual, 1)
				So(c.Sorted(), ShouldBeTrue)
			})
		})

		Convey("When name lookups run", func() {
			_, _ = c.FindByName("p001")

			Convey("Then they never force a sort", func() {
				So(c.SortCount(), ShouldEqual, 0)
			})
		})

		Convey("When each mutation is followed by a rank query", func() {
			_ = c.TopN(1)
			So(c.UpdateScore("p001", 100), ShouldBeNil)
			So(c.Sorted(), ShouldBeFalse)
			rank, err := c.Rank("p001")
			So(err, ShouldBeNil)
			So(rank, ShouldEqual, 1)
			So(c.Remove("p002"), ShouldBeNil)
			_, _ = c.AtRank(1)

			Convey("Then every mutation invalidated the order once", func() {
				So(c.SortCount(), ShouldEqual, 3)
			})
		})
	})
}

func TestCollection_TopNAndAtRank(t *testing.T) {
	Convey("Given the demo players", t, func() {
		c := mustNew(sorting.QuickSort{}, search.Linear{})
		demo(c)

		Convey("Then TopN clamps to the collection size", func() {
			So(c.TopN(0), ShouldBeEmpty)
			So(c.TopN(-3), ShouldBeEmpty)
			So(c.TopN(100), ShouldHaveLength, 4)
		})

		Convey("Then TopN results are copies", func() {
			top := c.TopN(1)
			top[0].Score = 0
			So(c.TopN(1)[0].Score, ShouldEqual, 1800)
		})

		Convey("Then AtRank resolves positions", func() {
			e, ok := c.AtRank(3)
			So(ok, ShouldBeTrue)
			So(e.Name, ShouldEqual, "Alice")
			_, ok = c.AtRank(0)
			So(ok, ShouldBeFalse)
			_, ok = c.AtRank(5)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an empty collection", t, func() {
		c := mustNew(sorting.MergeSort{}, search.NewBinary())

		So(c.TopN(3), ShouldBeEmpty)
		So(c.Snapshot(), ShouldBeEmpty)
		got, err := c.FindInScoreRange(-10, 10)
		So(err, ShouldBeNil)
		So(got, ShouldBeEmpty)
	})
}
