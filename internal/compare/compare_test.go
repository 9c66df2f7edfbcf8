package compare_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ladder/internal/compare"
	"github.com/okian/ladder/pkg/logger"
)

func TestRunner_Run(t *testing.T) {
	Convey("Given a runner over every sorter and strategy", t, func() {
		r := compare.New(compare.WithSize(500), compare.WithSeed(7), compare.WithLogger(logger.Nop()))

		Convey("When it runs", func() {
			results, err := r.Run(context.Background())

			Convey("Then every pairing should report", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 6)
				So(results[0].Sorter, ShouldEqual, "Merge Sort")
				So(results[0].Strategy, ShouldEqual, "Linear Search")
				So(results[1].Strategy, ShouldEqual, "Binary Search")
				So(results[5].Sorter, ShouldEqual, "Builtin Stable Sort")
			})

			Convey("Then all pairings should agree on the range result", func() {
				for _, res := range results {
					So(res.Players, ShouldEqual, 500)
					So(res.Matches, ShouldEqual, results[0].Matches)
					So(res.Sorts, ShouldEqual, 1)
					So(res.TotalMS(), ShouldBeGreaterThanOrEqualTo, 0.0)
				}
			})
		})
	})

	Convey("Given a restricted runner", t, func() {
		r := compare.New(
			compare.WithSize(50),
			compare.WithSorters("quick"),
			compare.WithStrategies("binary"),
			compare.WithTopN(3),
			compare.WithRange(0, 9999),
			compare.WithLogger(logger.Nop()),
		)

		Convey("Then only that pairing runs and the full range matches everyone", func() {
			results, err := r.Run(context.Background())
			So(err, ShouldBeNil)
			So(len(results), ShouldEqual, 1)
			So(results[0].Sorter, ShouldEqual, "Quick Sort")
			So(results[0].Matches, ShouldEqual, 50)
		})
	})

	Convey("Given invalid settings", t, func() {
		Convey("A reversed range should be rejected", func() {
			_, err := compare.New(compare.WithRange(10, 1), compare.WithLogger(logger.Nop())).Run(context.Background())
			So(errors.Is(err, compare.ErrInvalidRange), ShouldBeTrue)
		})

		Convey("An unknown sorter should fail the run", func() {
			_, err := compare.New(compare.WithSorters("bogo"), compare.WithLogger(logger.Nop())).Run(context.Background())
			So(errors.Is(err, compare.ErrRun), ShouldBeTrue)
		})

		Convey("A cancelled context should stop before the first run", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			results, err := compare.New(compare.WithLogger(logger.Nop())).Run(ctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(results, ShouldBeEmpty)
		})
	})
}

func TestRunner_Scores(t *testing.T) {
	Convey("Given two runners with the same seed", t, func() {
		a := compare.New(compare.WithSize(20), compare.WithSeed(99), compare.WithLogger(logger.Nop()))
		b := compare.New(compare.WithSize(20), compare.WithSeed(99), compare.WithLogger(logger.Nop()))

		Convey("Then they should generate identical in-range scores", func() {
			sa, sb := a.Scores(), b.Scores()
			So(sa, ShouldResemble, sb)
			for _, s := range sa {
				So(s, ShouldBeBetweenOrEqual, 0, 9999)
			}
		})
	})
}
