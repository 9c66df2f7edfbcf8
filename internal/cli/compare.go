package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/ladder/internal/compare"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/stopwatch"
)

type compareFlags struct {
	size      int
	seed      uint64
	top       int
	low, high int
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &compareFlags{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Time every sorter and search strategy pairing",
		Long: `Builds one leaderboard per sorter/search pairing from the same seeded
scores and times inserts, top-N, a rank lookup and a score-range query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := rootOpts.Config
			f := cmd.Flags()
			if !f.Changed("size") {
				flags.size = cfg.CompareSize
			}
			if !f.Changed("seed") {
				flags.seed = cfg.CompareSeed
			}
			if !f.Changed("top") {
				flags.top = cfg.CompareTopN
			}
			if !f.Changed("low") {
				flags.low = cfg.CompareRangeLow
			}
			if !f.Changed("high") {
				flags.high = cfg.CompareRangeHigh
			}

			runner := compare.New(
				compare.WithSize(flags.size),
				compare.WithSeed(flags.seed),
				compare.WithTopN(flags.top),
				compare.WithRange(flags.low, flags.high),
				compare.WithLogger(logger.Named("compare")),
			)
			results, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			if rootOpts.Format == formatText {
				return writeComparison(cmd.OutOrStdout(), results)
			}
			return writeStructured(cmd.OutOrStdout(), rootOpts.Format, results)
		},
	}

	cmd.Flags().IntVarP(&flags.size, "size", "n", 0, "players per run (defaults to compare_size)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "score generator seed (defaults to compare_seed)")
	cmd.Flags().IntVar(&flags.top, "top", 0, "n for the top-N query (defaults to compare_top_n)")
	cmd.Flags().IntVar(&flags.low, "low", 0, "range query lower bound (defaults to compare_range_low)")
	cmd.Flags().IntVar(&flags.high, "high", 0, "range query upper bound (defaults to compare_range_high)")

	return cmd
}

func writeComparison(w io.Writer, results []compare.Result) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SORTER\tSEARCH\tPLAYERS\tINSERT ms\tTOP-N ms\tRANK ms\tRANGE ms\tMATCHES")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%d\n",
			r.Sorter, r.Strategy, r.Players,
			stopwatch.ToMilliseconds(r.Insert),
			stopwatch.ToMilliseconds(r.TopN),
			stopwatch.ToMilliseconds(r.Rank),
			stopwatch.ToMilliseconds(r.Range),
			r.Matches)
	}
	return tw.Flush()
}
