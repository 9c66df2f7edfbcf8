package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	var sorterName, searchName string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the basic leaderboard operations",
		Long: `Adds four players (Bob and Diana tie at 1800), updates Alice, and prints
the standings, top players, a score-range query and a rank lookup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sorterName == "" {
				sorterName = rootOpts.Config.Sorter
			}
			if searchName == "" {
				searchName = rootOpts.Config.Search
			}
			sorter, err := sorting.New(sorterName)
			if err != nil {
				return err
			}
			strategy, err := search.New(searchName)
			if err != nil {
				return err
			}
			c, err := leaderboard.New(sorter, strategy)
			if err != nil {
				return err
			}
			return runDemo(cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().StringVar(&sorterName, "sorter", "", "sorter override (merge|quick|builtin)")
	cmd.Flags().StringVar(&searchName, "search", "", "search override (linear|binary)")

	return cmd
}

func runDemo(w io.Writer, c *leaderboard.Collection) error {
	players := []struct {
		name  string
		score int
	}{
		{"Alice", 1500},
		{"Bob", 1800},
		{"Charlie", 1200},
		{"Diana", 1800},
	}
	for _, p := range players {
		if err := c.Add(p.name, p.score); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Leaderboard (%s, %s)\n\n", c.SorterName(), c.StrategyName())
	fmt.Fprintln(w, "Standings:")
	if err := writeStandings(w, c.Snapshot()); err != nil {
		return err
	}

	rank, err := c.Rank("Diana")
	if err != nil {
		return err
	}
	inRange, err := c.FindInScoreRange(1500, 1800)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTop 2: %s\n", joinEntities(c.TopN(2)))
	fmt.Fprintf(w, "Diana's rank: %d\n", rank)
	fmt.Fprintf(w, "Scores 1500-1800: %s\n", joinEntities(inRange))

	if err := c.UpdateScore("Alice", 1900); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nAfter updating Alice to 1900:")
	if err := writeStandings(w, c.Snapshot()); err != nil {
		return err
	}

	bob, ok := c.FindByName("Bob")
	if !ok {
		return fmt.Errorf("%w: Bob", leaderboard.ErrNotFound)
	}
	if rank, err = c.Rank("Diana"); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTop 2: %s\n", joinEntities(c.TopN(2)))
	fmt.Fprintf(w, "Found Bob: %s\n", bob)
	fmt.Fprintf(w, "Diana's rank: %d\n", rank)
	fmt.Fprintf(w, "Sorts performed: %d\n", c.SortCount())
	return nil
}
