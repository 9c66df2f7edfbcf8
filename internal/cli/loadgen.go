package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/ladder/internal/app"
	"github.com/okian/ladder/internal/loadgen"
	"github.com/okian/ladder/pkg/logger"
)

// NewLoadgenCommand creates the loadgen command.
func NewLoadgenCommand(rootOpts *RootOptions) *cobra.Command {
	cfg := loadgen.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Stress the ingest pipeline and verify the final standings",
		Long: `Generates a seeded stream of add, update and remove commands, submits it
from concurrent goroutines through the queue and worker pool, and checks the
resulting standings against the stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.New(
				service.FromConfig(rootOpts.Config),
				service.WithLogger(logger.Named("service")),
			)
			if err := svc.Start(cmd.Context()); err != nil {
				return err
			}

			stats, err := loadgen.New(svc, cfg, loadgen.WithLogger(logger.Named("loadgen"))).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format != formatText {
				return writeStructured(out, rootOpts.Format, stats)
			}
			fmt.Fprintf(out, "generated %d, submitted %d, duplicates %d, failed %d, retries %d\n",
				stats.Generated, stats.Submitted, stats.Duplicates, stats.Failed, stats.Retries)
			fmt.Fprintf(out, "verified %d standings in %s\n", stats.Standings, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Players, "players", cfg.Players, "distinct players to add")
	cmd.Flags().IntVar(&cfg.Updates, "updates", cfg.Updates, "score updates")
	cmd.Flags().IntVar(&cfg.Removes, "removes", cfg.Removes, "players removed at the end")
	cmd.Flags().IntVar(&cfg.Submitters, "submitters", cfg.Submitters, "concurrent submitting goroutines")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed")
	cmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", "", "write the generated commands as YAML (replayable with ingest)")

	return cmd
}
