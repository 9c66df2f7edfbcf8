package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	service "github.com/okian/ladder/internal/app"
	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/pkg/logger"
)

// backpressureRetry is how long ingest waits for the queue to drain before
// resubmitting.
const backpressureRetry = time.Millisecond

// IngestReport summarizes one ingest run.
type IngestReport struct {
	Submitted  int                    `json:"submitted" yaml:"submitted"`
	Duplicates int                    `json:"duplicates" yaml:"duplicates"`
	Rejected   int                    `json:"rejected" yaml:"rejected"`
	Stats      service.Stats          `json:"stats" yaml:"stats"`
	Standings  []leaderboard.Standing `json:"standings" yaml:"standings"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Apply a YAML list of commands through the worker pool",
		Long: `Reads a YAML list of {id, op, name, score} commands, submits them through
the deduplicating queue and worker pool, waits for the pool to drain and
prints the resulting standings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := readCommands(args[0])
			if err != nil {
				return err
			}

			svc := service.New(
				service.FromConfig(rootOpts.Config),
				service.WithLogger(logger.Named("service")),
			)
			report, err := ingest(cmd, svc, cmds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format != formatText {
				return writeStructured(out, rootOpts.Format, report)
			}
			fmt.Fprintf(out, "submitted %d, duplicates %d, rejected %d, applied %d, failed %d\n\n",
				report.Submitted, report.Duplicates, report.Rejected, report.Stats.Processed, report.Stats.Failed)
			return writeStandings(out, report.Standings)
		},
	}

	return cmd
}

func readCommands(path string) ([]model.Command, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCommands, err)
	}
	var cmds []model.Command
	if err := yaml.Unmarshal(raw, &cmds); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadCommands, path, err)
	}
	return cmds, nil
}

func ingest(cmd *cobra.Command, svc *service.Service, cmds []model.Command) (*IngestReport, error) {
	ctx := cmd.Context()
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}

	report := &IngestReport{}
	for _, c := range cmds {
		err := svc.Submit(ctx, c)
		for errors.Is(err, service.ErrBackpressure) && ctx.Err() == nil {
			time.Sleep(backpressureRetry)
			err = svc.Submit(ctx, c)
		}
		switch {
		case err == nil:
			report.Submitted++
		case errors.Is(err, service.ErrDuplicateCommand):
			report.Duplicates++
		case errors.Is(err, service.ErrInvalidCommand):
			report.Rejected++
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping command %q: %v\n", c.ID, err)
		default:
			svc.Stop()
			return nil, err
		}
	}
	svc.Stop()

	standings, err := svc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report.Stats = svc.Stats(ctx)
	report.Standings = standings
	return report, nil
}
