package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/ladder/internal/app"
	"github.com/okian/ladder/internal/config"
	"github.com/okian/ladder/internal/monitor"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
)

// NewMonitorCommand creates the monitor command.
func NewMonitorCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		duration    time.Duration
		dumpMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Sample runtime and leaderboard stats for a while",
		Long: `Starts the memory, goroutine, GC and leaderboard samplers, lets them run
for --duration, then cancels them and reports how many were stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			svc := service.New(
				service.FromConfig(rootOpts.Config),
				service.WithLogger(logger.Named("service")),
			)
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			m := monitor.New(monitor.WithLogger(logger.Named("monitor")))
			if err := m.StartDefaults(ctx, intervals(rootOpts.Config), svc); err != nil {
				m.StopAll()
				return err
			}
			fmt.Fprintf(out, "sampling %d tasks for %s\n", len(m.Running()), duration)

			select {
			case <-time.After(duration):
			case <-ctx.Done():
			}

			fmt.Fprintf(out, "cancelled %d tasks\n", m.StopAll())
			if dumpMetrics {
				fmt.Fprintln(out)
				return metrics.WriteText(out)
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 5*time.Second, "how long to sample")
	cmd.Flags().BoolVar(&dumpMetrics, "dump-metrics", false, "print every metric in Prometheus text format afterwards")

	return cmd
}

func intervals(cfg *config.Config) monitor.Intervals {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return monitor.Intervals{
		Memory:      ms(cfg.MonitorMemoryMS),
		Goroutines:  ms(cfg.MonitorGoroutinesMS),
		GC:          ms(cfg.MonitorGCMS),
		Leaderboard: ms(cfg.MonitorLeaderboardMS),
	}
}
