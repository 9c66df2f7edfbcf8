// Package cli wires the leaderboard engine into cobra commands.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/okian/ladder/internal/config"
	"github.com/okian/ladder/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Format     string // "text" | "json" | "yaml"

	// Config is populated before any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{formatText, formatJSON, formatYAML}

// NewRootCommand creates the root command for the ladder CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ladder",
		Short: "In-memory ranked leaderboard",
		Long: `Ladder keeps named, scored players in rank order (score descending,
name ascending) with pluggable sort and search strategies.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("%w %q: must be one of %v", ErrInvalidFormat, opts.Format, ValidFormats)
			}
			return setup(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (defaults to $"+config.EnvConfig+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format override (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", formatText, "output format (text|json|yaml)")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewMonitorCommand(opts))
	cmd.AddCommand(NewLoadgenCommand(opts))

	return cmd
}

// setup loads the configuration and points the global logger at stderr.
func setup(cmd *cobra.Command, opts *RootOptions) error {
	path := opts.ConfigPath
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(cmd.Context(), path)
	} else {
		cfg, err = config.Load(cmd.Context())
	}
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.LogFormat = opts.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.SetOutput(cmd.ErrOrStderr()); err != nil {
		return err
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	opts.Config = cfg
	return nil
}
