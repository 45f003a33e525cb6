package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmcheck/internal/config"
	"github.com/roach88/fsmcheck/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	Database  string // history database path, empty disables recording
	LogLevel  string
	GoldenDir string
	EnvFile   string // extra dotenv file applied before flags

	// Logger is built in PersistentPreRunE. Commands constructed directly
	// (as in tests) fall back to a discarding logger.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// NewRootCommand creates the root command for the fsmcheck CLI.
// Defaults for --format, --db and the log level come from the environment
// (see package config); flags override them.
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Config{Format: "text", LogLevel: "info"}
	}

	opts := &RootOptions{
		LogLevel:  cfg.LogLevel,
		GoldenDir: cfg.GoldenDir,
	}

	cmd := &cobra.Command{
		Use:   "fsmcheck",
		Short: "fsmcheck - finite-state machine verifier",
		Long: `Verify Mealy and Moore state machine definitions.

Reports reachability of states, deadlock and livelock states, simple
per-state invariants and overall structural validity. Definitions are
read from JSON, YAML or CUE files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment configuration", cfgErr)
			}
			if opts.EnvFile != "" {
				if err := opts.applyEnvFile(cmd); err != nil {
					return WrapExitError(ExitCommandError, "invalid --env-file", err)
				}
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			level, err := logging.ParseLevel(opts.LogLevel)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid FSMCHECK_LOG_LEVEL", err)
			}
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = logging.New(level, cmd.ErrOrStderr())
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", cfg.Database, "path to SQLite history database")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file with FSMCHECK_* defaults")

	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewReachCommand(opts))
	cmd.AddCommand(NewDeadlocksCommand(opts))
	cmd.AddCommand(NewInvariantCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewGraphCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// applyEnvFile loads opts.EnvFile into the environment and re-reads the
// defaults from it. Variables already set in the process and flags given
// on the command line keep precedence.
func (o *RootOptions) applyEnvFile(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(o.EnvFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("db") {
		o.Database = cfg.Database
	}
	o.LogLevel = cfg.LogLevel
	o.GoldenDir = cfg.GoldenDir
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
