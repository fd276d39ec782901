package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/propgrid/internal/config"
	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/refprop"
	"github.com/roach88/propgrid/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Loader overrides the engine loader (for testing).
	// If nil, defaults to refprop.NativeLoader.
	Loader refprop.Loader

	// Now overrides the clock stamped on recorded runs (for testing).
	// If nil, defaults to time.Now.
	Now func() time.Time

	cfg    *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the propgrid CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propgrid",
		Short: "propgrid - thermodynamic property grids",
		Long: `Evaluate a thermodynamic property over a grid of state points with a
REFPROP-compatible engine library, one engine call per cell.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to INI configuration file")

	// Add subcommands
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// settings loads the configuration once and builds the logger.
func (o *RootOptions) settings(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	if o.cfg != nil {
		return *o.cfg, o.logger, nil
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return config.Config{}, nil, err
	}
	if o.Verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})
	o.cfg = &cfg
	o.logger = slog.New(handler)
	slog.SetDefault(o.logger)
	return cfg, o.logger, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	format := o.Format
	if format == "" {
		format = "text"
	}
	return &OutputFormatter{
		Format:    format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) loader() refprop.Loader {
	if o.Loader != nil {
		return o.Loader
	}
	return refprop.NativeLoader{}
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// evaluator builds a grid evaluator. Debug traces go to stdout in text
// mode and to stderr in JSON mode so they never corrupt the JSON payload.
func (o *RootOptions) evaluator(cmd *cobra.Command, library string, logger *slog.Logger) *grid.Evaluator {
	var trace io.Writer = cmd.OutOrStdout()
	if o.Format == "json" {
		trace = cmd.ErrOrStderr()
	}
	return grid.NewEvaluator(o.loader(),
		grid.WithLibrary(library),
		grid.WithLogger(logger),
		grid.WithTrace(trace),
	)
}

// openStore opens the run history at path. An empty path disables history
// and returns a nil store.
func openStore(path string, logger *slog.Logger) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	logger.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return st, nil
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
