package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/propgrid/internal/args"
	"github.com/roach88/propgrid/internal/bridge"
	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/hostarg"
	"github.com/roach88/propgrid/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Property    string
	Inputs      string
	Values1     []float64
	Values2     []float64
	Fluid       string
	Mass        float64
	Composition []float64
	Units       string
	EnginePath  string
	Library     string
	Debug       float64
	Database    string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one property grid",
		Long: `Evaluate one property over the grid values1 x values2.

The flags are passed to the engine as the ten positional arguments of a
host call, so they are checked exactly like one: --mass and --debug must
be 0 or 1, both axes need at least one value and the composition holds at
most 20 fractions.

Example:
  propgrid eval -p D -i TP --v1 300,310,320 --v2 101325 --fluid WATER --engine-path /opt/refprop
  propgrid eval -p D -i TQ --v1 250 --v2 0,1 --fluid R32;R125 --z 0.5,0.5 --debug 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Property, "property", "p", "", "output property code, e.g. D (required)")
	cmd.Flags().StringVarP(&opts.Inputs, "inputs", "i", "", "independent-variable pair, e.g. TP (required)")
	cmd.Flags().Float64SliceVar(&opts.Values1, "v1", nil, "values of the first independent variable (grid rows)")
	cmd.Flags().Float64SliceVar(&opts.Values2, "v2", nil, "values of the second independent variable (grid columns)")
	cmd.Flags().StringVar(&opts.Fluid, "fluid", "", "fluid name, ';'-separated list or .mix file (required)")
	cmd.Flags().Float64Var(&opts.Mass, "mass", 0, "composition basis: 0 molar, 1 mass")
	cmd.Flags().Float64SliceVar(&opts.Composition, "z", []float64{1.0}, "composition fractions")
	cmd.Flags().StringVar(&opts.Units, "units", "", "unit system (default from config, SI)")
	cmd.Flags().StringVar(&opts.EnginePath, "engine-path", "", "engine install directory (default from config)")
	cmd.Flags().StringVar(&opts.Library, "library", "", "engine module file name (default from config)")
	cmd.Flags().Float64Var(&opts.Debug, "debug", 0, "per-cell debug trace: 0 off, 1 on")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database (default from config)")
	_ = cmd.MarkFlagRequired("property")
	_ = cmd.MarkFlagRequired("inputs")
	_ = cmd.MarkFlagRequired("fluid")

	return cmd
}

func runEval(opts *EvalOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	cfg, logger, err := opts.settings(cmd)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	in := []hostarg.Value{
		args.ArgPropReq:     hostarg.Char(opts.Property),
		args.ArgSpec:        hostarg.Char(opts.Inputs),
		args.ArgValue1:      hostarg.NewRow(opts.Values1...),
		args.ArgValue2:      hostarg.NewRow(opts.Values2...),
		args.ArgFluid:       hostarg.Char(opts.Fluid),
		args.ArgMass:        hostarg.NewScalar(opts.Mass),
		args.ArgComposition: hostarg.NewRow(opts.Composition...),
		args.ArgUnits:       hostarg.Char(firstNonEmpty(opts.Units, cfg.Units)),
		args.ArgPath:        hostarg.Char(firstNonEmpty(opts.EnginePath, cfg.EnginePath)),
		args.ArgDebug:       hostarg.NewScalar(opts.Debug),
	}

	ev := opts.evaluator(cmd, firstNonEmpty(opts.Library, cfg.Library), logger)
	out, callErr := bridge.Invoke(ev, args.ExpectedOutputs, in)

	runID := ""
	if out.Request != nil {
		runID = recordRun(cmd.Context(), opts.RootOptions, firstNonEmpty(opts.Database, cfg.Database),
			"eval", *out.Request, out.Result, callErr, logger)
	}
	if callErr != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, callErr)
	}

	return f.Success(newGridOutput("", runID, *out.Request, out.Result))
}

// recordRun writes one run to the database at path, if any, and returns
// its ID. History failures are logged and never fail the command.
func recordRun(ctx context.Context, opts *RootOptions, path, source string,
	req grid.Request, res *grid.Result, callErr error, logger *slog.Logger) string {
	if path == "" {
		return ""
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(path, logger)
	if err != nil {
		logger.Warn("run not recorded", "error", err)
		return ""
	}
	defer closeStore(st, logger)

	run := store.NewRun(source, req, res, callErr, opts.now())
	if _, err := st.WriteRun(ctx, run); err != nil {
		logger.Warn("run not recorded", "run_id", run.ID, "error", err)
		return ""
	}
	logger.Debug("run recorded", "run_id", run.ID, "status", string(run.Status))
	return run.ID
}
