package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/propgrid/internal/job"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	KeepGoing bool
	Library   string
	Database  string
}

// batchItem is the outcome of one request of a job.
type batchItem struct {
	Name   string      `json:"name"`
	Status string      `json:"status"`
	Grid   *gridOutput `json:"grid,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// batchOutput is the printable result of a whole job.
type batchOutput struct {
	Job    string      `json:"job,omitempty"`
	Ok     int         `json:"ok"`
	Failed int         `json:"failed"`
	Items  []batchItem `json:"items"`
}

func (b batchOutput) String() string {
	var sb strings.Builder
	for _, item := range b.Items {
		switch {
		case item.Grid != nil:
			sb.WriteString(item.Grid.String())
		case item.Error != nil:
			fmt.Fprintf(&sb, "%s: failed [%s]: %s", item.Name, item.Error.Code, item.Error.Message)
		}
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "%s: %d ok, %d failed", firstNonEmpty(b.Job, "job"), b.Ok, b.Failed)
	return sb.String()
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <job-file>",
		Short: "Evaluate every request of a job file",
		Long: `Evaluate every request of a YAML or CUE job file in order.

The job is validated against the job schema before anything runs. By
default the first failing request stops the batch; --keep-going runs the
remaining requests and reports every failure.

Example:
  propgrid batch water.yaml --db runs.db
  propgrid batch sweep.cue --keep-going --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "continue after a failed request")
	cmd.Flags().StringVar(&opts.Library, "library", "", "engine module file name (default from job, then config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database (default from config)")

	return cmd
}

func runBatch(opts *BatchOptions, cmd *cobra.Command, path string) error {
	f := opts.formatter(cmd)
	cfg, logger, err := opts.settings(cmd)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	j, err := job.Load(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeJob, err)
	}
	items, err := j.Resolve(job.Fallback{EnginePath: cfg.EnginePath, Units: cfg.Units})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeJob, fmt.Errorf("job %s: %w", path, err))
	}

	library := firstNonEmpty(opts.Library, j.Engine.Library, cfg.Library)
	database := firstNonEmpty(opts.Database, cfg.Database)
	ev := opts.evaluator(cmd, library, logger)
	logger.Info("batch started", "job", path, "requests", len(items))

	out := batchOutput{Job: j.Name, Items: make([]batchItem, 0, len(items))}
	for _, item := range items {
		res, evalErr := ev.Evaluate(item.Request)
		runID := recordRun(cmd.Context(), opts.RootOptions, database, "batch", item.Request, res, evalErr, logger)

		if evalErr != nil {
			out.Failed++
			out.Items = append(out.Items, batchItem{
				Name:   item.Name,
				Status: "failed",
				Error:  cliError(evalErr),
			})
			logger.Warn("request failed", "name", item.Name, "error", evalErr)
			if !opts.KeepGoing {
				break
			}
			continue
		}

		g := newGridOutput(item.Name, runID, item.Request, res)
		out.Ok++
		out.Items = append(out.Items, batchItem{Name: item.Name, Status: "ok", Grid: &g})
	}
	logger.Info("batch finished", "job", path, "ok", out.Ok, "failed", out.Failed)

	if out.Failed > 0 {
		if f.Format == "json" {
			_ = f.Error(ErrCodeBatch, fmt.Sprintf("%d of %d requests failed", out.Failed, len(items)), out)
		} else {
			_ = f.Success(out)
		}
		return &ExitError{
			Code:     ExitFailure,
			Message:  fmt.Sprintf("%d of %d requests failed", out.Failed, len(items)),
			Reported: true,
		}
	}
	return f.Success(out)
}
