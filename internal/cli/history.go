package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/propgrid/internal/store"
)

// HistoryOptions holds flags shared by the history subcommands.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Status   string
}

// runSummary is one line of history list output.
type runSummary struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Property  string    `json:"property"`
	Inputs    string    `json:"inputs"`
	Fluid     string    `json:"fluid"`
	Status    string    `json:"status"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
}

type historyList []runSummary

func (h historyList) String() string {
	if len(h) == 0 {
		return "no runs recorded"
	}
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tCREATED\tSOURCE\tPROPERTY\tINPUTS\tFLUID\tSHAPE\tSTATUS")
	for _, r := range h {
		status := r.Status
		if r.ErrorKind != "" {
			status += " (" + r.ErrorKind + ")"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%dx%d\t%s\n",
			r.Seq, r.ID, r.CreatedAt.Format(time.RFC3339), r.Source,
			r.Property, r.Inputs, r.Fluid, r.Rows, r.Cols, status)
	}
	tw.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// runDetail is the output of history show.
type runDetail struct {
	runSummary
	ErrorMessage string      `json:"error_message,omitempty"`
	Grid         *gridOutput `json:"grid,omitempty"`
}

func (d runDetail) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s (seq %d, %s, %s)\n", d.ID, d.Seq, d.Source, d.CreatedAt.Format(time.RFC3339))
	if d.Grid != nil {
		g := *d.Grid
		g.RunID = ""
		sb.WriteString(g.String())
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s  %s  %s  (%dx%d)\n", d.Property, d.Inputs, d.Fluid, d.Rows, d.Cols)
	fmt.Fprintf(&sb, "failed [%s]: %s", d.ErrorKind, d.ErrorMessage)
	return sb.String()
}

func summarize(run store.Run) runSummary {
	rows, cols := run.Request.Shape()
	return runSummary{
		ID:        run.ID,
		Seq:       run.Seq,
		CreatedAt: run.CreatedAt,
		Source:    run.Source,
		Property:  run.Request.Property,
		Inputs:    run.Request.Inputs,
		Fluid:     run.Request.Fluid,
		Status:    string(run.Status),
		ErrorKind: run.ErrorKind,
		Rows:      rows,
		Cols:      cols,
	}
}

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
		Long: `Inspect the runs recorded by eval, batch and serve.

Example:
  propgrid history list --db runs.db --limit 10
  propgrid history show 0190b2e4-7c1a-7d4e-9a0b-3f2c1d5e6f70 --db runs.db`,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "SQLite database (default from config)")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List recorded runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(opts, cmd)
		},
	}
	list.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")
	list.Flags().StringVar(&opts.Status, "status", "", "only runs with this status (ok|failed)")

	show := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one recorded run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(opts, cmd, args[0])
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

// historyStore opens the configured database. History needs one, so a
// missing path is a command error.
func (o *HistoryOptions) historyStore(cmd *cobra.Command, f *OutputFormatter) (*store.Store, func(), error) {
	cfg, logger, err := o.settings(cmd)
	if err != nil {
		return nil, nil, f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	path := firstNonEmpty(o.Database, cfg.Database)
	if path == "" {
		return nil, nil, f.Fail(ExitCommandError, ErrCodeStore,
			errors.New("no database: pass --db or set [store] database in the config file"))
	}
	st, err := openStore(path, logger)
	if err != nil {
		return nil, nil, f.Fail(ExitFailure, ErrCodeStore, err)
	}
	return st, func() { closeStore(st, logger) }, nil
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var status store.Status
	switch opts.Status {
	case "":
	case string(store.StatusOK), string(store.StatusFailed):
		status = store.Status(opts.Status)
	default:
		return f.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Errorf("invalid status %q: must be ok or failed", opts.Status))
	}

	st, done, err := opts.historyStore(cmd, f)
	if err != nil {
		return err
	}
	defer done()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit, status)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err)
	}

	out := make(historyList, 0, len(runs))
	for _, run := range runs {
		out = append(out, summarize(run))
	}
	return f.Success(out)
}

func runHistoryShow(opts *HistoryOptions, cmd *cobra.Command, id string) error {
	f := opts.formatter(cmd)

	st, done, err := opts.historyStore(cmd, f)
	if err != nil {
		return err
	}
	defer done()

	run, err := st.ReadRun(cmd.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err)
	}
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err)
	}

	out := runDetail{runSummary: summarize(run), ErrorMessage: run.ErrorMessage}
	if run.Result != nil {
		g := newGridOutput("", run.ID, run.Request, run.Result)
		out.Grid = &g
	}
	return f.Success(out)
}
