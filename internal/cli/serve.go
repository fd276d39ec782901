package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/job"
	"github.com/roach88/propgrid/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	Library  string
	Database string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve property grid calls over a websocket",
		Long: `Start the websocket server at /ws.

Clients send "call" messages carrying the ten positional host arguments,
or "evaluate" messages carrying one job request. Each message gets one
"result" or "error" reply, in the order the messages arrived. Evaluations
from all connections run one at a time.

Example:
  propgrid serve --addr :9000 --db runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :9000)")
	cmd.Flags().StringVar(&opts.Library, "library", "", "engine module file name (default from config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database (default from config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	cfg, logger, err := opts.settings(cmd)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	st, err := openStore(firstNonEmpty(opts.Database, cfg.Database), logger)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err)
	}
	defer closeStore(st, logger)

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	addr := firstNonEmpty(opts.Addr, cfg.Addr)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeServe, fmt.Errorf("listen on %s: %w", addr, err))
	}

	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithClock(opts.now),
		server.WithFallback(job.Fallback{EnginePath: cfg.EnginePath, Units: cfg.Units}),
	}
	if st != nil {
		srvOpts = append(srvOpts, server.WithStore(st))
	}
	srv := server.New(addr, opts.serveEvaluator(cmd, firstNonEmpty(opts.Library, cfg.Library), logger), srvOpts...)

	f.VerboseLog("Listening on ws://%s/ws", ln.Addr())
	if err := srv.ServeListener(ctx, ln); err != nil {
		return f.Fail(ExitFailure, ErrCodeServe, err)
	}
	return nil
}

// serveEvaluator builds the evaluator for the server. Debug traces go to
// stderr so they never mix with command output.
func (o *ServeOptions) serveEvaluator(cmd *cobra.Command, library string, logger *slog.Logger) *grid.Evaluator {
	return grid.NewEvaluator(o.loader(),
		grid.WithLibrary(library),
		grid.WithLogger(logger),
		grid.WithTrace(cmd.ErrOrStderr()),
	)
}
