package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/job"
	"github.com/roach88/propgrid/internal/store"
)

// shutdownTimeout bounds how long Serve waits for in-flight HTTP requests.
const shutdownTimeout = 5 * time.Second

// Server serves property grid requests over websockets.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	ev       *grid.Evaluator
	store    *store.Store
	logger   *slog.Logger
	now      func() time.Time
	fallback job.Fallback

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
	hubs   sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithStore records every evaluation in st.
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source for recorded runs.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFallback sets the engine path and units used by evaluate requests
// that leave them unset.
func WithFallback(fb job.Fallback) Option {
	return func(s *Server) { s.fallback = fb }
}

// WithUpgrader replaces the websocket upgrader.
func WithUpgrader(u websocket.Upgrader) Option {
	return func(s *Server) { s.upgrader = u }
}

// New creates a Server listening on addr and evaluating with ev.
func New(addr string, ev *grid.Evaluator, opts ...Option) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		ev:     ev,
		logger: slog.Default(),
		now:    time.Now,
		conns:  make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	if !s.track(conn) {
		conn.Close()
		return
	}
	defer func() {
		s.untrack(conn)
		conn.Close()
	}()

	s.logger.Info("websocket connected", "remote", conn.RemoteAddr().String())
	newHub(s, conn).run()
	s.logger.Info("websocket disconnected", "remote", conn.RemoteAddr().String())
}

// track registers conn and its hub. It reports false once the server is
// shutting down.
func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	s.hubs.Add(1)
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.hubs.Done()
}

// closeConns closes every open websocket so their hubs stop reading, and
// refuses new ones.
func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for conn := range s.conns {
		conn.Close()
	}
}

// waitHubs blocks until every hub has finished its in-flight request or ctx
// expires.
func (s *Server) waitHubs(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.hubs.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("websocket connections still busy: %w", ctx.Err())
	}
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down.
// Returns nil after a shutdown triggered by ctx.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(s.closeConns)

	s.logger.Info("server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Shutdown runs its hooks asynchronously and does not track
		// hijacked connections.
		s.closeConns()
		if werr := s.waitHubs(shutdownCtx); err == nil {
			err = werr
		}
		if err != nil {
			return err
		}
		s.logger.Info("server stopped")
		return nil
	}
}
