package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/epandco/unthink/internal/output"
	"github.com/epandco/unthink/pkg/foundation"
	"github.com/epandco/unthink/pkg/foundation/servemux"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second
)

// Server is the stack's HTTP server.
type Server struct {
	rt    *Runtime
	mux   *http.ServeMux
	table servemux.RouteTable
	http  *http.Server
}

// New binds resources and the built-in routes on a fresh ServeMux.
// Resources are bound in order, so a catch-all resource belongs last.
func New(rt *Runtime, renderer foundation.Renderer, resources ...servemux.Resource) (*Server, error) {
	cfg := rt.Config
	mux := http.NewServeMux()

	backend := servemux.New(mux,
		servemux.WithRenderer(renderer),
		servemux.WithLogger(rt.Logger),
		servemux.WithBodyLimit(cfg.BodyLimit),
		servemux.WithTemplates(servemux.Templates{
			NotFound:     cfg.Templates.NotFound,
			Error:        cfg.Templates.Error,
			Unauthorized: cfg.Templates.Unauthorized,
			Fatal:        cfg.Templates.FatalError,
		}),
	)

	gen := servemux.NewGenerator(backend, foundation.WithLogger(rt.Logger))
	gen.Add(resources...)
	table, err := gen.Table()
	if err != nil {
		return nil, fmt.Errorf("building route table: %w", err)
	}
	if err := backend.Generate(table); err != nil {
		return nil, fmt.Errorf("binding routes: %w", err)
	}

	public, err := publicHandler(cfg)
	if err != nil {
		return nil, err
	}
	mux.Handle("GET "+PublicPrefix, public)
	mux.Handle("GET /metrics", rt.Metrics.Handler())

	s := &Server{rt: rt, mux: mux, table: table}
	s.http = &http.Server{
		Addr: net.JoinHostPort("", strconv.Itoa(cfg.ServerPort)),
		Handler: chain(mux,
			RequestIDMiddleware(),
			RecoveryMiddleware(rt.Logger),
			LoggingMiddleware(rt.Logger),
			MetricsMiddleware(rt.Metrics),
		),
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
	return s, nil
}

// Handler returns the server's root handler with global middleware applied.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Routes renders the bound route table.
func (s *Server) Routes() string {
	tbl := output.NewTable("Method", "Kind", "Path", "Resource")
	for _, row := range s.table.Rows() {
		tbl.Row(row...)
	}
	tbl.Row("GET", "static", PublicPrefix, "public")
	tbl.Row("GET", "metrics", "/metrics", "metrics")
	return tbl.String()
}

// Run serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully and closes the Mongo client.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener, without signal handling.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.rt.Logger
	cfg := s.rt.Config

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSEnabled() {
			logger.Info("server listening", "addr", ln.Addr().String(), "tls", true)
			err = s.http.ServeTLS(ln, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			logger.Info("server listening", "addr", ln.Addr().String())
			err = s.http.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	shutdownErr := s.http.Shutdown(shutdownCtx)
	if err := s.rt.Mongo.Close(shutdownCtx); err != nil {
		logger.Warn("closing mongodb", "err", err)
	}
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown: %w", shutdownErr)
	}
	logger.Info("server shutdown complete")
	return nil
}
