package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/axiomgfx-dili/internal/config"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

const defaultShutdownTimeout = 15 * time.Second

// Sidecar is a listener that lives and dies with the HTTP server, such as
// the gRPC health endpoint.
type Sidecar interface {
	Start() error
	Stop(ctx context.Context) error
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSidecar runs sc alongside the HTTP listener.
func WithSidecar(sc Sidecar) ServerOption {
	return func(s *Server) {
		if sc != nil {
			s.sidecars = append(s.sidecars, sc)
		}
	}
}

// Server owns the HTTP listener and its sidecars.
type Server struct {
	srv             *http.Server
	sidecars        []Sidecar
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// NewServer applies cfg's timeouts and body limit to handler.
func NewServer(cfg config.ServerConfig, handler http.Handler, opts ...ServerOption) *Server {
	if cfg.MaxBodySize > 0 {
		handler = http.MaxBytesHandler(handler, cfg.MaxBodySize)
	}
	s := &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
		logger:          logging.NewNopLogger(),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.Named("server")
	return s
}

// Handler returns the wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run binds the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to bind http listener").
			WithDetail(s.srv.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln and the sidecars until ctx is cancelled or one of them
// fails, then shuts everything down within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", logging.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	for _, sc := range s.sidecars {
		sc := sc
		g.Go(sc.Start)
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown stops the sidecars and drains in-flight HTTP requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	var first error
	for _, sc := range s.sidecars {
		if err := sc.Stop(ctx); err != nil && first == nil {
			first = err
		}
	}
	if err := s.srv.Shutdown(ctx); err != nil && first == nil {
		first = errors.Wrap(err, errors.ErrCodeInternal, "http server shutdown failed")
	}
	if first == nil {
		s.logger.Info("server stopped")
	}
	return first
}

//Personal.AI order the ending
