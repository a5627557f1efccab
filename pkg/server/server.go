package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/navbridge/pkg/bridge"
	"github.com/vango-dev/navbridge/pkg/middleware"
	"github.com/vango-dev/navbridge/pkg/resolver"
	"github.com/vango-dev/navbridge/pkg/routes"
)

// Server serves one route table to HTTP and websocket clients.
type Server struct {
	config *ServerConfig
	defs   []routes.RouteDefinition

	// resolver backs the stateless HTTP endpoints.
	resolver *resolver.Resolver

	registry *prometheus.Registry
	metrics  *bridge.Metrics
	http     *middleware.Collector

	upgrader websocket.Upgrader
	router   chi.Router
	logger   *slog.Logger

	// ctx parents every connection's bridge; canceled on shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	conns      map[*conn]struct{}
	httpServer *http.Server
}

// New validates defs and creates a server for them.
func New(defs []routes.RouteDefinition, config *ServerConfig) (*Server, error) {
	if err := routes.Validate(defs); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	reg := config.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		config:   config,
		defs:     defs,
		resolver: resolver.New(routes.Compile(defs)),
		registry: reg,
		metrics:  bridge.NewMetrics(reg),
		http:     middleware.NewCollector(middleware.WithRegistry(reg)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
		conns:  make(map[*conn]struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry())
	r.Use(s.http.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Get("/routes", s.handleRoutes)
	r.Get("/resolve", s.handleResolve)
	r.Get("/ws", s.handleWebSocket)
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the server's http.Handler for mounting in other routers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the registry holding the server's metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// ListenAndServe listens on the configured address and serves until ctx is
// canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every websocket connection and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.closeWith(websocket.CloseGoingAway, "server shutting down")
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// ConnectionCount returns the number of open websocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) track(c *conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	s.http.ConnectionOpened()
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.http.ConnectionClosed()
}
