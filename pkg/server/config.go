package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerConfig holds configuration for the bridge server.
type ServerConfig struct {
	// Address is the listen address.
	// Default: ":8080".
	Address string

	// MetricsPath is where Prometheus metrics are served. Empty disables the
	// endpoint.
	// Default: "/metrics".
	MetricsPath string

	// DropStale makes each websocket connection deliver only the result of
	// its latest intercepted navigation.
	DropStale bool

	// ReadTimeout is the maximum time to wait for a message from a client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming websocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// CheckOrigin validates websocket upgrade requests.
	// Default: allow all origins.
	CheckOrigin func(r *http.Request) bool

	// Registry receives the server's metrics and backs MetricsPath.
	// Default: a fresh prometheus.Registry.
	Registry *prometheus.Registry

	// Logger is the server logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         ":8080",
		MetricsPath:     "/metrics",
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		MaxMessageSize:  64 * 1024,
		ShutdownTimeout: 10 * time.Second,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
}

// withDefaults fills unset fields from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	return &out
}
