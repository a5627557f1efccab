// Package middleware provides HTTP middleware for the bridge server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware
//
// Both are plain func(http.Handler) http.Handler values and mount on a chi
// router with Use:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry())
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//
// Labels use the matched chi route pattern (e.g., "/resolve") rather than the
// raw request path, which keeps label cardinality bounded.
//
// # Prometheus Metrics
//
//   - navbridge_http_requests_total: requests by route, method and status
//   - navbridge_http_request_duration_seconds: request duration by route
//   - navbridge_websocket_connections: open websocket connections
//   - navbridge_websocket_errors_total: websocket errors by type
//
// The websocket collectors are updated through a Collector created with
// NewCollector.
package middleware
