package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func newTestRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func TestPrometheusMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(WithRegistry(reg))
	r := newTestRouter(c.Middleware())

	for _, path := range []string{"/items/1", "/items/2", "/fail"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/items/{id}", "GET", "200")); got != 2 {
		t.Errorf("requests_total(/items/{id}) = %v, want 2", got)
	}
	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/fail", "GET", "500")); got != 1 {
		t.Errorf("requests_total(/fail) = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "navbridge_http_request_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("duration histogram not registered")
	}
}

func TestPrometheusMiddleware_Unmatched(t *testing.T) {
	c := NewCollector(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	r := newTestRouter(c.Middleware())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Errorf("requests_total(unmatched) = %v, want 1", got)
	}
}

func TestCollector_WebSocketMetrics(t *testing.T) {
	c := NewCollector(WithRegistry(prometheus.NewRegistry()))

	c.ConnectionOpened()
	c.ConnectionOpened()
	c.ConnectionClosed()
	c.RecordWebSocketError("read")

	if got := metricGaugeValue(t, c.wsConnections); got != 1 {
		t.Errorf("websocket_connections = %v, want 1", got)
	}
	if got := metricCounterValue(t, c.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total(read) = %v, want 1", got)
	}
}

// recordingTracer wraps a noop tracer and remembers span starts.
type recordingTracer struct {
	trace.Tracer
	names []string
	attrs []attribute.KeyValue
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.names = append(t.names, name)
	cfg := trace.NewSpanStartConfig(opts...)
	t.attrs = append(t.attrs, cfg.Attributes()...)
	return t.Tracer.Start(ctx, name, opts...)
}

func TestOpenTelemetryMiddleware_StartsSpan(t *testing.T) {
	tracer := &recordingTracer{Tracer: noop.NewTracerProvider().Tracer("test")}
	r := newTestRouter(OpenTelemetry(
		WithTracer(tracer),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(tracer.names) != 1 || tracer.names[0] != "HTTP GET" {
		t.Fatalf("span names = %v, want [HTTP GET]", tracer.names)
	}
	found := false
	for _, kv := range tracer.attrs {
		if kv.Key == "test.attr" && kv.Value.AsString() == "ok" {
			found = true
		}
	}
	if !found {
		t.Errorf("custom attribute missing from %v", tracer.attrs)
	}
}

func TestOpenTelemetryMiddleware_Filter(t *testing.T) {
	tracer := &recordingTracer{Tracer: noop.NewTracerProvider().Tracer("test")}
	r := newTestRouter(OpenTelemetry(
		WithTracer(tracer),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/fail" }),
	))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	if len(tracer.names) != 0 {
		t.Errorf("filtered request traced: %v", tracer.names)
	}
}
