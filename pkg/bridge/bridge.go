package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/navbridge/pkg/host"
	"github.com/vango-dev/navbridge/pkg/querystring"
	"github.com/vango-dev/navbridge/pkg/resolver"
	"github.com/vango-dev/navbridge/pkg/routes"
)

// ErrMalformedURL is returned by Handle when an intercepted URL cannot be
// parsed.
var ErrMalformedURL = errors.New("malformed navigation url")

// Payload is delivered to the route change handler for every resolved
// navigation.
type Payload struct {
	PagePath      string              `json:"pagePath"`
	PageComponent routes.ComponentRef `json:"pageComponent"`
	ActiveTab     *routes.ActiveTab   `json:"activeTab,omitempty"`
	Params        map[string]string   `json:"params"`

	// View is the host's main view, nil when no view is flagged main.
	View  *host.View         `json:"view"`
	Query querystring.Values `json:"query"`
	Hash  string             `json:"hash"`

	// URL is the navigation target exactly as the host supplied it.
	URL string `json:"url"`

	// Route is the matched page's path pattern.
	Route string `json:"route"`

	// Path is the parsed URL path.
	Path string `json:"path"`
}

// RouteChangeHandler receives the outcome of every intercepted navigation:
// a payload on success, or an error (a *resolver.NotFoundError for an
// unmatched URL) on failure. ctx is the resolution's context; SeqFromContext
// returns the sequence number Handle reported for the intent.
type RouteChangeHandler func(ctx context.Context, payload *Payload, err error)

type seqKey struct{}

// SeqFromContext returns the intent sequence number carried by a handler's
// context.
func SeqFromContext(ctx context.Context) (uint64, bool) {
	seq, ok := ctx.Value(seqKey{}).(uint64)
	return seq, ok
}

// Outcome is the result of handling one navigation intent.
type Outcome struct {
	Decision Decision

	// Action is set when the intent was intercepted.
	Action Action

	// Proceed is the value returned to the host: true lets its default
	// navigation run.
	Proceed bool

	// Seq numbers intercepted intents, starting at 1.
	Seq uint64
}

// Bridge intercepts host navigation and resolves it against a compiled
// route tree.
type Bridge struct {
	fw       host.Framework
	resolver *resolver.Resolver
	prev     host.PrerouteFunc
	handler  atomic.Pointer[RouteChangeHandler]

	logger    *slog.Logger
	metrics   *Metrics
	dropStale bool

	seq    atomic.Uint64
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Bridge.
type Option func(*options)

type options struct {
	prev        host.PrerouteFunc
	hasPrev     bool
	logger      *slog.Logger
	metrics     *Metrics
	dropStale   bool
	ctx         context.Context
	resolverOpt []resolver.Option
}

// WithPreviousHook sets the hook the bridge composes with, instead of the
// one found on the host's params. A nil hook disables composition.
func WithPreviousHook(prev host.PrerouteFunc) Option {
	return func(o *options) {
		o.prev = prev
		o.hasPrev = true
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the collectors. Defaults to DefaultMetrics().
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDropStale drops resolutions that complete after a newer intent was
// intercepted, so only the latest navigation reaches the handler.
func WithDropStale() Option {
	return func(o *options) {
		o.dropStale = true
	}
}

// WithContext sets the parent context of every resolution. Canceling it
// aborts in-flight resolutions.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// WithResolverOptions passes options to the underlying resolver.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(o *options) {
		o.resolverOpt = append(o.resolverOpt, opts...)
	}
}

// New compiles defs and installs the bridge into fw. It registers defs as
// the host's routes, forces remove-on-navigate and replaces the host's
// pre-navigation hook with one that runs the previous hook first.
func New(defs []routes.RouteDefinition, fw host.Framework, opts ...Option) (*Bridge, error) {
	if fw == nil {
		return nil, fmt.Errorf("bridge: nil host framework")
	}
	params := fw.Params()
	if params == nil {
		return nil, fmt.Errorf("bridge: host framework has no params")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasPrev {
		o.prev = params.Preroute
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.metrics == nil {
		o.metrics = DefaultMetrics()
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}

	b := &Bridge{
		fw:        fw,
		resolver:  resolver.New(routes.Compile(defs), o.resolverOpt...),
		prev:      o.prev,
		logger:    o.logger,
		metrics:   o.metrics,
		dropStale: o.dropStale,
	}
	b.ctx, b.cancel = context.WithCancel(o.ctx)

	params.Routes = defs
	params.RouterRemoveTimeout = true
	params.Preroute = b.Preroute

	return b, nil
}

// Tree returns the compiled route tree.
func (b *Bridge) Tree() []*routes.MatchNode {
	return b.resolver.Tree()
}

// SetRouteChangeHandler registers the route change consumer, replacing any
// previous one. In-flight resolutions deliver to the handler registered
// when they complete.
func (b *Bridge) SetRouteChangeHandler(h RouteChangeHandler) {
	if h == nil {
		b.handler.Store(nil)
		return
	}
	b.handler.Store(&h)
}

// Preroute is the hook installed on the host. Errors from Handle are
// logged and navigation is left to the host.
func (b *Bridge) Preroute(view *host.View, intent host.Intent) bool {
	out, err := b.Handle(view, intent)
	if err != nil {
		b.logger.Error("navigation intent rejected", "url", intent.URL, "error", err)
		return true
	}
	return out.Proceed
}

// Handle runs the previous hook and the interception policy for one intent.
// On Intercept it starts an asynchronous resolution and returns at once.
// An error is returned, and nothing resolved, when the URL cannot be parsed.
func (b *Bridge) Handle(view *host.View, intent host.Intent) (Outcome, error) {
	if b.prev != nil && !b.prev(view, intent) {
		b.metrics.intentsTotal.WithLabelValues("vetoed").Inc()
		return Outcome{Decision: Allow, Proceed: false}, nil
	}

	decision := ShouldIntercept(view, intent)
	b.metrics.intentsTotal.WithLabelValues(decision.String()).Inc()
	if decision == Allow {
		// A view that blocks page changes already vetoed the navigation.
		return Outcome{Decision: Allow, Proceed: view != nil && view.AllowPageChange}, nil
	}

	action := ActionFor(intent)
	target, err := ParseTarget(intent.URL)
	if err != nil {
		return Outcome{}, err
	}

	seq := b.seq.Add(1)
	b.logger.Debug("navigation intercepted", "url", intent.URL, "action", string(action), "seq", seq)
	b.changeRoute(seq, target)

	return Outcome{Decision: Intercept, Action: action, Proceed: false, Seq: seq}, nil
}

// changeRoute resolves target in the background and delivers the result.
func (b *Bridge) changeRoute(seq uint64, target Target) {
	ctx := context.WithValue(b.ctx, seqKey{}, seq)

	b.wg.Add(1)
	b.metrics.inflight.Inc()
	go func() {
		defer b.wg.Done()
		defer b.metrics.inflight.Dec()

		start := time.Now()
		res, err := b.resolver.Resolve(ctx, target.Location)
		b.metrics.resolutionDuration.Observe(time.Since(start).Seconds())

		if b.dropStale && seq != b.seq.Load() {
			b.metrics.resolutionsTotal.WithLabelValues(outcomeStale).Inc()
			b.logger.Debug("stale resolution dropped", "url", target.URL, "seq", seq)
			return
		}

		h := b.handler.Load()
		if err != nil {
			outcome := outcomeError
			var nf *resolver.NotFoundError
			if errors.As(err, &nf) {
				outcome = outcomeNotFound
			}
			b.metrics.resolutionsTotal.WithLabelValues(outcome).Inc()
			b.logger.Warn("route resolution failed", "url", target.URL, "error", err)
			if h != nil {
				(*h)(ctx, nil, err)
			}
			return
		}

		if h == nil {
			b.metrics.resolutionsTotal.WithLabelValues(outcomeDropped).Inc()
			return
		}
		b.metrics.resolutionsTotal.WithLabelValues(outcomeDelivered).Inc()
		(*h)(ctx, NewPayload(res, target, host.MainView(b.fw.Views())), nil)
	}()
}

// Wait blocks until every in-flight resolution has finished.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

// Close cancels in-flight resolutions and waits for them to finish.
func (b *Bridge) Close() {
	b.cancel()
	b.wg.Wait()
}
