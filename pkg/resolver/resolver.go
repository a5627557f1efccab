// Package resolver is the typed seam between the navigation bridge and the
// path-matching engine. It adds no matching semantics of its own.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/navbridge/pkg/match"
	"github.com/vango-dev/navbridge/pkg/routes"
)

// Location is the parsed target of a navigation.
type Location = match.Location

// Default tracer name for resolution spans.
const defaultTracerName = "navbridge"

// Matcher matches a location against a compiled tree.
type Matcher interface {
	Match(ctx context.Context, tree []*routes.MatchNode, loc Location) (*routes.MatchResult, error)
}

// NotFoundError reports that no route matches a location.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route matches %q", e.Path)
}

// Unwrap returns match.ErrNoMatch so errors.Is works against the sentinel.
func (e *NotFoundError) Unwrap() error {
	return match.ErrNoMatch
}

// Resolver resolves locations against one compiled tree.
type Resolver struct {
	tree    []*routes.MatchNode
	matcher Matcher
	tracer  trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMatcher replaces the default match.Engine.
func WithMatcher(m Matcher) Option {
	return func(r *Resolver) {
		r.matcher = m
	}
}

// WithTracer sets the tracer used for resolution spans. Defaults to the
// global provider's "navbridge" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// New creates a resolver for tree.
func New(tree []*routes.MatchNode, opts ...Option) *Resolver {
	r := &Resolver{
		tree:    tree,
		matcher: match.Engine{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(defaultTracerName)
	}
	return r
}

// Tree returns the compiled tree the resolver matches against.
func (r *Resolver) Tree() []*routes.MatchNode {
	return r.tree
}

// Resolve matches loc against the tree. An unmatched location yields a
// *NotFoundError; any other matcher error is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, loc Location) (*routes.MatchResult, error) {
	ctx, span := r.tracer.Start(ctx, "navbridge.resolve",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("navbridge.path", loc.Path)),
	)
	defer span.End()

	res, err := r.matcher.Match(ctx, r.tree, loc)
	if err != nil {
		if errors.Is(err, match.ErrNoMatch) {
			err = &NotFoundError{Path: loc.Path}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("navbridge.page", res.PagePath))
	span.SetStatus(codes.Ok, "")
	return res, nil
}
