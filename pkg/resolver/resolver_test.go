package resolver

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/navbridge/pkg/match"
	"github.com/vango-dev/navbridge/pkg/routes"
)

func testTree() []*routes.MatchNode {
	return routes.Compile([]routes.RouteDefinition{
		{Path: "/a", Component: "A", Tabs: []routes.TabDefinition{
			{Path: "t1", TabID: "tab1", Component: "T1"},
		}},
	})
}

func TestResolve(t *testing.T) {
	r := New(testTree())

	res, err := r.Resolve(context.Background(), Location{Path: "/a/t1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.PagePath != "/a" || res.PageComponent != "A" {
		t.Errorf("page = %q/%q, want /a/A", res.PagePath, res.PageComponent)
	}
	if res.ActiveTab == nil || *res.ActiveTab != (routes.ActiveTab{Path: "t1", TabID: "tab1", Component: "T1"}) {
		t.Errorf("ActiveTab = %+v", res.ActiveTab)
	}
	if len(res.Params) != 0 {
		t.Errorf("Params = %v, want empty", res.Params)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := New(testTree(), WithTracer(noop.NewTracerProvider().Tracer("test")))

	_, err := r.Resolve(context.Background(), Location{Path: "/nope"})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.Path != "/nope" {
		t.Errorf("Path = %q, want /nope", nf.Path)
	}
	if !errors.Is(err, match.ErrNoMatch) {
		t.Error("errors.Is(err, match.ErrNoMatch) = false, want true")
	}
}

type stubMatcher struct {
	res *routes.MatchResult
	err error
	got Location
}

func (s *stubMatcher) Match(_ context.Context, _ []*routes.MatchNode, loc Location) (*routes.MatchResult, error) {
	s.got = loc
	return s.res, s.err
}

func TestResolveDelegates(t *testing.T) {
	want := &routes.MatchResult{PagePath: "/x"}
	stub := &stubMatcher{res: want}
	r := New(nil, WithMatcher(stub))

	loc := Location{Path: "/x", Hash: "#h", Query: "q=1"}
	got, err := r.Resolve(context.Background(), loc)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != want {
		t.Errorf("Resolve() = %p, want %p", got, want)
	}
	if stub.got != loc {
		t.Errorf("matcher got %+v, want %+v", stub.got, loc)
	}
}

func TestResolvePassesOtherErrorsUnchanged(t *testing.T) {
	boom := errors.New("boom")
	r := New(nil, WithMatcher(&stubMatcher{err: boom}))

	_, err := r.Resolve(context.Background(), Location{Path: "/x"})
	if err != boom {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
