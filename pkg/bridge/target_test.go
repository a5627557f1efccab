package bridge

import (
	"errors"
	"testing"

	"github.com/vango-dev/navbridge/pkg/host"
	"github.com/vango-dev/navbridge/pkg/querystring"
	"github.com/vango-dev/navbridge/pkg/resolver"
	"github.com/vango-dev/navbridge/pkg/routes"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		raw  string
		want resolver.Location
	}{
		{"/a/t1", resolver.Location{Path: "/a/t1"}},
		{"a/t1", resolver.Location{Path: "/a/t1"}},
		{"/a?x=1&y=2", resolver.Location{Path: "/a", Query: "x=1&y=2"}},
		{"/a#top", resolver.Location{Path: "/a", Hash: "#top"}},
		{"/a#", resolver.Location{Path: "/a"}},
		{"http://example.com/b?q=1#h", resolver.Location{Path: "/b", Query: "q=1", Hash: "#h"}},
		{"?only=query", resolver.Location{Path: "/", Query: "only=query"}},
		{"/sp%20ace", resolver.Location{Path: "/sp%20ace"}},
		{"/users/100%", resolver.Location{Path: "/users/100%25"}},
		{"/a%2?x=%zz", resolver.Location{Path: "/a%252", Query: "x=%25zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTarget(tt.raw)
			if err != nil {
				t.Fatalf("ParseTarget() error = %v", err)
			}
			if got.Location != tt.want {
				t.Errorf("Location = %+v, want %+v", got.Location, tt.want)
			}
			if got.URL != tt.raw {
				t.Errorf("URL = %q, want %q", got.URL, tt.raw)
			}
		})
	}
}

func TestParseTargetMalformed(t *testing.T) {
	for _, raw := range []string{"http://[::1", "/a\x7f"} {
		if _, err := ParseTarget(raw); !errors.Is(err, ErrMalformedURL) {
			t.Errorf("ParseTarget(%q) error = %v, want ErrMalformedURL", raw, err)
		}
	}
}

func TestNewPayload(t *testing.T) {
	target, err := ParseTarget("/users/5?tab=info#bio")
	if err != nil {
		t.Fatal(err)
	}
	view := &host.View{Name: "main", Main: true}
	res := &routes.MatchResult{PagePath: "/users/:id", PageComponent: "User", Params: map[string]string{"id": "5"}}

	p := NewPayload(res, target, view)

	if p.Route != "/users/:id" || p.PagePath != "/users/:id" {
		t.Errorf("Route/PagePath = %q/%q, want /users/:id", p.Route, p.PagePath)
	}
	if p.Path != "/users/5" {
		t.Errorf("Path = %q, want /users/5", p.Path)
	}
	if p.Query.Get("tab") != "info" {
		t.Errorf("Query = %v, want tab=info", p.Query)
	}
	if p.Hash != "#bio" || p.URL != "/users/5?tab=info#bio" || p.View != view {
		t.Errorf("payload = %+v", p)
	}
	if p.ActiveTab != nil {
		t.Errorf("ActiveTab = %+v, want nil", p.ActiveTab)
	}
	if _, ok := any(p.Query).(querystring.Values); !ok {
		t.Error("Query should be querystring.Values")
	}
}
