package bridge

import (
	"testing"

	"github.com/vango-dev/navbridge/pkg/host"
)

func TestShouldIntercept(t *testing.T) {
	open := func() *host.View {
		return &host.View{
			AllowPageChange: true,
			History:         []string{"/home", "/history-only"},
			PagesCache:      map[string]any{"/home": true, "/cache-only": true},
		}
	}
	blocked := open()
	blocked.AllowPageChange = false

	tests := []struct {
		name   string
		view   *host.View
		intent host.Intent
		want   Decision
	}{
		{"page change blocked", blocked, host.Intent{URL: "/a"}, Allow},
		{"nil view", nil, host.Intent{URL: "/a"}, Allow},
		{"url and page element", open(), host.Intent{URL: "/a", PageElement: "el"}, Allow},
		{"no url", open(), host.Intent{}, Allow},
		{"no url with page element", open(), host.Intent{PageElement: "el"}, Allow},
		{"placeholder", open(), host.Intent{URL: "#"}, Allow},
		{"history and cache", open(), host.Intent{URL: "/home"}, Allow},
		{"history only", open(), host.Intent{URL: "/history-only"}, Intercept},
		{"cache only", open(), host.Intent{URL: "/cache-only"}, Intercept},
		{"new url", open(), host.Intent{URL: "/a"}, Intercept},
		{"new url back", open(), host.Intent{URL: "/a", IsBack: true}, Intercept},
		{"hash url", open(), host.Intent{URL: "#tab"}, Intercept},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldIntercept(tt.view, tt.intent); got != tt.want {
				t.Errorf("ShouldIntercept() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActionFor(t *testing.T) {
	if got := ActionFor(host.Intent{URL: "/a", IsBack: true}); got != Pop {
		t.Errorf("ActionFor(back) = %q, want POP", got)
	}
	if got := ActionFor(host.Intent{URL: "/a"}); got != Push {
		t.Errorf("ActionFor(forward) = %q, want PUSH", got)
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{Allow, "allow"},
		{Intercept, "intercept"},
		{Decision(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}
