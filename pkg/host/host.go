// Package host models the part of a mobile-UI host framework the bridge
// couples to: its views, its navigation intents and the configuration
// surface where a pre-navigation hook is installed.
package host

import (
	"slices"
	"sync"

	"github.com/vango-dev/navbridge/pkg/routes"
)

// View is the host's view state at the moment a navigation fires.
type View struct {
	// Name identifies the view (e.g., "main", "left-panel").
	Name string `json:"name,omitempty"`

	// Main marks the application's main view.
	Main bool `json:"main,omitempty"`

	// AllowPageChange is false while the view blocks navigation,
	// e.g. during a running page transition.
	AllowPageChange bool `json:"allowPageChange"`

	// History holds the view's visited URLs, oldest first.
	History []string `json:"history,omitempty"`

	// PagesCache maps URLs to pages the host keeps resident.
	PagesCache map[string]any `json:"pagesCache,omitempty"`
}

// InHistory reports whether url is in the view's history.
func (v *View) InHistory(url string) bool {
	return slices.Contains(v.History, url)
}

// Cached reports whether url has a resident page.
func (v *View) Cached(url string) bool {
	_, ok := v.PagesCache[url]
	return ok
}

// Intent is a request from the host to change the visible page.
type Intent struct {
	// URL is the navigation target; "" means unset.
	URL string `json:"url,omitempty"`

	// PageElement is set when the host already has the page to show.
	PageElement any `json:"pageElement,omitempty"`

	// IsBack marks backward navigation.
	IsBack bool `json:"isBack,omitempty"`
}

// PrerouteFunc is the host's pre-navigation hook. Returning true lets the
// host's default navigation proceed.
type PrerouteFunc func(view *View, intent Intent) bool

// Params is the host's configuration surface.
type Params struct {
	// Routes are the route definitions registered with the host.
	Routes []routes.RouteDefinition

	// RouterRemoveTimeout makes the host remove pages on navigation
	// instead of after a delay.
	RouterRemoveTimeout bool

	// Preroute runs before every navigation.
	Preroute PrerouteFunc
}

// Framework is a host framework instance.
type Framework interface {
	Params() *Params
	Views() []*View
}

// MainView returns the view flagged Main. When several are flagged the last
// one wins; nil when none is.
func MainView(views []*View) *View {
	var main *View
	for _, v := range views {
		if v != nil && v.Main {
			main = v
		}
	}
	return main
}

// App is an in-memory Framework. It stands in for a real host in the CLI
// simulator, the websocket server and tests.
type App struct {
	mu     sync.Mutex
	params Params
	views  []*View
}

// NewApp creates an App with the given views.
func NewApp(views ...*View) *App {
	return &App{views: views}
}

// Params implements Framework.
func (a *App) Params() *Params {
	return &a.params
}

// Views implements Framework.
func (a *App) Views() []*View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.views)
}

// AddView registers a view.
func (a *App) AddView(v *View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.views = append(a.views, v)
}

// SetViews replaces the registered views.
func (a *App) SetViews(views ...*View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.views = views
}

// Navigate fires the installed pre-navigation hook the way the host would
// and reports whether default navigation proceeds. With no hook installed
// navigation always proceeds.
func (a *App) Navigate(view *View, intent Intent) bool {
	hook := a.params.Preroute
	if hook == nil {
		return true
	}
	return hook(view, intent)
}
