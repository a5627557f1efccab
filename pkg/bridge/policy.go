package bridge

import "github.com/vango-dev/navbridge/pkg/host"

// Decision is the bridge's verdict on a navigation intent.
type Decision int

const (
	// Allow leaves the navigation to the host.
	Allow Decision = iota

	// Intercept suppresses the host's default transition; the bridge
	// resolves the URL and delivers the route change itself.
	Intercept
)

// String returns "allow" or "intercept".
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Intercept:
		return "intercept"
	default:
		return "unknown"
	}
}

// Action classifies an intercepted navigation.
type Action string

const (
	Push Action = "PUSH"
	Pop  Action = "POP"
)

// placeholderURL is what hosts put on links that navigate nowhere.
const placeholderURL = "#"

// ShouldIntercept applies the interception policy. The first matching rule
// wins:
//
//  1. the view blocks page changes
//  2. the intent carries both a URL and a page element, has no URL, or
//     targets the "#" placeholder
//  3. the URL is both in the view's history and in its page cache
//
// all allow; anything else is intercepted.
func ShouldIntercept(view *host.View, intent host.Intent) Decision {
	if view == nil || !view.AllowPageChange {
		return Allow
	}
	if (intent.URL != "" && intent.PageElement != nil) || intent.URL == "" || intent.URL == placeholderURL {
		return Allow
	}
	if view.InHistory(intent.URL) && view.Cached(intent.URL) {
		return Allow
	}
	return Intercept
}

// ActionFor classifies an intent as POP when it navigates back and PUSH
// otherwise.
func ActionFor(intent host.Intent) Action {
	if intent.IsBack {
		return Pop
	}
	return Push
}
