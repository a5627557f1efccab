package bridge

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vango-dev/navbridge/pkg/host"
	"github.com/vango-dev/navbridge/pkg/querystring"
	"github.com/vango-dev/navbridge/pkg/resolver"
	"github.com/vango-dev/navbridge/pkg/routes"
)

// syntheticBase anchors origin-relative navigation URLs before parsing.
const syntheticBase = "http://framework7/"

var baseURL = mustParse(syntheticBase)

func mustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// Target is a navigation URL split into the parts the resolver and the
// payload need.
type Target struct {
	// URL is the URL exactly as the host supplied it.
	URL string

	// Location is the path, hash and raw query parsed from URL.
	Location resolver.Location
}

// ParseTarget parses a navigation URL relative to a synthetic origin, so
// both "/a?x=1" and "http://host/a" yield the path "/a". A "%" that does not
// start an escape is taken literally, as browsers do. It returns an error
// wrapping ErrMalformedURL when the URL cannot be parsed.
func ParseTarget(raw string) (Target, error) {
	u, err := baseURL.Parse(raw)
	if err != nil {
		if escaped, ok := escapeStrayPercent(raw); ok {
			u, err = baseURL.Parse(escaped)
		}
	}
	if err != nil {
		return Target{}, fmt.Errorf("%w %q: %v", ErrMalformedURL, raw, err)
	}

	loc := resolver.Location{
		Path:  u.EscapedPath(),
		Query: u.RawQuery,
	}
	if loc.Path == "" {
		loc.Path = "/"
	}
	if frag := u.EscapedFragment(); frag != "" {
		loc.Hash = "#" + frag
	}
	return Target{URL: raw, Location: loc}, nil
}

// escapeStrayPercent rewrites every "%" not followed by two hex digits as
// "%25". ok is false when there was nothing to rewrite.
func escapeStrayPercent(raw string) (string, bool) {
	var b strings.Builder
	changed := false
	for i := 0; i < len(raw); i++ {
		if raw[i] == '%' && (i+2 >= len(raw) || !isHex(raw[i+1]) || !isHex(raw[i+2])) {
			b.WriteString("%25")
			changed = true
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String(), changed
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// NewPayload enriches a match with the navigation context.
func NewPayload(res *routes.MatchResult, target Target, view *host.View) *Payload {
	return &Payload{
		PagePath:      res.PagePath,
		PageComponent: res.PageComponent,
		ActiveTab:     res.ActiveTab,
		Params:        res.Params,
		View:          view,
		Query:         querystring.Parse(target.Location.Query),
		Hash:          target.Location.Hash,
		URL:           target.URL,
		Route:         res.PagePath,
		Path:          target.Location.Path,
	}
}
