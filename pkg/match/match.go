// Package match implements ordered, hierarchical path matching over a
// compiled route tree.
//
// Patterns are "/"-separated. A ":name" segment captures one path segment,
// a "*name" segment captures the rest of the path, and anything else must
// match literally, ignoring case. A leading "/" is optional, so tab patterns such as "t1"
// are relative to their parent.
//
// Matching is depth-first in declaration order. A branch consumes its
// pattern as a prefix of the remaining path and hands the remainder to its
// children; a leaf must consume the whole remainder. The first leaf whose
// action returns a non-nil result wins.
package match

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/vango-dev/navbridge/pkg/routes"
)

// ErrNoMatch is returned when no leaf of the tree matches a location.
var ErrNoMatch = errors.New("no matching route")

// Location is the part of a URL the engine matches against.
type Location struct {
	// Path is the URL path (e.g., "/a/t1").
	Path string

	// Hash is the fragment including the leading "#", or "".
	Hash string

	// Query is the raw query string without the leading "?".
	Query string
}

// Engine matches locations against a compiled tree. The zero value is
// ready to use.
type Engine struct{}

// Match resolves loc against tree. It returns ErrNoMatch when no leaf
// matches, or the context's error if ctx is done before matching completes.
func (Engine) Match(ctx context.Context, tree []*routes.MatchNode, loc Location) (*routes.MatchResult, error) {
	m := &matcher{ctx: ctx, loc: loc}
	res, err := m.match(tree, splitPath(loc.Path), nil)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNoMatch
	}
	return res, nil
}

// Match resolves loc against tree with a zero Engine.
func Match(ctx context.Context, tree []*routes.MatchNode, loc Location) (*routes.MatchResult, error) {
	return Engine{}.Match(ctx, tree, loc)
}

type matcher struct {
	ctx context.Context
	loc Location
}

func (m *matcher) match(nodes []*routes.MatchNode, segments []string, params map[string]string) (*routes.MatchResult, error) {
	for _, node := range nodes {
		if err := m.ctx.Err(); err != nil {
			return nil, err
		}

		consumed, captured, ok := matchPrefix(splitPath(node.Path), segments)
		if !ok {
			continue
		}
		rest := segments[consumed:]
		merged := mergeParams(params, captured)

		if node.IsLeaf() {
			if len(rest) != 0 {
				continue
			}
			res := node.Action(routes.Context{
				Path:   m.loc.Path,
				Hash:   m.loc.Hash,
				Query:  m.loc.Query,
				Params: merged,
			})
			if res != nil {
				return res, nil
			}
			continue
		}

		res, err := m.match(node.Children, rest, merged)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// matchPrefix matches pattern against the head of segments. It returns the
// number of segments consumed and the captured parameters.
func matchPrefix(pattern, segments []string) (int, map[string]string, bool) {
	var captured map[string]string
	capture := func(name, value string) {
		if captured == nil {
			captured = make(map[string]string)
		}
		captured[name] = value
	}

	for i, pat := range pattern {
		if strings.HasPrefix(pat, "*") {
			// Catch-all consumes the rest of the path, possibly nothing.
			rest := segments[i:]
			decoded := make([]string, len(rest))
			for j, seg := range rest {
				decoded[j] = decodeSegment(seg)
			}
			capture(pat[1:], strings.Join(decoded, "/"))
			return len(segments), captured, true
		}
		if i >= len(segments) {
			return 0, nil, false
		}
		seg := segments[i]
		if strings.HasPrefix(pat, ":") {
			capture(pat[1:], decodeSegment(seg))
			continue
		}
		// Literal segments compare case-insensitively.
		if !strings.EqualFold(pat, seg) && !strings.EqualFold(pat, decodeSegment(seg)) {
			return 0, nil, false
		}
	}
	return len(pattern), captured, true
}

func mergeParams(parent, captured map[string]string) map[string]string {
	out := make(map[string]string, len(parent)+len(captured))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range captured {
		out[k] = v
	}
	return out
}

// decodeSegment percent-decodes a segment, keeping it verbatim when the
// escape is invalid.
func decodeSegment(seg string) string {
	decoded, err := url.PathUnescape(seg)
	if err != nil {
		return seg
	}
	return decoded
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
