// Package querystring parses URL search strings into the loosely typed map
// delivered with every route change: a key seen once maps to a string, a
// repeated key maps to a []string in the order the values appeared.
package querystring

import (
	"net/url"
	"strings"
)

// Values maps keys to either a string or a []string.
type Values map[string]any

// Parse parses a search string. A leading "?" is ignored, keys without "="
// map to "", "+" decodes to a space and invalid escapes are kept verbatim.
func Parse(search string) Values {
	out := make(Values)
	search = strings.TrimPrefix(strings.TrimSpace(search), "?")
	if search == "" {
		return out
	}

	for _, pair := range strings.Split(search, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		value = unescape(value)

		switch prev := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{prev, value}
		case []string:
			out[key] = append(prev, value)
		}
	}
	return out
}

// Get returns the first value for key, or "".
func (v Values) Get(key string) string {
	switch val := v[key].(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// All returns every value for key.
func (v Values) All(key string) []string {
	switch val := v[key].(type) {
	case string:
		return []string{val}
	case []string:
		return append([]string(nil), val...)
	}
	return nil
}

func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return decoded
}
