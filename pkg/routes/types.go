package routes

// ComponentRef names an application component. The bridge never interprets
// it; it is handed back verbatim in match results.
type ComponentRef string

// RouteDefinition describes one top-level navigable page.
type RouteDefinition struct {
	// Path is the page's path pattern (e.g., "/users/:id").
	Path string `json:"path" yaml:"path"`

	// Component is the page component.
	Component ComponentRef `json:"component" yaml:"component"`

	// Tabs are the page's tab slots, in declaration order.
	Tabs []TabDefinition `json:"tabs,omitempty" yaml:"tabs,omitempty"`
}

// TabDefinition describes one tab slot within a page.
type TabDefinition struct {
	// Path is relative to the page path (e.g., "info").
	Path string `json:"path" yaml:"path"`

	// TabID identifies the tab element in the host framework.
	TabID string `json:"tabId" yaml:"tabId"`

	// Component is rendered into the tab when no sub-route applies.
	Component ComponentRef `json:"component" yaml:"component"`

	// Routes are optional sub-views of the tab.
	Routes []SubRouteDefinition `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// SubRouteDefinition is a leaf view nested under a tab.
type SubRouteDefinition struct {
	Path      string       `json:"path" yaml:"path"`
	Component ComponentRef `json:"component" yaml:"component"`
}

// ActiveTab identifies the tab selected by a match and the component to
// render inside it.
type ActiveTab struct {
	Path      string       `json:"path"`
	TabID     string       `json:"tabId"`
	Component ComponentRef `json:"component"`
}

// MatchResult is produced by a leaf action. It is a fresh value per
// navigation and is never retained by the tree.
type MatchResult struct {
	PagePath      string            `json:"pagePath"`
	PageComponent ComponentRef      `json:"pageComponent"`
	ActiveTab     *ActiveTab        `json:"activeTab,omitempty"`
	Params        map[string]string `json:"params"`
}

// Context is what the matching engine hands to an action.
type Context struct {
	// Path is the full location path being resolved.
	Path string

	// Hash is the location fragment, including the leading "#".
	Hash string

	// Query is the raw query string, without the leading "?".
	Query string

	// Params are the parameters accumulated from root to leaf.
	Params map[string]string
}

// Action builds the result for a matched leaf. Returning nil tells the
// engine to keep looking.
type Action func(ctx Context) *MatchResult

// MatchNode is a compiled node. Exactly one of Action and Children is set.
type MatchNode struct {
	Path     string
	Action   Action
	Children []*MatchNode
}

// IsLeaf reports whether the node terminates matching with an action.
func (n *MatchNode) IsLeaf() bool {
	return n.Action != nil
}
