// Package routes compiles declarative page, tab and sub-route definitions
// into the ordered node tree consumed by the path-matching engine.
//
// A page without tabs compiles to a leaf. A page with tabs compiles to a
// branch whose children are its tabs; a tab with sub-routes is itself a
// branch. Every leaf carries an Action that builds the MatchResult for
// that page, tab or sub-route:
//
//	defs := []routes.RouteDefinition{
//	    {Path: "/", Component: "Home"},
//	    {Path: "/a", Component: "A", Tabs: []routes.TabDefinition{
//	        {Path: "t1", TabID: "tab1", Component: "T1"},
//	    }},
//	}
//	tree := routes.Compile(defs)
//
// The tree is built once and never mutated afterwards. Sibling order is
// declaration order, which matters because the matcher is first-match-wins.
package routes
