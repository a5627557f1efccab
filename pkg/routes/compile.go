package routes

// Compile converts route definitions into match nodes, one node per
// declared page, tab and sub-route, preserving declaration order.
func Compile(defs []RouteDefinition) []*MatchNode {
	nodes := make([]*MatchNode, 0, len(defs))
	for i := range defs {
		route := defs[i]
		if len(route.Tabs) == 0 {
			nodes = append(nodes, &MatchNode{
				Path: route.Path,
				Action: func(ctx Context) *MatchResult {
					return &MatchResult{
						PagePath:      route.Path,
						PageComponent: route.Component,
						Params:        copyParams(ctx.Params),
					}
				},
			})
			continue
		}
		nodes = append(nodes, &MatchNode{
			Path:     route.Path,
			Children: compileTabs(route),
		})
	}
	return nodes
}

// compileTabs builds the children of a page that declares tabs.
// A tab with zero sub-routes is a leaf, never an empty branch.
func compileTabs(route RouteDefinition) []*MatchNode {
	nodes := make([]*MatchNode, 0, len(route.Tabs))
	for i := range route.Tabs {
		tab := route.Tabs[i]
		if len(tab.Routes) == 0 {
			active := ActiveTab{Path: tab.Path, TabID: tab.TabID, Component: tab.Component}
			nodes = append(nodes, &MatchNode{
				Path: tab.Path,
				Action: func(ctx Context) *MatchResult {
					at := active
					return &MatchResult{
						PagePath:      route.Path,
						PageComponent: route.Component,
						ActiveTab:     &at,
						Params:        copyParams(ctx.Params),
					}
				},
			})
			continue
		}
		nodes = append(nodes, &MatchNode{
			Path:     tab.Path,
			Children: compileSubRoutes(route, tab),
		})
	}
	return nodes
}

// compileSubRoutes builds the leaves of a tab that declares sub-routes.
// The active tab keeps the tab's path and id but renders the sub-route's
// component.
func compileSubRoutes(route RouteDefinition, tab TabDefinition) []*MatchNode {
	nodes := make([]*MatchNode, 0, len(tab.Routes))
	for _, sub := range tab.Routes {
		active := ActiveTab{Path: tab.Path, TabID: tab.TabID, Component: sub.Component}
		nodes = append(nodes, &MatchNode{
			Path: sub.Path,
			Action: func(ctx Context) *MatchResult {
				at := active
				return &MatchResult{
					PagePath:      route.Path,
					PageComponent: route.Component,
					ActiveTab:     &at,
					Params:        copyParams(ctx.Params),
				}
			},
		})
	}
	return nodes
}

func copyParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Walk visits nodes depth-first in declaration order. depth is 0 for the
// top-level nodes.
func Walk(nodes []*MatchNode, fn func(node *MatchNode, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []*MatchNode, depth int, fn func(node *MatchNode, depth int)) {
	for _, n := range nodes {
		fn(n, depth)
		if len(n.Children) > 0 {
			walk(n.Children, depth+1, fn)
		}
	}
}
