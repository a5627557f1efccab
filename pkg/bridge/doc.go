// Package bridge connects a host framework's pre-navigation hook to a
// compiled route tree.
//
// For every navigation intent the bridge first runs the hook that was
// installed before it, then its interception policy (see ShouldIntercept).
// Intents it allows are left to the host. Intents it intercepts suppress the
// host's default transition; the bridge parses the URL, resolves it against
// the tree in the background and hands a Payload to the registered
// RouteChangeHandler:
//
//	app := host.NewApp(&host.View{Name: "main", Main: true, AllowPageChange: true})
//	b, err := bridge.New(defs, app)
//	if err != nil {
//	    return err
//	}
//	b.SetRouteChangeHandler(func(ctx context.Context, p *bridge.Payload, err error) {
//	    if err != nil {
//	        // *resolver.NotFoundError for unmatched URLs
//	        return
//	    }
//	    render(p.PageComponent, p.ActiveTab, p.Params)
//	})
//
// Resolutions are not sequenced: two intents in quick succession resolve
// concurrently and may complete in either order. WithDropStale keeps only
// the latest.
package bridge
