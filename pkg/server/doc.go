// Package server exposes a navigation bridge over HTTP and websockets.
//
// A remote host (for example a webview shell) connects to /ws and sends one
// message per navigation intent. Each connection owns an in-memory host and
// its own bridge, so decisions and route changes are computed exactly as
// they would be in-process:
//
//	→ {"type":"navigate","id":1,"view":{...},"intent":{"url":"/users/7"}}
//	← {"type":"decision","id":1,"decision":"intercept","action":"PUSH","proceed":false}
//	← {"type":"route","id":1,"payload":{...}}
//
// A route or error message always follows the decision message with the
// same id. Unmatched URLs produce {"type":"error","code":"E200",...}.
//
// Plain HTTP endpoints:
//
//	GET /healthz        liveness
//	GET /routes         compiled route tree
//	GET /resolve?url=   one-shot resolution
//	GET /metrics        Prometheus metrics (path configurable)
package server
