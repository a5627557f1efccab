package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Invalid route table",
		Detail:   "The route table could not be parsed. Check the JSON or YAML syntax and the field names (path, component, tabs, tabId, routes).",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Route table not found",
		Detail:   "The route table file could not be read.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Unsupported route table format",
		Detail:   "Route tables must be JSON (.json) or YAML (.yaml, .yml).",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Route table failed validation",
		Detail:   "One or more pages, tabs or sub-routes are malformed.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Route table download failed",
		Detail:   "The route table object could not be fetched from S3.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid log settings",
		Detail:   "log.level must be one of debug, info, warn, error and log.format one of text, json.",
	},

	// ============================================
	// Routing Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryRouting,
		Message:  "No route matches URL",
		Detail:   "The URL did not match any page, tab or sub-route in the route table.",
	},
	"E201": {
		Category: CategoryNavigation,
		Message:  "Malformed navigation URL",
		Detail:   "The URL of a navigation intent could not be parsed.",
	},
	"E202": {
		Category: CategoryNavigation,
		Message:  "Invalid bridge message",
		Detail:   "Websocket messages must be JSON objects of type \"navigate\" carrying an intent.",
	},

	// ============================================
	// CLI Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Invalid intent script",
		Detail:   "The simulate command expects a JSON array of {view, intent} steps.",
	},
	"E301": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The bridge server stopped with an error.",
	},
}
