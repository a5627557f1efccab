// Package errors provides structured, actionable errors for navbridge.
//
// Each error carries a code (e.g., "E101") that maps to a registered
// template holding a short message, a longer explanation and a category:
//   - config: route table files and server settings
//   - routing: route resolution and validation
//   - navigation: intents coming from the host
//   - cli: command-line usage
//
// # Usage
//
//	err := errors.New("E101").
//	    WithWhere("routes.yaml").
//	    WithSuggestion("Check the file path passed to --routes").
//	    Wrap(cause)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR E101: Route table not found
//	//
//	//   routes.yaml
//	//
//	//   The route table file could not be read.
//	//
//	//   Hint: Check the file path passed to --routes
package errors
