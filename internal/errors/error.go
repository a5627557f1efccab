package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryRouting    Category = "routing"
	CategoryNavigation Category = "navigation"
	CategoryCLI        Category = "cli"
)

// NavError is a structured error with a code, a location and a suggestion.
type NavError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, routing, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Where locates the problem: a file, a URL or a route table position
	// such as "routes[1].tabs[0]".
	Where string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NavError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Where != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Where)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NavError) Unwrap() error {
	return e.Wrapped
}

// WithWhere sets the location of the problem.
func (e *NavError) WithWhere(where string) *NavError {
	e.Where = where
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NavError) WithSuggestion(s string) *NavError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *NavError) Wrap(err error) *NavError {
	e.Wrapped = err
	return e
}

// New creates a NavError from a registered error code.
func New(code string) *NavError {
	template, ok := registry[code]
	if !ok {
		return &NavError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NavError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// FromError wraps a standard error in a NavError. A NavError anywhere in
// err's chain is returned as is.
func FromError(err error, code string) *NavError {
	if err == nil {
		return nil
	}
	var ne *NavError
	if stderrors.As(err, &ne) {
		return ne
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err's chain contains a NavError with code.
func HasCode(err error, code string) bool {
	var ne *NavError
	for err != nil {
		if !stderrors.As(err, &ne) {
			return false
		}
		if ne.Code == code {
			return true
		}
		err = ne.Wrapped
	}
	return false
}
