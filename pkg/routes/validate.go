package routes

import (
	"fmt"
	"strings"
)

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorEmptyPath indicates a page, tab or sub-route without a path.
	ErrorEmptyPath ValidationErrorType = "EMPTY_PATH"

	// ErrorMissingComponent indicates a definition without a component.
	ErrorMissingComponent ValidationErrorType = "MISSING_COMPONENT"

	// ErrorDuplicateTabID indicates two tabs of one page share a tab id.
	ErrorDuplicateTabID ValidationErrorType = "DUPLICATE_TAB_ID"

	// ErrorDuplicatePath indicates two siblings declare the same path. The
	// second can never be reached by a first-match-wins matcher.
	ErrorDuplicatePath ValidationErrorType = "DUPLICATE_PATH"
)

// ValidationError describes one problem in a route table.
type ValidationError struct {
	Type    ValidationErrorType
	Message string

	// Where locates the definition, e.g. "routes[1].tabs[0]".
	Where string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Where)
}

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the shape of a route table. Compile never calls it; the
// compiler trusts its input.
func Validate(defs []RouteDefinition) error {
	var errs []ValidationError
	add := func(t ValidationErrorType, where, format string, args ...any) {
		errs = append(errs, ValidationError{Type: t, Message: fmt.Sprintf(format, args...), Where: where})
	}

	pagePaths := make(map[string]string)
	for i, route := range defs {
		where := fmt.Sprintf("routes[%d]", i)
		if strings.TrimSpace(route.Path) == "" {
			add(ErrorEmptyPath, where, "page has no path")
		} else if prev, ok := pagePaths[route.Path]; ok {
			add(ErrorDuplicatePath, where, "path %q already declared by %s", route.Path, prev)
		} else {
			pagePaths[route.Path] = where
		}
		if route.Component == "" {
			add(ErrorMissingComponent, where, "page %q has no component", route.Path)
		}

		tabIDs := make(map[string]string)
		tabPaths := make(map[string]string)
		for j, tab := range route.Tabs {
			tw := fmt.Sprintf("%s.tabs[%d]", where, j)
			if strings.TrimSpace(tab.Path) == "" {
				add(ErrorEmptyPath, tw, "tab has no path")
			} else if prev, ok := tabPaths[tab.Path]; ok {
				add(ErrorDuplicatePath, tw, "tab path %q already declared by %s", tab.Path, prev)
			} else {
				tabPaths[tab.Path] = tw
			}
			if prev, ok := tabIDs[tab.TabID]; ok {
				add(ErrorDuplicateTabID, tw, "tab id %q already used by %s", tab.TabID, prev)
			} else {
				tabIDs[tab.TabID] = tw
			}
			if tab.Component == "" && len(tab.Routes) == 0 {
				add(ErrorMissingComponent, tw, "tab %q has no component", tab.Path)
			}

			subPaths := make(map[string]string)
			for k, sub := range tab.Routes {
				sw := fmt.Sprintf("%s.routes[%d]", tw, k)
				if strings.TrimSpace(sub.Path) == "" {
					add(ErrorEmptyPath, sw, "sub-route has no path")
				} else if prev, ok := subPaths[sub.Path]; ok {
					add(ErrorDuplicatePath, sw, "sub-route path %q already declared by %s", sub.Path, prev)
				} else {
					subPaths[sub.Path] = sw
				}
				if sub.Component == "" {
					add(ErrorMissingComponent, sw, "sub-route %q has no component", sub.Path)
				}
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &MultiValidationError{Errors: errs}
}
