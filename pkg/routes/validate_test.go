package routes

import (
	"errors"
	"testing"
)

func TestValidateOK(t *testing.T) {
	if err := Validate(sampleDefs()); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		defs []RouteDefinition
		want ValidationErrorType
	}{
		{
			name: "empty page path",
			defs: []RouteDefinition{{Path: "", Component: "A"}},
			want: ErrorEmptyPath,
		},
		{
			name: "missing component",
			defs: []RouteDefinition{{Path: "/a"}},
			want: ErrorMissingComponent,
		},
		{
			name: "duplicate page path",
			defs: []RouteDefinition{
				{Path: "/a", Component: "A"},
				{Path: "/a", Component: "B"},
			},
			want: ErrorDuplicatePath,
		},
		{
			name: "duplicate tab id",
			defs: []RouteDefinition{{Path: "/a", Component: "A", Tabs: []TabDefinition{
				{Path: "t1", TabID: "x", Component: "T1"},
				{Path: "t2", TabID: "x", Component: "T2"},
			}}},
			want: ErrorDuplicateTabID,
		},
		{
			name: "sub-route without component",
			defs: []RouteDefinition{{Path: "/a", Component: "A", Tabs: []TabDefinition{
				{Path: "t1", TabID: "x", Component: "T1", Routes: []SubRouteDefinition{{Path: "s"}}},
			}}},
			want: ErrorMissingComponent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.defs)
			var multi *MultiValidationError
			if !errors.As(err, &multi) {
				t.Fatalf("Validate() = %v, want *MultiValidationError", err)
			}
			if multi.Errors[0].Type != tt.want {
				t.Errorf("type = %s, want %s", multi.Errors[0].Type, tt.want)
			}
		})
	}
}
