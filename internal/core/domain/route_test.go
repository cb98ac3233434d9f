package domain

import (
	"errors"
	"testing"
)

func TestRoute_Validate(t *testing.T) {
	tests := []struct {
		name    string
		route   Route
		wantErr bool
	}{
		{"valid", Route{ID: "user-1", URL: "https://example.com/x"}, false},
		{"valid with params", Route{ID: "user-2", URL: "https://example.com/x", Params: map[string]string{"q": "1"}}, false},
		{"missing id", Route{URL: "https://example.com/x"}, true},
		{"blank id", Route{ID: "   ", URL: "https://example.com/x"}, true},
		{"relative url", Route{ID: "user-3", URL: "/just/a/path"}, true},
		{"garbage url", Route{ID: "user-4", URL: "://nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrRouteValidation) {
				t.Errorf("expected ErrRouteValidation, got %v", err)
			}
		})
	}
}

func TestRoutingTable_Clone(t *testing.T) {
	orig := RoutingTable{
		"abc": {ID: "u1", URL: "https://example.com/a"},
	}
	clone := orig.Clone()
	clone["def"] = Route{ID: "u2", URL: "https://example.com/b"}

	if len(orig) != 1 {
		t.Errorf("clone mutation leaked into original: %d entries", len(orig))
	}
}

func TestRoutingTable_Invert(t *testing.T) {
	table := RoutingTable{
		"code-a": {ID: "u1", URL: "https://example.com/a"},
		"code-b": {ID: "u2", URL: "https://example.com/b"},
	}
	codes := table.Invert()
	if len(codes) != 2 {
		t.Fatalf("len = %d, want 2", len(codes))
	}
	if codes["u1"] != "code-a" || codes["u2"] != "code-b" {
		t.Errorf("inverted table wrong: %v", codes)
	}
}
