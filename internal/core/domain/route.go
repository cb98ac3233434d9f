package domain

import (
	"net/url"
	"strings"
)

// CodeLength is the length of a public redirect code in characters.
const CodeLength = 16

// ID is the opaque identifier an administrator uses for a participant.
type ID string

// Code is the random token that stands in for an [ID] in public URLs.
//
// A given ID maps to exactly one Code for as long as the ID keeps
// appearing in uploaded tables; codes are never reassigned.
type Code string

// Route is a single routing table entry: where a code redirects to,
// plus optional query parameters appended on redirect.
//
// Routes are immutable once stored in a table generation.
//
// @design DS-0101
type Route struct {
	ID     ID                `json:"id"`
	URL    string            `json:"url"`
	Params map[string]string `json:"params,omitempty"`
}

// Validate checks that the route can participate in redirect composition.
func (r *Route) Validate() error {
	if strings.TrimSpace(string(r.ID)) == "" {
		return ErrRouteValidation.WithDetails("id is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return ErrRouteValidation.WithDetails("url does not parse: " + err.Error())
	}
	if u.Scheme == "" || u.Host == "" {
		return ErrRouteValidation.WithDetails("url must be absolute: " + r.URL)
	}
	return nil
}

// RoutingTable maps a public code to its route. The live instance is an
// immutable snapshot that is swapped wholesale, never mutated in place.
type RoutingTable map[Code]Route

// CodeTable maps an administrator-facing ID to its assigned code.
type CodeTable map[ID]Code

// Clone returns a shallow copy of the table. Route values are immutable,
// so sharing them between generations is safe.
func (t RoutingTable) Clone() RoutingTable {
	out := make(RoutingTable, len(t))
	for code, route := range t {
		out[code] = route
	}
	return out
}

// Clone returns a copy of the code table.
func (t CodeTable) Clone() CodeTable {
	out := make(CodeTable, len(t))
	for id, code := range t {
		out[id] = code
	}
	return out
}

// Invert derives a code table from a routing table. Used on startup when
// a routing table snapshot exists but no code table snapshot does.
func (t RoutingTable) Invert() CodeTable {
	out := make(CodeTable, len(t))
	for code, route := range t {
		out[route.ID] = code
	}
	return out
}
