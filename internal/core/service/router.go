package service

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/linkmesh-go/internal/core/domain"
	"github.com/yndnr/linkmesh-go/internal/storage/snapshot"
	"github.com/yndnr/linkmesh-go/pkg/token"
)

// RedirectParam is the query parameter appended to every composed
// redirect target, carrying the resolved code for the destination's
// own attribution.
const RedirectParam = "externalUserId"

// maxCodeAttempts bounds collision retries during code generation.
const maxCodeAttempts = 100

// SnapshotStore defines the persistence interface the router needs.
// *snapshot.Store satisfies it.
//
// @design DS-0103
type SnapshotStore interface {
	// Write durably persists a new snapshot of the given kind.
	Write(table any, kind snapshot.Kind) (string, error)

	// LoadLatest decodes the most recent snapshot of the given kind.
	// ok is false when no snapshot of that kind exists.
	LoadLatest(kind snapshot.Kind, target any) (time.Time, bool, error)
}

// Entry is one uploaded routing entry: the destination URL plus
// optional query parameters appended on redirect.
//
// @design DS-0103
type Entry struct {
	URL    string            `json:"url"`
	Params map[string]string `json:"params,omitempty"`
}

// Entries is an admin table upload, keyed by participant ID.
type Entries map[domain.ID]Entry

// Router is the routing table manager.
//
// Reads take a snapshot of the live routing table under a shared lock
// held only for the pointer read. Admin writes serialize on a separate
// exclusive lock with non-blocking acquisition: a second concurrent
// writer fails fast with [domain.ErrTableBusy] instead of queuing.
// Within a write, persistence completes before the in-memory swap is
// visible to readers.
//
// @req RQ-0103
// @design DS-0103
type Router struct {
	store   SnapshotStore
	logger  *slog.Logger
	baseURL string
	codeLen int

	// writeMu admits at most one admin write at a time (TryLock).
	writeMu sync.Mutex

	// mu guards the two table pointers below. Writers hold it only
	// for the instant of the swap, never across I/O.
	mu     sync.RWMutex
	routes domain.RoutingTable
	codes  domain.CodeTable
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the logger for the router.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithBaseURL sets the public base URL used to compose redirect links.
func WithBaseURL(base string) RouterOption {
	return func(r *Router) {
		r.baseURL = strings.TrimRight(base, "/")
	}
}

// WithCodeLength overrides the generated code length.
func WithCodeLength(n int) RouterOption {
	return func(r *Router) {
		r.codeLen = n
	}
}

// NewRouter creates a router and loads the latest persisted tables.
//
// The routing table and the code table are loaded independently;
// either or both may be absent, defaulting to empty. When a routing
// table exists but no code table does, the code table is rebuilt by
// inverting the routing table so existing links stay stable.
//
// @req RQ-0103
func NewRouter(store SnapshotStore, opts ...RouterOption) (*Router, error) {
	r := &Router{
		store:   store,
		logger:  slog.Default(),
		codeLen: domain.CodeLength,
	}
	for _, opt := range opts {
		opt(r)
	}

	routes := make(domain.RoutingTable)
	routesTS, routesOK, err := store.LoadLatest(snapshot.KindRoutes, &routes)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	codes := make(domain.CodeTable)
	codesTS, codesOK, err := store.LoadLatest(snapshot.KindCodes, &codes)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	if !codesOK && routesOK {
		codes = routes.Invert()
		r.logger.Warn("code table snapshot missing, rebuilt from routing table",
			"entries", len(codes),
		)
	}

	r.routes = routes
	r.codes = codes
	r.logger.Info("routing tables loaded",
		"routes", len(routes),
		"routes_snapshot", routesTS,
		"codes", len(codes),
		"codes_snapshot", codesTS,
	)
	return r, nil
}

// Redirect resolves a code to its composed redirect target URL.
//
// The stored destination URL is combined with the route's configured
// parameters and the resolved code as query parameters. This path
// never blocks on an admin write beyond the pointer read.
//
// @req RQ-0103
func (r *Router) Redirect(code domain.Code) (string, error) {
	r.mu.RLock()
	table := r.routes
	r.mu.RUnlock()

	route, ok := table[code]
	if !ok {
		return "", domain.ErrCodeNotFound
	}

	u, err := url.Parse(route.URL)
	if err != nil {
		return "", domain.ErrInternalServer.WithCause(err)
	}
	q := u.Query()
	for k, v := range route.Params {
		q.Set(k, v)
	}
	q.Set(RedirectParam, string(code))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PutRoutingTable replaces the routing table wholesale.
//
// Codes are assigned stably: an ID that already has a code keeps it;
// new IDs get a fresh random code. Both tables are persisted before
// the in-memory swap; on persistence failure the live table is left
// unchanged.
//
// @req RQ-0103
func (r *Router) PutRoutingTable(entries Entries) error {
	return r.update(entries, false)
}

// PatchRoutingTable merges entries into a copy of the current routing
// table. Entries not mentioned in the patch are retained.
//
// @req RQ-0103
func (r *Router) PatchRoutingTable(entries Entries) error {
	return r.update(entries, true)
}

func (r *Router) update(entries Entries, merge bool) error {
	if !r.writeMu.TryLock() {
		return domain.ErrTableBusy
	}
	defer r.writeMu.Unlock()

	routes := make([]domain.Route, 0, len(entries))
	for id, e := range entries {
		route := domain.Route{ID: id, URL: e.URL, Params: e.Params}
		if err := route.Validate(); err != nil {
			return err
		}
		routes = append(routes, route)
	}

	// writeMu is held, so r.codes cannot change under us.
	newCodes := r.codes.Clone()
	used := make(map[domain.Code]struct{}, len(newCodes))
	for _, code := range newCodes {
		used[code] = struct{}{}
	}
	for _, route := range routes {
		if _, ok := newCodes[route.ID]; ok {
			continue
		}
		code, err := r.newCode(used)
		if err != nil {
			return err
		}
		newCodes[route.ID] = code
		used[code] = struct{}{}
	}

	var newRoutes domain.RoutingTable
	if merge {
		newRoutes = r.currentRoutes().Clone()
	} else {
		newRoutes = make(domain.RoutingTable, len(routes))
	}
	for _, route := range routes {
		newRoutes[newCodes[route.ID]] = route
	}

	// Persist before swap. Readers keep the old table until both
	// snapshots are durable.
	if _, err := r.store.Write(newCodes, snapshot.KindCodes); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if _, err := r.store.Write(newRoutes, snapshot.KindRoutes); err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	r.mu.Lock()
	r.routes = newRoutes
	r.codes = newCodes
	r.mu.Unlock()

	r.logger.Info("routing table updated",
		"merge", merge,
		"entries", len(entries),
		"routes", len(newRoutes),
	)
	return nil
}

func (r *Router) newCode(used map[domain.Code]struct{}) (domain.Code, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		raw, err := token.GenerateCodeWithLength(r.codeLen)
		if err != nil {
			return "", domain.ErrInternalServer.WithCause(err)
		}
		code := domain.Code(raw)
		if _, taken := used[code]; !taken {
			return code, nil
		}
	}
	return "", domain.ErrInternalServer.WithDetails(
		fmt.Sprintf("could not find a free code in %d attempts", maxCodeAttempts),
	)
}

// Links returns the public redirect URL for every known ID, composed
// from the configured base URL. IDs whose assigned code is absent from
// the live routing table are filtered out.
//
// @req RQ-0103
func (r *Router) Links() map[domain.ID]string {
	r.mu.RLock()
	routes := r.routes
	codes := r.codes
	r.mu.RUnlock()

	out := make(map[domain.ID]string, len(codes))
	for id, code := range codes {
		if _, live := routes[code]; !live {
			continue
		}
		out[id] = r.baseURL + "/api?code=" + url.QueryEscape(string(code))
	}
	return out
}

// Codes returns a copy of the current ID to code assignments.
//
// @req RQ-0103
func (r *Router) Codes() domain.CodeTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.codes.Clone()
}

// Size returns the number of routes in the live routing table.
func (r *Router) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

func (r *Router) currentRoutes() domain.RoutingTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.routes
}
