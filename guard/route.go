package guard

import (
	"errors"
	"fmt"

	"github.com/navgate/navgate/session"
)

// ErrDuplicateRoute is returned by [NewRouteTable] for a repeated path.
var ErrDuplicateRoute = errors.New("guard: duplicate route path")

// ErrInvalidRole is returned by [NewRouteTable] for a role outside the
// closed enumeration.
var ErrInvalidRole = errors.New("guard: invalid role in route metadata")

// Route attaches a required-role set to a navigable path. An empty or nil
// Roles slice means the route needs authentication handling only as the
// caller wires it; the role guard will allow anyone.
type Route struct {
	Path  string
	Roles []session.Role
}

// RouteTable is the validated set of routes with role metadata. Building
// the table is where role metadata is checked — at construction time, not
// at guard-invocation time — so a typo'd role is a startup failure instead
// of a silent runtime allow.
type RouteTable struct {
	routes map[string]Route
}

// NewRouteTable validates and indexes the given routes.
func NewRouteTable(routes []Route) (*RouteTable, error) {
	indexed := make(map[string]Route, len(routes))
	for _, r := range routes {
		if r.Path == "" {
			return nil, fmt.Errorf("guard: route with empty path")
		}
		if _, exists := indexed[r.Path]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, r.Path)
		}
		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("%w: %s requires %q", ErrInvalidRole, r.Path, string(role))
			}
		}
		indexed[r.Path] = r
	}
	return &RouteTable{routes: indexed}, nil
}

// Route returns the metadata registered for path.
func (t *RouteTable) Route(path string) (Route, bool) {
	r, ok := t.routes[path]
	return r, ok
}

// Len returns the number of registered routes.
func (t *RouteTable) Len() int {
	return len(t.routes)
}

// GuardFor binds a role guard to the required set registered for path.
// A path absent from the table gets an empty required set, which allows
// anyone — unknown routes are not this table's business to block.
func (t *RouteTable) GuardFor(store *session.Store, opts Options, path string) Func {
	r := t.routes[path]
	return Roles(store, opts, r.Roles...)
}
