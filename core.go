package navgate

import (
	"context"
	"net/http"

	"github.com/navgate/navgate/api"
	"github.com/navgate/navgate/guard"
	"github.com/navgate/navgate/intercept"
	"github.com/navgate/navgate/internal/diag"
	"github.com/navgate/navgate/internal/metrics"
	"github.com/navgate/navgate/session"
)

// Core is the assembled session and authorization surface. All methods
// are safe for concurrent use after [Builder.Build].
type Core struct {
	config    Config
	store     *session.Store
	api       *api.Client
	http      *http.Client
	transport *intercept.Transport
	routes    *guard.RouteTable
	guardOpts guard.Options
	nav       Navigator
	diag      *diag.Dispatcher
	metrics   *metrics.Metrics
}

// Sessions returns the session store for direct reads, subscriptions, and
// explicit mutation.
func (c *Core) Sessions() *session.Store {
	return c.store
}

// API returns the identity client. It runs outside the recovering
// transport.
func (c *Core) API() *api.Client {
	return c.api
}

// HTTPClient returns the recovering client for the host's data calls:
// every 401 it sees triggers one refresh and one replay.
func (c *Core) HTTPClient() *http.Client {
	return c.http
}

// Transport returns the recovering round tripper for hosts that compose
// their own http.Client around it.
func (c *Core) Transport() http.RoundTripper {
	return c.transport
}

// Routes returns the validated route table.
func (c *Core) Routes() *guard.RouteTable {
	return c.routes
}

// AuthGuard returns the authentication guard. It re-verifies the session
// against the identity endpoint on every invocation.
func (c *Core) AuthGuard() GuardFunc {
	return guard.Auth(c.store, c.guardOpts)
}

// RoleGuard returns a role guard over the given required set. It reads
// only the cached session and is safe as a synchronous route predicate.
func (c *Core) RoleGuard(required ...Role) GuardFunc {
	return guard.Roles(c.store, c.guardOpts, required...)
}

// GuardFor returns the role guard bound to the required set registered
// for path. Paths absent from the table allow anyone.
func (c *Core) GuardFor(path string) GuardFunc {
	return c.routes.GuardFor(c.store, c.guardOpts, path)
}

// Login authenticates against the backend. When the backend returns the
// user record it is installed into the session store immediately;
// otherwise the store stays untouched and the next authenticated
// navigation warms it.
func (c *Core) Login(ctx context.Context, req LoginRequest) (*User, error) {
	u, err := c.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if u != nil {
		c.store.Set(ctx, u)
	}
	return u, nil
}

// Register creates an account. The session store is not touched; the new
// account signs in through [Core.Login].
func (c *Core) Register(ctx context.Context, reg Registration) (*User, error) {
	return c.api.Register(ctx, reg)
}

// Logout ends the session client-side: the store is cleared and the
// application is sent to the login route. The server holds no session
// state worth invalidating beyond the cookie's own expiry.
func (c *Core) Logout(ctx context.Context) {
	c.store.Clear(ctx)
	if c.nav != nil {
		c.nav.Navigate(c.config.Paths.Login)
	}
}

// MetricsSnapshot returns a point-in-time copy of all counters and the
// latency histogram. Exporters under metrics/export poll this.
func (c *Core) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// DiagDropped reports diagnostic events discarded under backpressure.
func (c *Core) DiagDropped() uint64 {
	return c.diag.Dropped()
}

// Close stops the diagnostic dispatcher, draining buffered events. The
// Core remains usable; further diagnostics are discarded.
func (c *Core) Close() {
	c.diag.Close()
}
