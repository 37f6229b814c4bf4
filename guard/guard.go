package guard

import (
	"context"

	"github.com/navgate/navgate/internal/diag"
	"github.com/navgate/navgate/internal/metrics"
	"github.com/navgate/navgate/session"
)

// Default redirect targets honored by the host router.
const (
	DefaultLoginPath = "/auth/login"
	DefaultHomePath  = "/"
)

// Decision is the outcome of one guard invocation. It is computed per
// navigation and never persisted.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Allow is the passing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny refuses the navigation and names the route the router must go to
// instead.
func Deny(redirect string) Decision {
	return Decision{Redirect: redirect}
}

// Func is a guard predicate. The router calls it before committing a
// navigation and honors the returned decision. If the router abandons the
// navigation while an asynchronous guard is in flight it simply discards
// the result; guards mutate nothing beyond what the session store already
// serializes internally.
type Func func(ctx context.Context) Decision

// Options carries the redirect targets and observability hooks shared by
// all guards. The zero value uses the default paths with no diagnostics.
type Options struct {
	LoginPath string
	HomePath  string
	Diag      *diag.Dispatcher
	Metrics   *metrics.Metrics
}

func (o Options) loginPath() string {
	if o.LoginPath == "" {
		return DefaultLoginPath
	}
	return o.LoginPath
}

func (o Options) homePath() string {
	if o.HomePath == "" {
		return DefaultHomePath
	}
	return o.HomePath
}

// Auth returns the authentication guard. Every invocation re-verifies the
// session against the remote identity endpoint via [session.Store.Fetch]:
// session lifetimes are short and freshness is worth the extra request. A
// present user allows the navigation; an absent user or a fetch failure
// denies and redirects to the login route.
func Auth(store *session.Store, opts Options) Func {
	return func(ctx context.Context) Decision {
		u, err := store.Fetch(ctx)
		if err != nil {
			opts.Metrics.Inc(metrics.MetricGuardDenyLogin)
			opts.Diag.Emit(ctx, diag.Event{
				Type:     diag.TypeGuardDenied,
				Path:     opts.loginPath(),
				Error:    err.Error(),
				Metadata: map[string]string{"guard": "auth"},
			})
			return Deny(opts.loginPath())
		}
		if u == nil {
			opts.Metrics.Inc(metrics.MetricGuardDenyLogin)
			return Deny(opts.loginPath())
		}

		opts.Metrics.Inc(metrics.MetricGuardAllow)
		return Allow()
	}
}

// Roles returns the role guard for a required role set. It reads only the
// cached session — a prior authentication guard (or navigation) is assumed
// to have warmed it — so it can run as a pure, synchronous route
// predicate.
//
// Decision table: an empty required set allows anyone; no user denies to
// the login route; a user whose role is in the set is allowed; a user
// whose role is not is denied to the home route, since they are
// authenticated and merely under-privileged.
func Roles(store *session.Store, opts Options, required ...session.Role) Func {
	return func(ctx context.Context) Decision {
		if len(required) == 0 {
			opts.Metrics.Inc(metrics.MetricGuardAllow)
			return Allow()
		}

		u := store.Current(ctx)
		if u == nil {
			opts.Metrics.Inc(metrics.MetricGuardDenyLogin)
			return Deny(opts.loginPath())
		}
		if u.HasRole(required...) {
			opts.Metrics.Inc(metrics.MetricGuardAllow)
			return Allow()
		}

		opts.Metrics.Inc(metrics.MetricGuardDenyHome)
		opts.Diag.Emit(ctx, diag.Event{
			Type:     diag.TypeGuardDenied,
			Path:     opts.homePath(),
			Metadata: map[string]string{"guard": "roles", "role": string(u.Role)},
		})
		return Deny(opts.homePath())
	}
}

// AdminOnly is Roles restricted to ADMIN.
func AdminOnly(store *session.Store, opts Options) Func {
	return Roles(store, opts, session.RoleAdmin)
}

// EditorOrAbove is Roles allowing ADMIN and EDITOR.
func EditorOrAbove(store *session.Store, opts Options) Func {
	return Roles(store, opts, session.RoleAdmin, session.RoleEditor)
}
