package intercept

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/navgate/navgate/internal/diag"
	"github.com/navgate/navgate/internal/metrics"
	"github.com/navgate/navgate/internal/token"
	"github.com/navgate/navgate/session"
)

// ErrRefreshFailed marks errors returned when the one recovery attempt
// could not renew the session. The underlying refresh error is joined in.
var ErrRefreshFailed = errors.New("intercept: session refresh failed")

// Refresher renews the caller's credential against the refresh endpoint.
// api.Client satisfies this.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Navigator is the router hook the interceptor uses to send the
// application to the login route after an unrecoverable expiry.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Credentials attaches per-request credentials. Deployments whose
// http.Client carries a cookie jar need none; header-token deployments
// supply one.
type Credentials interface {
	Apply(req *http.Request) error
}

// CredentialsFunc adapts a function to [Credentials].
type CredentialsFunc func(req *http.Request) error

func (f CredentialsFunc) Apply(req *http.Request) error { return f(req) }

// TokenSource exposes the current access token for the optional proactive
// refresh check. Return "" when no token is held.
type TokenSource interface {
	AccessToken() string
}

// Options configures a [Transport]. The zero value is a reactive-only
// interceptor over http.DefaultTransport redirecting to the default login
// route.
type Options struct {
	// Base is the underlying round tripper. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// LoginPath is where the Navigator is sent after refresh failure.
	LoginPath string

	// Credentials, when set, is applied to every outgoing request.
	Credentials Credentials

	// ProactiveRefresh, together with Tokens, refreshes before sending a
	// request whose access token is already expired per its unverified
	// exp claim. Off by default; the reactive 401 path is the contract.
	ProactiveRefresh bool
	Tokens           TokenSource
	// RefreshSkew shifts the proactive expiry check earlier, absorbing
	// client/server clock drift.
	RefreshSkew time.Duration

	Diag    *diag.Dispatcher
	Metrics *metrics.Metrics
}

// Transport is the session-recovering http.RoundTripper. Thread it
// through the host application's data requests only. The api.Client the
// Refresher is built from must use an unwrapped http.Client: routing the
// refresh call back through this transport would trigger recovery on the
// refresh endpoint's own 401 and recurse.
type Transport struct {
	refresher Refresher
	store     *session.Store
	nav       Navigator
	opts      Options
}

// NewTransport builds the interceptor. refresher and store are required;
// nav may be nil when the host has no router to send anywhere.
func NewTransport(refresher Refresher, store *session.Store, nav Navigator, opts Options) *Transport {
	if opts.Base == nil {
		opts.Base = http.DefaultTransport
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/auth/login"
	}
	return &Transport{
		refresher: refresher,
		store:     store,
		nav:       nav,
		opts:      opts,
	}
}

type replayTagKey struct{}

// replayed reports whether this request already consumed its one recovery.
func replayed(ctx context.Context) bool {
	v, _ := ctx.Value(replayTagKey{}).(bool)
	return v
}

func markReplayed(ctx context.Context) context.Context {
	return context.WithValue(ctx, replayTagKey{}, true)
}

// RoundTrip implements http.RoundTripper per the package contract.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.opts.Credentials != nil {
		if err := t.opts.Credentials.Apply(req); err != nil {
			return nil, err
		}
	}

	if replayed(req.Context()) {
		// Second pass: send and return whatever happens. A 401 here means
		// the refresh endpoint handed back stale credentials; recovering
		// again would loop forever.
		return t.opts.Base.RoundTrip(req)
	}

	if t.opts.ProactiveRefresh && t.opts.Tokens != nil {
		if tok := t.opts.Tokens.AccessToken(); tok != "" &&
			token.Expired(tok, t.opts.RefreshSkew, time.Now()) {
			if err := t.refresh(req.Context(), req.URL.Path, ""); err != nil {
				return nil, err
			}
		}
	}

	resp, err := t.opts.Base.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	requestID := uuid.NewString()

	replay, ok := rewound(req)
	if !ok {
		// The body cannot be rewound, so a replay would not be "the
		// original request". Hand the 401 back untouched.
		t.opts.Diag.Emit(req.Context(), diag.Event{
			Type:      diag.TypeReplayNotPossible,
			Path:      req.URL.Path,
			RequestID: requestID,
			Status:    resp.StatusCode,
		})
		return resp, nil
	}

	// The original response is dead either way; release its connection.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()

	if err := t.refresh(req.Context(), req.URL.Path, requestID); err != nil {
		return nil, err
	}

	t.opts.Metrics.Inc(metrics.MetricReplayIssued)
	t.opts.Diag.Emit(req.Context(), diag.Event{
		Type:      diag.TypeReplayIssued,
		Path:      req.URL.Path,
		RequestID: requestID,
	})

	return t.RoundTrip(replay)
}

// refresh performs the single recovery attempt. On failure it clears the
// session, sends the application to the login route, and returns the
// refresh failure for the caller — never the original 401 dressed up as
// anything else.
func (t *Transport) refresh(ctx context.Context, path, requestID string) error {
	err := t.refresher.Refresh(ctx)
	if err == nil {
		t.opts.Metrics.Inc(metrics.MetricRefreshSuccess)
		return nil
	}

	t.opts.Metrics.Inc(metrics.MetricRefreshFailure)
	t.opts.Diag.Emit(ctx, diag.Event{
		Type:      diag.TypeRefreshFailed,
		Path:      path,
		RequestID: requestID,
		Error:     err.Error(),
	})

	t.store.Clear(ctx)
	if t.nav != nil {
		t.nav.Navigate(t.opts.LoginPath)
	}

	return errors.Join(ErrRefreshFailed, err)
}

// rewound clones req for replay with its body restored from GetBody and
// its context tagged as having consumed the one recovery. Requests whose
// body cannot be reproduced are not replayable.
func rewound(req *http.Request) (*http.Request, bool) {
	out := req.Clone(markReplayed(req.Context()))

	if req.Body == nil || req.Body == http.NoBody {
		return out, true
	}
	if req.GetBody == nil {
		return nil, false
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	out.Body = body
	return out, true
}
