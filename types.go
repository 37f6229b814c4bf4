package navgate

import (
	"io"

	"github.com/navgate/navgate/api"
	"github.com/navgate/navgate/guard"
	"github.com/navgate/navgate/intercept"
	"github.com/navgate/navgate/internal/diag"
	"github.com/navgate/navgate/internal/metrics"
	"github.com/navgate/navgate/session"
)

// Session model. The canonical definitions live in the session package;
// the aliases keep a Core-only host on a single import.
type (
	User = session.User
	Role = session.Role
)

// The closed role enumeration.
const (
	RoleAdmin  = session.RoleAdmin
	RoleEditor = session.RoleEditor
	RoleViewer = session.RoleViewer
)

// Guard surface.
type (
	Decision  = guard.Decision
	GuardFunc = guard.Func
	Route     = guard.Route
)

// API request payloads accepted by [Core.Login] and [Core.Register].
type (
	LoginRequest = api.LoginRequest
	Registration = api.Registration
)

// Interceptor hooks a host supplies through the Builder.
type (
	Navigator       = intercept.Navigator
	NavigatorFunc   = intercept.NavigatorFunc
	Credentials     = intercept.Credentials
	CredentialsFunc = intercept.CredentialsFunc
	TokenSource     = intercept.TokenSource
)

// Diagnostics. DiagSink is an interface; hosts implement it or use one of
// the provided sinks.
type (
	DiagEvent = diag.Event
	DiagSink  = diag.Sink
)

// Diagnostic event types, for hosts switching on [DiagEvent].Type.
const (
	DiagStorageReadFailed  = diag.TypeStorageReadFailed
	DiagStorageWriteFailed = diag.TypeStorageWriteFailed
	DiagStorageCorrupt     = diag.TypeStorageCorrupt
	DiagRefreshFailed      = diag.TypeRefreshFailed
	DiagReplayIssued       = diag.TypeReplayIssued
	DiagReplayNotPossible  = diag.TypeReplayNotPossible
	DiagGuardDenied        = diag.TypeGuardDenied
	DiagSubscriberDropped  = diag.TypeSubscriberDropped
)

// NewChannelDiagSink returns a sink that forwards events to a buffered
// channel read via its Events method.
func NewChannelDiagSink(buffer int) *diag.ChannelSink {
	return diag.NewChannelSink(buffer)
}

// NewJSONDiagSink returns a sink that writes one JSON object per event to
// w. Writes are serialized internally.
func NewJSONDiagSink(w io.Writer) *diag.JSONWriterSink {
	return diag.NewJSONWriterSink(w)
}

// Metrics surface, consumed by the exporters under metrics/export.
type (
	MetricID        = metrics.MetricID
	MetricsSnapshot = metrics.Snapshot
)

// Metric identifiers, one per counter plus the fetch-latency histogram.
const (
	MetricFetchSuccess       = metrics.MetricFetchSuccess
	MetricFetchAnonymous     = metrics.MetricFetchAnonymous
	MetricFetchFailure       = metrics.MetricFetchFailure
	MetricHydrateSuccess     = metrics.MetricHydrateSuccess
	MetricHydrateCorrupt     = metrics.MetricHydrateCorrupt
	MetricHydrateUnavailable = metrics.MetricHydrateUnavailable
	MetricSessionSet         = metrics.MetricSessionSet
	MetricSessionCleared     = metrics.MetricSessionCleared
	MetricGuardAllow         = metrics.MetricGuardAllow
	MetricGuardDenyLogin     = metrics.MetricGuardDenyLogin
	MetricGuardDenyHome      = metrics.MetricGuardDenyHome
	MetricRefreshSuccess     = metrics.MetricRefreshSuccess
	MetricRefreshFailure     = metrics.MetricRefreshFailure
	MetricReplayIssued       = metrics.MetricReplayIssued
	MetricSubscriberDropped  = metrics.MetricSubscriberDropped
	MetricFetchLatency       = metrics.MetricFetchLatency
)
