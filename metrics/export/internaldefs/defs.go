package internaldefs

import (
	"github.com/navgate/navgate/internal/metrics"
)

// CounterDef binds a metric identifier to its exported name and help text.
type CounterDef struct {
	ID   metrics.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram identifier to its exported name and help text.
type HistogramDef struct {
	ID   metrics.MetricID
	Name string
	Help string
}

// CounterDefs enumerates every exported counter, in exposition order.
var CounterDefs = []CounterDef{
	{ID: metrics.MetricFetchSuccess, Name: "navgate_fetch_success_total", Help: "Identity fetches that produced a user."},
	{ID: metrics.MetricFetchAnonymous, Name: "navgate_fetch_anonymous_total", Help: "Identity fetches answered with no user."},
	{ID: metrics.MetricFetchFailure, Name: "navgate_fetch_failure_total", Help: "Failed identity fetches."},
	{ID: metrics.MetricHydrateSuccess, Name: "navgate_hydrate_success_total", Help: "Sessions rebuilt from the durable store."},
	{ID: metrics.MetricHydrateCorrupt, Name: "navgate_hydrate_corrupt_total", Help: "Durable records purged as corrupt during hydration."},
	{ID: metrics.MetricHydrateUnavailable, Name: "navgate_hydrate_unavailable_total", Help: "Hydration attempts against an unavailable durable store."},
	{ID: metrics.MetricSessionSet, Name: "navgate_session_set_total", Help: "Explicit session installs."},
	{ID: metrics.MetricSessionCleared, Name: "navgate_session_cleared_total", Help: "Session clears."},
	{ID: metrics.MetricGuardAllow, Name: "navgate_guard_allow_total", Help: "Guard decisions that allowed a navigation."},
	{ID: metrics.MetricGuardDenyLogin, Name: "navgate_guard_deny_login_total", Help: "Guard denials redirected to the login route."},
	{ID: metrics.MetricGuardDenyHome, Name: "navgate_guard_deny_home_total", Help: "Guard denials redirected to the home route."},
	{ID: metrics.MetricRefreshSuccess, Name: "navgate_refresh_success_total", Help: "Successful session refreshes."},
	{ID: metrics.MetricRefreshFailure, Name: "navgate_refresh_failure_total", Help: "Failed session refreshes."},
	{ID: metrics.MetricReplayIssued, Name: "navgate_replay_issued_total", Help: "Requests replayed after a successful refresh."},
	{ID: metrics.MetricSubscriberDropped, Name: "navgate_subscriber_dropped_total", Help: "Session emissions missed by slow subscribers."},
}

// HistogramDefs enumerates every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: metrics.MetricFetchLatency, Name: "navgate_fetch_latency_seconds", Help: "Identity fetch latency histogram."},
}

// HistogramBounds are the upper bounds of the fixed latency buckets, as
// Prometheus le label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// OTel instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
