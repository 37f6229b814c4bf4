// Package prometheus renders navgate metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [navgate.Core] and exposes an http.Handler
// that renders all navgate counters and the fetch-latency histogram. Counter
// names are prefixed navgate_*_total; the single histogram is
// navgate_fetch_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate Core state.
package prometheus
