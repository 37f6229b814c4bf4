// Package otel provides OpenTelemetry metric exporter bindings for navgate
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// navgate metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [navgate.Core.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate Core state.
package otel
