// Package storage defines the durable per-tab key-value store the session
// core mirrors its state into, plus two implementations: an in-process
// [Memory] store (the default, equivalent to a browser tab's
// sessionStorage) and a [Redis] store for hosts that want the same client
// core with out-of-process durability.
//
// # Contract
//
// Stores hold short text payloads under caller-chosen keys. A missing key
// is reported with [ErrNotFound]; every other error means the store is
// degraded and callers are expected to fall back to "no session" rather
// than propagate the failure.
//
// # What this package must NOT do
//
//   - Interpret payloads (serialization belongs to the session package).
//   - Retry or queue writes; mirroring is best-effort by design.
package storage
