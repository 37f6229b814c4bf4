// Package diag implements async delivery of structured diagnostic events.
//
// The session core must never fail a public operation because a durable
// store degraded or a replay was abandoned; instead it emits a [Event]
// describing what happened and carries on. Host applications choose what
// to do with the stream (log it, count it, ignore it).
//
// # Components
//
//   - [Sink] — interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher] — buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event] — structured record with timestamp, type, storage key, request ID.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide
// which events to emit — that responsibility belongs to the store, guards,
// and interceptor.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import the root package or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package diag
