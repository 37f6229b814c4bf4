// Package navgate provides a client-side session and authorization core:
// an authoritative cached session store with change subscriptions, async
// and sync navigation guards, and an HTTP transport that transparently
// refreshes an expired session and replays the failed request once.
//
// The package is the public composition surface. It exposes [Builder],
// [Config], [Core], and value types (User, Decision, Route, DiagEvent,
// MetricsSnapshot). The moving parts live in subpackages — session, guard,
// intercept, api, storage — and are wired together by [Builder.Build].
// Hosts that want a single object hold a [Core]; hosts that want to wire
// pieces themselves use the subpackages directly.
//
// # Architecture boundaries
//
// Everything is instance-scoped. There is no package-level state, no
// default Core, and no init-time registration: two Cores in one process
// stay fully independent, which is what makes the package testable and
// what makes multi-account hosts possible.
//
// # What this package must NOT do
//
//   - Verify credentials. The server is the only authority; the client
//     holds at most an unverified expiry hint (see internal/token).
//   - Perform I/O during construction. Builder methods allocate only;
//     the first network call happens on the first Core operation.
//   - Import any sub-package that re-imports navgate (no import cycles).
package navgate
