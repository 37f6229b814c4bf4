// Package intercept wraps every outgoing request of the host application
// so an expired session is recovered transparently, exactly once.
//
// [Transport] is an http.RoundTripper. It attaches credentials, forwards
// the request, and on a 401 response performs one refresh against the
// dedicated refresh endpoint followed by one replay of the original
// request. The replay's outcome — including another 401 — is returned to
// the caller as-is; a replayed request is never eligible for a second
// recovery. Replay eligibility travels as an explicit tag on the request
// context, so the invariant survives nested transports and retrying
// callers.
//
// When the refresh itself fails, the session store is cleared, the
// application is navigated to the login route, and the refresh failure
// (not the original 401) propagates to the caller.
//
// Concurrent faulting requests each trigger their own refresh; refreshes
// are deliberately not coalesced. That costs duplicate refresh calls
// under a thundering herd but keeps every request chain independent.
//
// # What this package must NOT do
//
//   - Transform non-401 outcomes in any way.
//   - Retry transport-level failures.
//   - Parse or validate credentials (see internal/token for the one
//     unverified timing hint it may consult).
package intercept
