// Package guard provides the navigation predicates a router evaluates
// before committing a navigation: an authentication guard that re-verifies
// identity against the remote endpoint, and a role guard that checks the
// cached session against a route's required role set.
//
// # Guards
//
//   - [Auth] — asynchronous; fetches identity every invocation. Freshness
//     over request volume.
//   - [Roles] — synchronous; reads only the cached session. It assumes a
//     prior authentication guard warmed the cache and never touches the
//     network.
//   - [AdminOnly], [EditorOrAbove] — the two stock role sets.
//
// A guarded navigation walks a small machine: anonymous, then
// authenticated when the auth guard passes, then authorized when the role
// guard passes. Any denial is terminal for that attempt; re-navigating
// starts over.
//
// # Decisions, not errors
//
// Guards convert every failure category — transport failure, missing
// session, insufficient role — into a [Decision] with a redirect target.
// No error ever escapes to the router. An unauthenticated caller is sent
// to the login route; an authenticated but under-privileged caller is sent
// to the neutral home route instead, because asking them to sign in again
// would be wrong.
//
// # What this package must NOT do
//
//   - Mutate session state (the store serializes its own mutations).
//   - Cache its own results between navigations.
package guard
