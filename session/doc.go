// Package session owns the single authoritative answer to "who is acting"
// for one client instance, and the serialized record that mirrors it into
// a durable per-tab store.
//
// # Components
//
//   - [User] / [Role] — the identity record and its closed authorization level set.
//   - [Store] — cached, observable session holder with a write-through durable
//     mirror, a synchronous accessor, and a remote identity fetch.
//   - [Encode] / [Decode] — the JSON codec for the single durable record,
//     with well-formedness validation on the way in.
//
// # State contract
//
// The in-memory value and the durable copy are eventually consistent: a
// successful in-memory write is followed by a best-effort durable write; a
// read that finds memory empty hydrates from durable storage exactly once
// per empty check. Corrupt or unreadable durable state degrades to "no
// session" and purges the bad entry — it never propagates an error to the
// caller.
//
// # What this package must NOT do
//
//   - Decide navigation outcomes (the guard package does).
//   - Touch HTTP semantics (the api and intercept packages do).
//   - Retry failed identity fetches; callers choose what a failure means.
package session
