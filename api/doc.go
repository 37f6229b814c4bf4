// Package api is the HTTP client for the identity collaborators the
// session core consumes: the who-am-I endpoint, the credential refresh
// endpoint, and the login/registration endpoints.
//
// All calls are credentialed: the backend identifies the caller by cookie,
// so the [Client] must be built over an http.Client carrying a cookie jar
// (and typically the intercept.Transport, so data calls recover from
// expiry transparently — the api calls themselves are never replayed).
//
// Responses use the backend's envelope: {"success": ..., "message": ...,
// "data": ...}. A non-2xx status surfaces as a [*StatusError]; a 401 also
// matches [ErrUnauthorized] via errors.Is.
//
// # What this package must NOT do
//
//   - Cache identity (the session store owns caching).
//   - Retry or refresh (the interceptor owns recovery).
package api
