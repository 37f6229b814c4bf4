// Package token reads timing hints out of JWT access tokens without
// verifying them. Verification is the server's job; the client only wants
// to know whether sending a credential is obviously pointless.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the token carries no exp claim.
var ErrNoExpiry = errors.New("token: no expiry claim")

// ExpiresAt extracts the exp claim from a compact JWT. The signature is
// NOT checked — the result is a scheduling hint, never an authorization
// decision.
func ExpiresAt(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// Expired reports whether the token's exp claim has passed, shifted
// earlier by skew. A token that cannot be parsed counts as live: the
// server is the authority, and a malformed hint must not block a request
// the server might accept.
func Expired(raw string, skew time.Duration, now time.Time) bool {
	exp, err := ExpiresAt(raw)
	if err != nil {
		return false
	}
	return !now.Before(exp.Add(-skew))
}
