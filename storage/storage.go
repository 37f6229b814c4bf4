package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [TabStore.Get] when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// ErrUnavailable wraps backend failures (connection loss, backend gone).
// Callers treat anything that is not ErrNotFound as degradation, but
// implementations should wrap ErrUnavailable so hosts can distinguish
// "store broken" from "store empty" in diagnostics.
var ErrUnavailable = errors.New("storage: backend unavailable")

// TabStore is a key-value text store scoped to the lifetime of one client
// instance ("tab"). The session core keeps exactly one key in it.
//
// Implementations must be safe for concurrent use.
type TabStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
