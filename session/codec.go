package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptRecord is returned by [Decode] when the durable payload is not
// a well-formed serialized user record.
var ErrCorruptRecord = errors.New("session: corrupt record")

// Encode serializes a user record for the durable mirror.
func Encode(u *User) (string, error) {
	if u == nil {
		return "", fmt.Errorf("session: cannot encode nil user")
	}
	data, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a durable payload back into a user record, validating that
// it is well-formed: valid JSON, a non-empty ID, and a role from the
// closed set. Anything else is [ErrCorruptRecord].
func Decode(raw string) (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrCorruptRecord)
	}
	if !u.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrCorruptRecord, string(u.Role))
	}
	return &u, nil
}
