package session

import (
	"fmt"
	"time"
)

// Role is the closed set of authorization levels a user can hold.
// A role is only meaningful in the presence of a user; "no user" never
// implies a default role.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// ParseRole converts a wire value into a [Role], rejecting anything
// outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("session: unknown role %q", s)
	}
	return r, nil
}

// User is the authenticated identity record for the active session.
// A nil *User means anonymous.
//
// Store hands out the same pointer to every caller; treat it as read-only.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// HasRole reports whether the user's role is in the required set. An empty
// set always matches.
func (u *User) HasRole(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	if u == nil {
		return false
	}
	for _, r := range required {
		if u.Role == r {
			return true
		}
	}
	return false
}
