package session

import "testing"

func TestRoleValid(t *testing.T) {
	cases := []struct {
		role  Role
		valid bool
	}{
		{RoleAdmin, true},
		{RoleEditor, true},
		{RoleViewer, true},
		{Role(""), false},
		{Role("admin"), false},
		{Role("SUPERUSER"), false},
	}

	for _, tc := range cases {
		if got := tc.role.Valid(); got != tc.valid {
			t.Fatalf("Role(%q).Valid() = %v, expected %v", string(tc.role), got, tc.valid)
		}
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	if _, err := ParseRole("EDITOR"); err != nil {
		t.Fatalf("expected EDITOR to parse, got %v", err)
	}
	if _, err := ParseRole("editor"); err == nil {
		t.Fatal("expected lowercase role to be rejected")
	}
	if _, err := ParseRole(""); err == nil {
		t.Fatal("expected empty role to be rejected")
	}
}

func TestHasRole(t *testing.T) {
	editor := &User{ID: "u1", Role: RoleEditor}

	if !editor.HasRole() {
		t.Fatal("empty required set must match any user")
	}
	if !editor.HasRole(RoleAdmin, RoleEditor) {
		t.Fatal("expected editor to match a set containing EDITOR")
	}
	if editor.HasRole(RoleAdmin) {
		t.Fatal("expected editor not to match an admin-only set")
	}

	var nobody *User
	if !nobody.HasRole() {
		t.Fatal("empty required set must match even without a user")
	}
	if nobody.HasRole(RoleViewer) {
		t.Fatal("nil user must never match a non-empty set")
	}
}
