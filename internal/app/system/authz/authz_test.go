// internal/app/system/authz/authz_test.go
package authz_test

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumenarts/lumenhub/internal/app/system/auth"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
)

func testUserID() string {
	return primitive.NewObjectID().Hex()
}

func TestCan(t *testing.T) {
	cases := []struct {
		role   string
		action authz.Action
		want   bool
	}{
		{"admin", authz.ActionDeleteGroup, true},
		{"admin", authz.ActionRestoreGroup, true},
		{"admin", authz.ActionDeleteThread, true},
		{"admin", authz.ActionViewDeleted, true},
		{"admin", authz.ActionManagePublications, true},

		{"moderator", authz.ActionDeletePost, true},
		{"moderator", authz.ActionRestorePost, true},
		{"moderator", authz.ActionViewDeleted, true},
		{"moderator", authz.ActionModerateThread, true},
		{"moderator", authz.ActionDeleteGroup, false},
		{"moderator", authz.ActionRestoreGroup, false},
		{"moderator", authz.ActionDeleteThread, false},
		{"moderator", authz.ActionRestoreThread, false},
		{"moderator", authz.ActionInviteMembers, false},

		{"member", authz.ActionDeletePost, false},
		{"member", authz.ActionViewDeleted, false},
		{"member", authz.ActionDeleteGroup, false},

		{"visitor", authz.ActionDeletePost, false},
		{"", authz.ActionDeleteGroup, false},

		// Role comparison is case-insensitive.
		{"Admin", authz.ActionDeleteGroup, true},
		{"MODERATOR", authz.ActionDeletePost, true},
	}

	for _, tc := range cases {
		if got := authz.Can(tc.role, tc.action); got != tc.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestUserCtx(t *testing.T) {
	t.Run("no user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		role, _, _, ok := authz.UserCtx(req)
		if ok {
			t.Error("expected ok=false without a session user")
		}
		if role != "visitor" {
			t.Errorf("role = %q, want visitor", role)
		}
	})

	t.Run("valid user", func(t *testing.T) {
		id := testUserID()
		req := httptest.NewRequest("GET", "/test", nil)
		req = auth.WithTestUser(req, &auth.SessionUser{ID: id, Name: "Ada", Role: "Admin"})

		role, name, userID, ok := authz.UserCtx(req)
		if !ok {
			t.Fatal("expected ok=true")
		}
		if role != "admin" {
			t.Errorf("role = %q, want admin (lowercased)", role)
		}
		if name != "Ada" {
			t.Errorf("name = %q, want Ada", name)
		}
		if userID.Hex() != id {
			t.Errorf("userID = %s, want %s", userID.Hex(), id)
		}
	})

	t.Run("malformed user id fails closed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-an-objectid", Role: "admin"})

		if _, _, _, ok := authz.UserCtx(req); ok {
			t.Error("expected ok=false for malformed user ID")
		}
	})
}

func TestIsAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Role: "admin"})
	if !authz.IsAdmin(req) {
		t.Error("expected IsAdmin=true for admin")
	}

	req = httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Role: "moderator"})
	if authz.IsAdmin(req) {
		t.Error("expected IsAdmin=false for moderator")
	}

	if authz.IsAdmin(httptest.NewRequest("GET", "/test", nil)) {
		t.Error("expected IsAdmin=false without a user")
	}
}

func TestIsModerator(t *testing.T) {
	for _, role := range []string{"moderator", "admin"} {
		req := httptest.NewRequest("GET", "/test", nil)
		req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Role: role})
		if !authz.IsModerator(req) {
			t.Errorf("expected IsModerator=true for %s", role)
		}
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Role: "member"})
	if authz.IsModerator(req) {
		t.Error("expected IsModerator=false for member")
	}
}
