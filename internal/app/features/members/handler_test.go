// internal/app/features/members/handler_test.go
package members_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/members"
	userstore "github.com/lumenarts/lumenhub/internal/app/store/users"
	"github.com/lumenarts/lumenhub/internal/domain/models"
	"github.com/lumenarts/lumenhub/internal/testutil"
)

func newMembersHandler(t *testing.T) (*members.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := members.NewHandler(userstore.New(db), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

// asUser builds a session user matching a stored user, for handlers that
// compare the session ID against the target.
func asUser(u models.User) testutil.TestUser {
	return testutil.TestUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
}

func TestDirectoryListsOnlyOptedIn(t *testing.T) {
	h, fx := newMembersHandler(t)
	ctx := testutil.TestContext(t)

	listed := fx.CreateUser(ctx, "Pia Painter", "pia@lumenarts.org", "member")
	hidden := fx.CreateUser(ctx, "Hank Hidden", "hank@lumenarts.org", "member")

	if err := h.Users.UpdateProfile(ctx, listed.ID, "painting", "Oil and acrylic.", "", true); err != nil {
		t.Fatalf("opt in: %v", err)
	}

	req := httptest.NewRequest("GET", "/members", nil)
	rec := httptest.NewRecorder()
	h.Directory(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Pia Painter") {
		t.Fatal("opted-in member missing from the directory")
	}
	if strings.Contains(body, hidden.FullName) {
		t.Fatal("unlisted member appeared in the directory")
	}
	if strings.Contains(body, "pia@lumenarts.org") {
		t.Fatal("directory must not expose email addresses")
	}
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	h, _ := newMembersHandler(t)

	req := httptest.NewRequest("PATCH", "/members/me", bytes.NewBufferString(`{"bio":"hi"}`))
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSetRole(t *testing.T) {
	h, fx := newMembersHandler(t)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	member := fx.CreateUser(ctx, "Mia Member", "mia@lumenarts.org", "member")

	body := bytes.NewBufferString(`{"role":"moderator"}`)
	req := testutil.WithUser(httptest.NewRequest("PATCH", "/members/"+member.ID.Hex()+"/role", body), asUser(admin))
	req = testutil.WithChiURLParam(req, "id", member.ID.Hex())
	rec := httptest.NewRecorder()
	h.SetRole(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	u, err := h.Users.GetByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if u.Role != "moderator" {
		t.Fatalf("role = %q, want moderator", u.Role)
	}
}

func TestSetRoleRejections(t *testing.T) {
	h, fx := newMembersHandler(t)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	member := fx.CreateUser(ctx, "Mia Member", "mia@lumenarts.org", "member")

	tests := []struct {
		name   string
		as     testutil.TestUser
		target string
		body   string
		status int
	}{
		{"member forbidden", asUser(member), admin.ID.Hex(), `{"role":"member"}`, http.StatusForbidden},
		{"invalid role", asUser(admin), member.ID.Hex(), `{"role":"emperor"}`, http.StatusBadRequest},
		{"own role", asUser(admin), admin.ID.Hex(), `{"role":"member"}`, http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("PATCH", "/members/"+tc.target+"/role", bytes.NewBufferString(tc.body))
			req = testutil.WithUser(req, tc.as)
			req = testutil.WithChiURLParam(req, "id", tc.target)
			rec := httptest.NewRecorder()
			h.SetRole(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}
