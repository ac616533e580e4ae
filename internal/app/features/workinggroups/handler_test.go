// internal/app/features/workinggroups/handler_test.go

package workinggroups_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/workinggroups"
	poststore "github.com/lumenarts/lumenhub/internal/app/store/posts"
	threadstore "github.com/lumenarts/lumenhub/internal/app/store/threads"
	groupstore "github.com/lumenarts/lumenhub/internal/app/store/workinggroups"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
	"github.com/lumenarts/lumenhub/internal/testutil"
)

func newGroupsHandler(t *testing.T) (*workinggroups.Handler, *testutil.Fixtures, *testutil.MemDrive) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	groups := groupstore.New(db)
	threads := threadstore.New(db)
	posts := poststore.New(db)
	drive := testutil.NewMemDrive()
	svc := trash.New(groups, threads, posts, nil, drive, zap.NewNop())
	h := workinggroups.NewHandler(groups, svc, drive, "root-folder", zap.NewNop())
	return h, testutil.NewFixtures(t, db), drive
}

func TestCreateGroupMakesDriveFolder(t *testing.T) {
	h, fx, drive := newGroupsHandler(t)
	ctx := testutil.TestContext(t)

	coordinator := fx.CreateUser(ctx, "Coordinator", "coord@test.com", "member")
	body := bytes.NewBufferString(fmt.Sprintf(
		`{"name":"Print Studio","slug":"print-studio","coordinator_id":%q}`, coordinator.ID.Hex()))
	req := httptest.NewRequest("POST", "/working-groups", body)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()

	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Slug          string `json:"slug"`
			DriveFolderID string `json:"drive_folder_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if resp.Data.Slug != "print-studio" {
		t.Fatalf("slug = %q", resp.Data.Slug)
	}
	if resp.Data.DriveFolderID == "" {
		t.Fatal("no drive folder created")
	}
	if drive.Names[resp.Data.DriveFolderID] != "Print Studio" {
		t.Fatalf("folder name = %q", drive.Names[resp.Data.DriveFolderID])
	}
}

func TestCreateGroupRequiresAdmin(t *testing.T) {
	h, _, _ := newGroupsHandler(t)

	body := bytes.NewBufferString(`{"name":"X","coordinator_id":"000000000000000000000000"}`)
	req := httptest.NewRequest("POST", "/working-groups", body)
	req = testutil.WithUser(req, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestDuplicateSlugConflicts(t *testing.T) {
	h, fx, _ := newGroupsHandler(t)
	ctx := testutil.TestContext(t)

	coordinator := fx.CreateUser(ctx, "Coordinator", "coord@test.com", "member")
	fx.CreateWorkingGroup(ctx, "Ceramics", "ceramics", coordinator.ID)

	body := bytes.NewBufferString(fmt.Sprintf(
		`{"name":"Ceramics Two","slug":"ceramics","coordinator_id":%q}`, coordinator.ID.Hex()))
	req := httptest.NewRequest("POST", "/working-groups", body)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestDeleteGroupCascadesAndRenamesFolder(t *testing.T) {
	h, fx, drive := newGroupsHandler(t)
	ctx := testutil.TestContext(t)

	coordinator := fx.CreateUser(ctx, "Coordinator", "coord@test.com", "member")
	g := fx.CreateWorkingGroup(ctx, "Film Club", "film-club", coordinator.ID)
	if err := h.Groups.SetDriveFolderID(ctx, g.ID, "folder-film"); err != nil {
		t.Fatalf("set folder id: %v", err)
	}
	th := fx.CreateThread(ctx, "Screening list", coordinator.ID, "film-club")
	fx.CreatePost(ctx, th.ID, coordinator.ID, "first")

	req := httptest.NewRequest("DELETE", "/working-groups/"+g.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Counts struct {
			Threads int64 `json:"threads"`
			Posts   int64 `json:"posts"`
		} `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if resp.Counts.Threads != 1 || resp.Counts.Posts != 1 {
		t.Fatalf("counts = %+v, want 1/1", resp.Counts)
	}
	if drive.Names["folder-film"] != "[DELETED] Film Club" {
		t.Fatalf("folder name = %q", drive.Names["folder-film"])
	}

	// A second delete conflicts.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/working-groups/"+g.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	req = testutil.WithUser(req, testutil.AdminUser())
	h.Delete(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second delete status = %d, want 409", rec.Code)
	}
}

func TestGetHidesDeletedGroup(t *testing.T) {
	h, fx, _ := newGroupsHandler(t)
	ctx := testutil.TestContext(t)

	coordinator := fx.CreateUser(ctx, "Coordinator", "coord@test.com", "member")
	g := fx.CreateWorkingGroup(ctx, "Zine Lab", "zine-lab", coordinator.ID)

	req := httptest.NewRequest("DELETE", "/working-groups/"+g.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/working-groups/by-slug/zine-lab", nil)
	req = testutil.WithChiURLParam(req, "slug", "zine-lab")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get status = %d, want 404", rec.Code)
	}
}
