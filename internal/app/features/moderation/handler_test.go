// internal/app/features/moderation/handler_test.go

package moderation_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/moderation"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
	"github.com/lumenarts/lumenhub/internal/domain/models"
	"github.com/lumenarts/lumenhub/internal/testutil"
)

type env struct {
	handler *moderation.Handler
	groups  *testutil.MemGroups
	threads *testutil.MemThreads
	posts   *testutil.MemPosts
	svc     *trash.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	groups := testutil.NewMemGroups()
	threads := testutil.NewMemThreads()
	posts := testutil.NewMemPosts()
	svc := trash.New(groups, threads, posts, &testutil.MemObjects{}, testutil.NewMemDrive(), zap.NewNop())
	return &env{
		handler: moderation.NewHandler(svc, "sweep-secret", zap.NewNop()),
		groups:  groups,
		threads: threads,
		posts:   posts,
		svc:     svc,
	}
}

func restoreBody(kind string, id primitive.ObjectID) *bytes.Buffer {
	return bytes.NewBufferString(fmt.Sprintf(`{"type":%q,"id":%q}`, kind, id.Hex()))
}

func TestRestoreEndpoint(t *testing.T) {
	e := newEnv(t)

	th := e.threads.Add(models.Thread{Title: "Open call"})
	admin := testutil.AdminUser()
	adminID, _ := primitive.ObjectIDFromHex(admin.ID)
	if _, err := e.svc.DeleteThread(testutil.NewRequest("GET", "/").Context(), th.ID, trash.Actor{ID: adminID, Role: "admin"}); err != nil {
		t.Fatalf("seed delete: %v", err)
	}

	req := httptest.NewRequest("POST", "/admin/moderation/restore", restoreBody(trash.KindThread, th.ID))
	req = testutil.WithUser(req, admin)
	rec := httptest.NewRecorder()

	e.handler.Restore(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if !resp.Success {
		t.Fatal("success = false")
	}

	got, err := e.threads.GetByID(req.Context(), th.ID)
	if err != nil || got.Deleted {
		t.Fatal("thread was not restored")
	}
}

func TestRestoreEndpointRejections(t *testing.T) {
	e := newEnv(t)
	th := e.threads.Add(models.Thread{Title: "T"})

	tests := []struct {
		name   string
		body   string
		user   *testutil.TestUser
		status int
	}{
		{"no session", fmt.Sprintf(`{"type":"thread","id":%q}`, th.ID.Hex()), nil, http.StatusUnauthorized},
		{"bad json", `{`, ptr(testutil.AdminUser()), http.StatusBadRequest},
		{"bad type", fmt.Sprintf(`{"type":"album","id":%q}`, th.ID.Hex()), ptr(testutil.AdminUser()), http.StatusBadRequest},
		{"bad id", `{"type":"thread","id":"zzz"}`, ptr(testutil.AdminUser()), http.StatusBadRequest},
		{"not deleted", fmt.Sprintf(`{"type":"thread","id":%q}`, th.ID.Hex()), ptr(testutil.AdminUser()), http.StatusConflict},
		{"missing", fmt.Sprintf(`{"type":"thread","id":%q}`, primitive.NewObjectID().Hex()), ptr(testutil.AdminUser()), http.StatusNotFound},
		{"member forbidden", fmt.Sprintf(`{"type":"thread","id":%q}`, th.ID.Hex()), ptr(testutil.MemberUser()), http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Member restore of a live thread needs it deleted first to
			// reach the authorization check.
			if tc.name == "member forbidden" {
				adminID := primitive.NewObjectID()
				_, _ = e.svc.DeleteThread(testutil.NewRequest("GET", "/").Context(), th.ID, trash.Actor{ID: adminID, Role: "admin"})
			}

			req := httptest.NewRequest("POST", "/admin/moderation/restore", bytes.NewBufferString(tc.body))
			if tc.user != nil {
				req = testutil.WithUser(req, *tc.user)
			}
			rec := httptest.NewRecorder()

			e.handler.Restore(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestDeletedEndpoint(t *testing.T) {
	e := newEnv(t)
	th := e.threads.Add(models.Thread{Title: "Residency questions"})
	_, _ = e.svc.DeleteThread(testutil.NewRequest("GET", "/").Context(), th.ID, trash.Actor{ID: primitive.NewObjectID(), Role: "admin"})

	req := testutil.NewAuthenticatedRequest("GET", "/admin/moderation/deleted", testutil.ModeratorUser())
	rec := httptest.NewRecorder()

	e.handler.Deleted(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data struct {
			Total int `json:"total"`
			Items []struct {
				Kind string `json:"kind"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if resp.Data.Total != 1 || resp.Data.Items[0].Kind != trash.KindThread {
		t.Fatalf("unexpected listing: %+v", resp.Data)
	}
}

func TestDeletedEndpointRequiresModerator(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewAuthenticatedRequest("GET", "/admin/moderation/deleted", testutil.MemberUser())
	rec := httptest.NewRecorder()
	e.handler.Deleted(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member status = %d, want 403", rec.Code)
	}

	req = testutil.NewRequest("GET", "/admin/moderation/deleted")
	rec = httptest.NewRecorder()
	e.handler.Deleted(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}
}

func TestCleanupEndpointAuth(t *testing.T) {
	e := newEnv(t)

	// Expired thread so the sweep has something to purge.
	th := e.threads.Add(models.Thread{Title: "Old"})
	at := time.Now().UTC().Add(-8 * 24 * time.Hour)
	by := primitive.NewObjectID()
	th2 := e.threads.ByID[th.ID]
	th2.Deleted = true
	th2.DeletedAt = &at
	th2.DeletedBy = &by

	tests := []struct {
		name   string
		setup  func(r *http.Request) *http.Request
		status int
	}{
		{"anonymous", func(r *http.Request) *http.Request { return r }, http.StatusUnauthorized},
		{"wrong secret", func(r *http.Request) *http.Request {
			r.Header.Set("X-Cleanup-Secret", "nope")
			return r
		}, http.StatusUnauthorized},
		{"member session", func(r *http.Request) *http.Request {
			return testutil.WithUser(r, testutil.MemberUser())
		}, http.StatusUnauthorized},
		{"correct secret", func(r *http.Request) *http.Request {
			r.Header.Set("X-Cleanup-Secret", "sweep-secret")
			return r
		}, http.StatusOK},
		{"scheduler signal", func(r *http.Request) *http.Request {
			r.Header.Set("X-Scheduler-Signal", "daily")
			return r
		}, http.StatusOK},
		{"admin session", func(r *http.Request) *http.Request {
			return testutil.WithUser(r, testutil.AdminUser())
		}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.setup(httptest.NewRequest("GET", "/admin/moderation/cleanup", nil))
			rec := httptest.NewRecorder()
			e.handler.Cleanup(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestCleanupPurgesExpired(t *testing.T) {
	e := newEnv(t)

	th := e.threads.Add(models.Thread{Title: "Old"})
	at := time.Now().UTC().Add(-8 * 24 * time.Hour)
	by := primitive.NewObjectID()
	stored := e.threads.ByID[th.ID]
	stored.Deleted = true
	stored.DeletedAt = &at
	stored.DeletedBy = &by

	req := httptest.NewRequest("GET", "/admin/moderation/cleanup", nil)
	req.Header.Set("X-Cleanup-Secret", "sweep-secret")
	rec := httptest.NewRecorder()

	e.handler.Cleanup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Counts struct {
			Threads int64 `json:"threads"`
		} `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if resp.Counts.Threads != 1 {
		t.Fatalf("purged threads = %d, want 1", resp.Counts.Threads)
	}
	if len(e.threads.ByID) != 0 {
		t.Fatal("expired thread still in store")
	}
}

func ptr(u testutil.TestUser) *testutil.TestUser { return &u }
