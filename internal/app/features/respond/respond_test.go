// internal/app/features/respond/respond_test.go

package respond_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.JSON(rec, http.StatusOK, map[string]string{"slug": "print-studio"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if !env.Success {
		t.Fatal("success = false")
	}
	if env.Data["slug"] != "print-studio" {
		t.Fatalf("data = %v", env.Data)
	}
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, http.StatusNotFound, "entity not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if env.Success {
		t.Fatal("success = true on error")
	}
	if env.Error != "entity not found" {
		t.Fatalf("error = %q", env.Error)
	}
}
