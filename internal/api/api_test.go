package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/dailyfolder/internal/dailyservice"
	"github.com/starford/dailyfolder/internal/models"
	"github.com/starford/dailyfolder/internal/testutil"
)

var jan2 = time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)

// testEnv sets up a temp vault, settings DB, service and router.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (http.Handler, string) {
	t.Helper()
	vaultDir, store := testutil.TestVault(t)
	repo := testutil.TestSettingsStore(t)

	svc, err := dailyservice.New(context.Background(), store, repo,
		models.Settings{Format: "YYYYMMDD", Root: "dailies", DescriptionEnabled: true},
		dailyservice.WithResolver(testutil.FixedResolver(jan2)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return NewRouter(svc, authToken != "", authToken, nil), vaultDir
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestOpenTodayCreatesThenOpens(t *testing.T) {
	router, _ := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/daily/today", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get before create = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodPost, "/daily/today", map[string]string{"description": "kick off"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var res DailyResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Path != "dailies/20240102_kick_off/20240102_kick_off.md" {
		t.Errorf("path = %q", res.Path)
	}

	w = do(t, router, http.MethodPost, "/daily/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("second open status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/daily/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get after create = %d", w.Code)
	}
	var d DailyFile
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if d.Folder != "dailies/20240102_kick_off" || d.Prefix != "20240102" {
		t.Errorf("daily = %+v", d)
	}
}

func TestOpenTodayMissingTemplate(t *testing.T) {
	router, vault := testEnv(t, "")
	testutil.WriteFile(t, vault, "tpl/daily.md", "x")
	testutil.WriteFile(t, vault, "dailies/.keep", "")

	w := do(t, router, http.MethodPut, "/settings", map[string]any{"template": "tpl/daily.md"})
	if w.Code != http.StatusOK {
		t.Fatalf("settings status = %d, body = %s", w.Code, w.Body.String())
	}
	// Remove the template after it was accepted.
	if err := removeFile(vault, "tpl/daily.md"); err != nil {
		t.Fatal(err)
	}

	w = do(t, router, http.MethodPost, "/daily/today", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestNextAndPrevious(t *testing.T) {
	router, vault := testEnv(t, "")
	for _, name := range []string{"20240101", "20240103", "20240107"} {
		testutil.WriteFile(t, vault, "dailies/"+name+"/"+name+".md", "")
	}

	w := do(t, router, http.MethodGet, "/daily/next?path=dailies/20240103/20240103.md", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next status = %d, body = %s", w.Code, w.Body.String())
	}
	var d DailyFile
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if d.Path != "dailies/20240107/20240107.md" {
		t.Errorf("next = %q", d.Path)
	}

	w = do(t, router, http.MethodGet, "/daily/previous?path=dailies/20240103/20240103.md", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if d.Path != "dailies/20240101/20240101.md" {
		t.Errorf("previous = %q", d.Path)
	}

	w = do(t, router, http.MethodGet, "/daily/next?path=dailies/20240107/20240107.md", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("next of last = %d, want 404", w.Code)
	}
}

func TestNextErrors(t *testing.T) {
	router, vault := testEnv(t, "")
	testutil.WriteFile(t, vault, "notes/todo.md", "")

	if w := do(t, router, http.MethodGet, "/daily/next", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing path = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/daily/next?path=notes/todo.md", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-daily = %d, want 400", w.Code)
	}
}

func TestRenameAndDescription(t *testing.T) {
	router, vault := testEnv(t, "")
	testutil.WriteFile(t, vault, "dailies/20240101_draft/20240101_draft.md", "body")

	w := do(t, router, http.MethodGet, "/daily/description?path=dailies/20240101_draft/20240101_draft.md", nil)
	var desc DescriptionResponse
	_ = json.Unmarshal(w.Body.Bytes(), &desc)
	if desc.Description != "draft" {
		t.Errorf("description = %q", desc.Description)
	}

	w = do(t, router, http.MethodPost, "/daily/rename", RenameRequest{
		Path:        "dailies/20240101_draft/20240101_draft.md",
		Description: "final cut",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rename status = %d, body = %s", w.Code, w.Body.String())
	}
	var res DailyResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Path != "dailies/20240101_final_cut/20240101_final_cut.md" {
		t.Errorf("renamed path = %q", res.Path)
	}

	w = do(t, router, http.MethodPost, "/daily/rename", RenameRequest{Description: "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("rename without path = %d, want 400", w.Code)
	}
}

func TestPreview(t *testing.T) {
	router, _ := testEnv(t, "")
	w := do(t, router, http.MethodGet, "/daily/preview?description=big+day", nil)
	var p PreviewResponse
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p.Path != "dailies/20240102_big_day" {
		t.Errorf("preview = %q", p.Path)
	}
}

func TestSettings(t *testing.T) {
	router, vault := testEnv(t, "")
	testutil.WriteFile(t, vault, "journal/.keep", "")

	w := do(t, router, http.MethodGet, "/settings", nil)
	var s Settings
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if s.Format != "YYYYMMDD" || s.Root != "dailies" {
		t.Errorf("settings = %+v", s)
	}

	w = do(t, router, http.MethodPut, "/settings", map[string]any{"root": "journal/", "format": "YYYY-MM-DD"})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if s.Root != "journal" || s.Format != "YYYY-MM-DD" || !s.DescriptionEnabled {
		t.Errorf("updated = %+v", s)
	}

	w = do(t, router, http.MethodPut, "/settings", map[string]any{"root": "nowhere"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid root = %d, want 422", w.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d, want 400", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router, _ := testEnv(t, "secret")

	w := do(t, router, http.MethodGet, "/settings", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", rec.Code)
	}
}

func removeFile(vault, rel string) error {
	return os.Remove(filepath.Join(vault, filepath.FromSlash(rel)))
}
