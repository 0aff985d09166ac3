package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func consoleRequest(t *testing.T, r *gin.Engine, method, path, sessionID, body string) envelope {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	r.ServeHTTP(w, req)
	return decodeEnvelope(t, w)
}

func openTestSession(t *testing.T, r *gin.Engine, token string) string {
	t.Helper()
	resp := consoleRequest(t, r, http.MethodPost, "/api/v1/console/sessions", "", `{"token":"`+token+`"}`)
	if resp.StatusCode != 0 {
		t.Fatalf("open session failed: %+v", resp)
	}
	var opened struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(resp.Data, &opened); err != nil {
		t.Fatalf("unmarshal session failed: %v", err)
	}
	return opened.SessionID
}

func TestCategoryFormSubmitFlow(t *testing.T) {
	token := roleToken(t, "editor")
	var created map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Sesi berakhir"}`))
			return
		}
		if r.Method != http.MethodPost || r.URL.Path != "/api/categories" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"not found"}`))
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&created)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"cat-9","name":"Sayur Segar","slug":"sayur-segar"}}`))
	}))
	defer backend.Close()

	r, _ := setupTestRouterWithCatalog(t, backend.URL+"/api")
	sessionID := openTestSession(t, r, token)

	resp := consoleRequest(t, r, http.MethodPost, "/api/v1/console/entity-forms/category", sessionID, "")
	if resp.StatusCode != 0 {
		t.Fatalf("open category form failed: %+v", resp)
	}
	var opened struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &opened); err != nil || opened.ID == "" {
		t.Fatalf("form id missing: %v %s", err, string(resp.Data))
	}
	formPath := "/api/v1/console/forms/" + opened.ID

	resp = consoleRequest(t, r, http.MethodPost, formPath+"/submit", sessionID, "")
	var invalid struct {
		Outcome string `json:"outcome"`
	}
	if err := json.Unmarshal(resp.Data, &invalid); err != nil || invalid.Outcome != "invalid" {
		t.Fatalf("empty category should be invalid, got %s", string(resp.Data))
	}

	resp = consoleRequest(t, r, http.MethodPatch, formPath, sessionID, `{"changes":[{"path":"name","value":"  Sayur Segar "}]}`)
	if resp.StatusCode != 0 {
		t.Fatalf("patch failed: %+v", resp)
	}

	resp = consoleRequest(t, r, http.MethodPost, formPath+"/submit", sessionID, "")
	if resp.StatusCode != 0 {
		t.Fatalf("submit failed: %+v", resp)
	}
	var result struct {
		Outcome  string `json:"outcome"`
		EntityID string `json:"entity_id"`
		Message  string `json:"message"`
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("unmarshal submit result failed: %v", err)
	}
	if result.Outcome != "succeeded" || result.EntityID != "cat-9" {
		t.Fatalf("unexpected submit result: %+v", result)
	}
	if result.Message != "Kategori berhasil ditambahkan." || result.Redirect != "/categories" {
		t.Fatalf("unexpected message or redirect: %+v", result)
	}
	if created["name"] != "Sayur Segar" || created["slug"] != "sayur-segar" {
		t.Fatalf("payload should be trimmed with derived slug, got %+v", created)
	}

	resp = consoleRequest(t, r, http.MethodPost, "/api/v1/console/navigation/pop", sessionID, "")
	if !strings.Contains(string(resp.Data), "/categories") {
		t.Fatalf("pending redirect should be popped, got %s", string(resp.Data))
	}
}
