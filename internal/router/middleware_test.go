package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pasarantar/admin-console/internal/authz"
	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/config"
	"github.com/pasarantar/admin-console/internal/console"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/provider"
	"github.com/pasarantar/admin-console/internal/service"
	"github.com/pasarantar/admin-console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func roleToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-" + role,
		"role": role,
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func setupTestRouter(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	return setupTestRouterWithCatalog(t, "http://127.0.0.1:1/api")
}

func setupTestRouterWithCatalog(t *testing.T, baseURL string) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = zap.NewNop()
	t.Cleanup(func() { logger.L = nil })

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}

	client, err := catalog.NewClient(baseURL, nil)
	if err != nil {
		t.Fatalf("new catalog client failed: %v", err)
	}
	registry := console.NewRegistry(console.Deps{Catalog: client},
		console.WithSessionOptions(session.WithVerifyKey("test-secret")),
	)
	cfg := &config.Config{}
	c := &provider.Container{
		Config:         cfg,
		AuthzService:   authzService,
		JournalService: service.NewJournalService(nil, 20, 0),
		Catalog:        client,
		Registry:       registry,
	}
	return SetupRouter(cfg, c), c
}

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"request_id": getRequestID(c),
			"ctx_id":     service.RequestIDFrom(c.Request.Context()),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" || resp["ctx_id"] != "req-123" {
		t.Fatalf("request id should reach gin and request context, got %+v", resp)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestConsoleRoutesRequireSession(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/console/notifications", nil))
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/console/notifications", nil)
	req.Header.Set(SessionHeader, "unknown")
	r.ServeHTTP(w, req)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("unknown session want 401 got %d", resp.StatusCode)
	}
}

func TestOpenSessionAndRoleEnforcement(t *testing.T) {
	r, c := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/console/sessions", strings.NewReader(`{"token":"`+roleToken(t, "viewer")+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 0 {
		t.Fatalf("open session failed: %s", w.Body.String())
	}
	var opened struct {
		SessionID string `json:"session_id"`
		Role      string `json:"role"`
	}
	if err := json.Unmarshal(resp.Data, &opened); err != nil {
		t.Fatalf("unmarshal session failed: %v", err)
	}
	if opened.SessionID == "" || opened.Role != "viewer" {
		t.Fatalf("unexpected session: %+v", opened)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/console/notifications", nil)
	req.Header.Set(SessionHeader, opened.SessionID)
	r.ServeHTTP(w, req)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 0 {
		t.Fatalf("viewer should list notifications, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/console/product-forms", nil)
	req.Header.Set("Authorization", "Bearer "+opened.SessionID)
	r.ServeHTTP(w, req)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 403 {
		t.Fatalf("viewer must not open product forms, got %s", w.Body.String())
	}

	ws, err := c.Registry.Get(opened.SessionID)
	if err != nil {
		t.Fatalf("workspace should exist: %v", err)
	}
	ws.Session().Invalidate("catalog 401")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/console/notifications", nil)
	req.Header.Set(SessionHeader, opened.SessionID)
	r.ServeHTTP(w, req)
	resp = decodeEnvelope(t, w)
	if resp.StatusCode != 401 || !strings.Contains(string(resp.Data), console.LoginPath) {
		t.Fatalf("invalidated session should redirect to login, got %s", w.Body.String())
	}
	if c.Registry.Len() != 0 {
		t.Fatalf("invalidated workspace should be closed")
	}
}

func TestOpenSessionRejectsEmptyToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/console/sessions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 401 || resp.Msg != "Token masuk tidak ditemukan." {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}

func TestPermissionCatalogSkipsSessionOpen(t *testing.T) {
	r, _ := setupTestRouter(t)

	items := buildPermissionCatalog(r)
	if len(items) == 0 {
		t.Fatalf("permission catalog should not be empty")
	}
	for _, item := range items {
		if item.Object == "/console/sessions" {
			t.Fatalf("session open route must not be listed")
		}
		if item.Object == "/console/forms/:id/submit" && item.Module != "forms" {
			t.Fatalf("submit route module want forms got %s", item.Module)
		}
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestParseRateLimitResult(t *testing.T) {
	count, ttl, ok := parseRateLimitResult([]any{int64(3), int64(42)})
	if !ok || count != 3 || ttl != 42 {
		t.Fatalf("unexpected parse result: %d %d %v", count, ttl, ok)
	}
	if _, _, ok := parseRateLimitResult([]any{"bad", int64(1)}); ok {
		t.Fatalf("non numeric count should fail")
	}
	if got := retryAfter(0, RateLimitRule{WindowSeconds: 60}); got != 60 {
		t.Fatalf("retry after should fall back to window, got %d", got)
	}
}
