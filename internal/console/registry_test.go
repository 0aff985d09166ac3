package console

import (
	"errors"
	"testing"
	"time"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/session"
)

func TestRegistryReapsIdleWorkspaces(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	client, err := catalog.NewClient("http://127.0.0.1:1/api", nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	reg := NewRegistry(Deps{Catalog: client},
		WithIdleTimeout(30*time.Minute),
		WithRegistryClock(clock),
		WithSessionOptions(session.WithClock(clock)),
	)

	idle, err := reg.Open("token-idle")
	if err != nil {
		t.Fatalf("open idle failed: %v", err)
	}
	active, err := reg.Open("token-active")
	if err != nil {
		t.Fatalf("open active failed: %v", err)
	}

	now = now.Add(20 * time.Minute)
	if _, err := reg.Get(active.ID()); err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	now = now.Add(10 * time.Minute)

	if n := reg.Reap(); n != 1 {
		t.Fatalf("want 1 reaped, got %d", n)
	}
	if _, err := reg.Get(idle.ID()); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Fatalf("idle workspace should be gone, got %v", err)
	}
	if !idle.Closed() {
		t.Fatalf("reaped workspace should be closed")
	}
	if _, err := reg.Get(active.ID()); err != nil {
		t.Fatalf("active workspace should remain: %v", err)
	}
}

func TestRegistryReapsInvalidatedSessions(t *testing.T) {
	client, err := catalog.NewClient("http://127.0.0.1:1/api", nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	reg := NewRegistry(Deps{Catalog: client})
	ws, err := reg.Open("token-1")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	ws.Session().Invalidate("logout")
	if n := reg.Reap(); n != 1 {
		t.Fatalf("want invalidated session reaped, got %d", n)
	}
	if reg.Len() != 0 {
		t.Fatalf("registry should be empty, got %d", reg.Len())
	}
}

func TestRegistryOpenRejectsEmptyToken(t *testing.T) {
	client, err := catalog.NewClient("http://127.0.0.1:1/api", nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	reg := NewRegistry(Deps{Catalog: client})
	if _, err := reg.Open("  "); !errors.Is(err, session.ErrTokenMissing) {
		t.Fatalf("want ErrTokenMissing, got %v", err)
	}
}

func TestPendingNavigatorKeepsLastTarget(t *testing.T) {
	nav := &PendingNavigator{}
	nav.Navigate("/products")
	nav.Navigate("")
	nav.Navigate("/login")
	if got := nav.Pop(); got != "/login" {
		t.Fatalf("want /login, got %q", got)
	}
	if got := nav.Pop(); got != "" {
		t.Fatalf("pop should clear, got %q", got)
	}
	if h := nav.History(); len(h) != 2 {
		t.Fatalf("want 2 history entries, got %v", h)
	}
}
