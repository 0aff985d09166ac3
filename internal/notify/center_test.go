package notify

import (
	"testing"
	"time"

	"github.com/pasarantar/admin-console/internal/timer"
)

func newTestCenter(t *testing.T) (*Center, *timer.Fake) {
	t.Helper()
	clock := timer.NewFake()
	return NewCenter(WithScheduler(clock)), clock
}

func TestShowAppliesDefaults(t *testing.T) {
	center, _ := newTestCenter(t)
	id := center.Show(Spec{Title: "Halo"})
	if id == "" {
		t.Fatalf("expected id")
	}
	item, ok := center.Get(id)
	if !ok {
		t.Fatalf("notification not found")
	}
	if item.Kind != KindInfo || item.Position != PositionTopRight {
		t.Fatalf("unexpected defaults: kind=%s position=%s", item.Kind, item.Position)
	}
	if item.Duration != DefaultDuration || item.DurationMS != 5000 {
		t.Fatalf("unexpected duration: %v", item.Duration)
	}
	if !item.Visible {
		t.Fatalf("expected visible=true")
	}
}

func TestAutoHideThenRemove(t *testing.T) {
	center, clock := newTestCenter(t)
	id := center.Success("Berhasil", "Produk berhasil ditambahkan.")

	clock.Advance(4999 * time.Millisecond)
	item, _ := center.Get(id)
	if !item.Visible {
		t.Fatalf("expected visible before deadline")
	}

	clock.Advance(time.Millisecond)
	item, ok := center.Get(id)
	if !ok || item.Visible {
		t.Fatalf("expected hidden but present after duration, ok=%v visible=%v", ok, item.Visible)
	}

	clock.Advance(299 * time.Millisecond)
	if _, ok := center.Get(id); !ok {
		t.Fatalf("expected record during grace period")
	}
	clock.Advance(time.Millisecond)
	if _, ok := center.Get(id); ok {
		t.Fatalf("expected record removed after grace period")
	}
}

func TestRapidShowProducesIndependentRecords(t *testing.T) {
	center, clock := newTestCenter(t)
	ids := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		id := center.Show(Spec{Title: "n", Duration: time.Duration(i+1) * 100 * time.Millisecond})
		ids[id] = struct{}{}
	}
	if len(ids) != 10 || center.Len() != 10 {
		t.Fatalf("expected 10 distinct records, ids=%d len=%d", len(ids), center.Len())
	}

	// 第一条 100ms 隐藏、400ms 移除；其余仍在
	clock.Advance(400 * time.Millisecond)
	if center.Len() != 9 {
		t.Fatalf("expected 9 records, got %d", center.Len())
	}
	list := center.List()
	if !list[len(list)-1].Visible {
		t.Fatalf("expected last record still visible")
	}

	clock.Advance(time.Second + 300*time.Millisecond)
	if center.Len() != 0 {
		t.Fatalf("expected all records removed, got %d", center.Len())
	}
}

func TestDismissKeepsGraceAndCancelsAutoHide(t *testing.T) {
	center, clock := newTestCenter(t)
	id := center.Error("Gagal", "x")

	if !center.Dismiss(id) {
		t.Fatalf("expected dismiss to hide")
	}
	if center.Dismiss(id) {
		t.Fatalf("second dismiss should be a no-op")
	}
	if clock.Pending() != 1 {
		t.Fatalf("expected only the removal timer pending, got %d", clock.Pending())
	}
	item, ok := center.Get(id)
	if !ok || item.Visible {
		t.Fatalf("expected hidden record during grace")
	}
	clock.Advance(HideGrace)
	if center.Len() != 0 {
		t.Fatalf("expected removal after grace")
	}
}

func TestRemoveIsUnconditional(t *testing.T) {
	center, clock := newTestCenter(t)
	id := center.Warning("Perhatian", "")
	if !center.Remove(id) {
		t.Fatalf("expected remove=true")
	}
	if center.Remove(id) {
		t.Fatalf("expected remove=false for missing id")
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected timers cancelled, got %d", clock.Pending())
	}
}

func TestOnChangeAndClose(t *testing.T) {
	clock := timer.NewFake()
	var calls int
	var last []Notification
	center := NewCenter(WithScheduler(clock), WithOnChange(func(items []Notification) {
		calls++
		last = items
	}))
	center.Info("Informasi", "a", PositionBottomLeft)
	if calls != 1 || len(last) != 1 || last[0].Position != PositionBottomLeft {
		t.Fatalf("unexpected change callback: calls=%d last=%+v", calls, last)
	}

	center.Close()
	if center.Len() != 0 || clock.Pending() != 0 {
		t.Fatalf("expected empty center after close")
	}
	if id := center.Show(Spec{Title: "late"}); id != "" {
		t.Fatalf("expected show after close to be ignored")
	}
}
