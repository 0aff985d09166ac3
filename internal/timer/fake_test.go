package timer

import (
	"testing"
	"time"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	clock := NewFake()
	var fired []string
	clock.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "remove") })
	clock.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, "hide")
		// 回调中登记的任务在同一次推进里到期也会触发
		clock.AfterFunc(50*time.Millisecond, func() { fired = append(fired, "nested") })
	})

	clock.Advance(200 * time.Millisecond)
	if len(fired) != 2 || fired[0] != "hide" || fired[1] != "nested" {
		t.Fatalf("unexpected order %v", fired)
	}
	if clock.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", clock.Pending())
	}
	clock.Advance(100 * time.Millisecond)
	if len(fired) != 3 || fired[2] != "remove" {
		t.Fatalf("remove should fire at 300ms, got %v", fired)
	}
	if clock.Elapsed() != 300*time.Millisecond {
		t.Fatalf("unexpected elapsed %s", clock.Elapsed())
	}
}

func TestFakeStopCancelsTimer(t *testing.T) {
	clock := NewFake()
	called := false
	tm := clock.AfterFunc(time.Second, func() { called = true })
	if !tm.Stop() {
		t.Fatalf("first stop should report true")
	}
	if tm.Stop() {
		t.Fatalf("second stop should report false")
	}
	clock.Advance(2 * time.Second)
	if called || clock.Pending() != 0 {
		t.Fatalf("stopped timer must not fire")
	}
}

func TestOrRealFallsBack(t *testing.T) {
	if _, ok := OrReal(nil).(realScheduler); !ok {
		t.Fatalf("nil scheduler should fall back to real")
	}
	clock := NewFake()
	if OrReal(clock) != Scheduler(clock) {
		t.Fatalf("non-nil scheduler should be kept")
	}
}
