package timer

import (
	"sync"
	"time"
)

// Fake 手动推进的调度器，回调在 Advance 的调用方 goroutine 中同步执行
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	owner   *Fake
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// NewFake 创建假调度器
func NewFake() *Fake {
	return &Fake{}
}

// AfterFunc 登记一个在 now+d 触发的回调
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d < 0 {
		d = 0
	}
	t := &fakeTimer{owner: f, at: f.now + d, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance 推进时间并按截止时间顺序触发到期回调（包括回调中新登记的任务）
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		f.mu.Lock()
		var next *fakeTimer
		for _, t := range f.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.at
		next.fired = true
		f.mu.Unlock()
		next.fn()
	}
}

// Pending 返回尚未触发且未取消的任务数
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

// Elapsed 返回已推进的总时长
func (f *Fake) Elapsed() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}
