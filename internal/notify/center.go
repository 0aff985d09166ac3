package notify

import (
	"sync"
	"time"

	"github.com/pasarantar/admin-console/internal/timer"

	"github.com/google/uuid"
)

// Center 通知投递中心
// 维护有序的活动通知列表：展示 duration 后自动隐藏，隐藏 HideGrace 后移除
type Center struct {
	mu              sync.Mutex
	scheduler       timer.Scheduler
	defaultDuration time.Duration
	hideGrace       time.Duration
	now             func() time.Time
	onChange        func([]Notification)

	items        []*Notification
	hideTimers   map[string]timer.Timer
	removeTimers map[string]timer.Timer
	closed       bool
}

// Option 通知中心配置项
type Option func(*Center)

// WithScheduler 指定调度器
func WithScheduler(s timer.Scheduler) Option {
	return func(c *Center) {
		c.scheduler = timer.OrReal(s)
	}
}

// WithDefaultDuration 指定默认展示时长
func WithDefaultDuration(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.defaultDuration = d
		}
	}
}

// WithHideGrace 指定隐藏到移除的间隔
func WithHideGrace(d time.Duration) Option {
	return func(c *Center) {
		if d >= 0 {
			c.hideGrace = d
		}
	}
}

// WithOnChange 列表变化回调（在锁外调用，参数为快照）
func WithOnChange(fn func([]Notification)) Option {
	return func(c *Center) {
		c.onChange = fn
	}
}

// NewCenter 创建通知中心
func NewCenter(opts ...Option) *Center {
	c := &Center{
		scheduler:       timer.Real(),
		defaultDuration: DefaultDuration,
		hideGrace:       HideGrace,
		now:             time.Now,
		hideTimers:      make(map[string]timer.Timer),
		removeTimers:    make(map[string]timer.Timer),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Show 追加一条可见通知并安排自动隐藏，返回通知 ID
func (c *Center) Show(spec Spec) string {
	duration := spec.Duration
	if duration <= 0 {
		duration = c.defaultDuration
	}
	kind := spec.Kind
	if !IsValidKind(kind) {
		kind = KindInfo
	}
	item := &Notification{
		ID:         uuid.NewString(),
		Title:      spec.Title,
		Message:    spec.Message,
		Kind:       kind,
		Position:   NormalizePosition(spec.Position),
		Duration:   duration,
		DurationMS: duration.Milliseconds(),
		Visible:    true,
		CreatedAt:  c.now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ""
	}
	c.items = append(c.items, item)
	id := item.ID
	c.hideTimers[id] = c.scheduler.AfterFunc(duration, func() {
		c.Hide(id)
	})
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snapshot)
	return id
}

// Hide 将通知置为不可见，并在 hideGrace 后移除
// 已隐藏或不存在的通知返回 false
func (c *Center) Hide(id string) bool {
	c.mu.Lock()
	item := c.findLocked(id)
	if item == nil || !item.Visible {
		c.mu.Unlock()
		return false
	}
	item.Visible = false
	if t, ok := c.hideTimers[id]; ok {
		t.Stop()
		delete(c.hideTimers, id)
	}
	c.removeTimers[id] = c.scheduler.AfterFunc(c.hideGrace, func() {
		c.Remove(id)
	})
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snapshot)
	return true
}

// Dismiss 手动关闭通知，仍然保留退场动画时间
func (c *Center) Dismiss(id string) bool {
	return c.Hide(id)
}

// Remove 无条件从活动列表中删除通知
func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	index := -1
	for i, item := range c.items {
		if item.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	c.stopTimersLocked(id)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snapshot)
	return true
}

// Success 成功通知
func (c *Center) Success(title, message string, position ...Position) string {
	return c.Show(Spec{Title: title, Message: message, Kind: KindSuccess, Position: firstPosition(position)})
}

// Error 失败通知
func (c *Center) Error(title, message string, position ...Position) string {
	return c.Show(Spec{Title: title, Message: message, Kind: KindError, Position: firstPosition(position)})
}

// Warning 警告通知
func (c *Center) Warning(title, message string, position ...Position) string {
	return c.Show(Spec{Title: title, Message: message, Kind: KindWarning, Position: firstPosition(position)})
}

// Info 提示通知
func (c *Center) Info(title, message string, position ...Position) string {
	return c.Show(Spec{Title: title, Message: message, Kind: KindInfo, Position: firstPosition(position)})
}

// List 返回活动通知快照（按创建顺序）
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Get 按 ID 查询通知
func (c *Center) Get(id string) (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.findLocked(id)
	if item == nil {
		return Notification{}, false
	}
	return *item, true
}

// Len 活动通知数量
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close 停止全部计时器并清空列表，之后的 Show 不再生效
func (c *Center) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, item := range c.items {
		c.stopTimersLocked(item.ID)
	}
	c.items = nil
	c.mu.Unlock()

	c.emit(nil)
}

func (c *Center) findLocked(id string) *Notification {
	for _, item := range c.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (c *Center) stopTimersLocked(id string) {
	if t, ok := c.hideTimers[id]; ok {
		t.Stop()
		delete(c.hideTimers, id)
	}
	if t, ok := c.removeTimers[id]; ok {
		t.Stop()
		delete(c.removeTimers, id)
	}
}

func (c *Center) snapshotLocked() []Notification {
	result := make([]Notification, 0, len(c.items))
	for _, item := range c.items {
		result = append(result, *item)
	}
	return result
}

func (c *Center) emit(snapshot []Notification) {
	if c.onChange != nil {
		c.onChange(snapshot)
	}
}

func firstPosition(position []Position) Position {
	if len(position) == 0 {
		return PositionTopRight
	}
	return position[0]
}
