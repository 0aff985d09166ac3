package loader

import (
	"context"
	"sync"
	"time"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/notify"
	"github.com/pasarantar/admin-console/internal/timer"
)

// DefaultRedirectDelay 加载失败后跳转前的停留时间
const DefaultRedirectDelay = 2000 * time.Millisecond

// Navigator 导航出口，调用方不等待其完成
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc 函数适配
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Config 加载器配置
type Config[T any, V any] struct {
	Fetch func(ctx context.Context, id string) (*catalog.Envelope[T], error)
	// Transform 为空时 T 必须与 V 相同
	Transform func(*T) (V, error)
	// RedirectTo 为空时失败只记录错误，不跳转
	RedirectTo    string
	Navigator     Navigator
	RedirectDelay time.Duration
	Scheduler     timer.Scheduler
	// OnLoaded 成功加载后回调（在锁外调用）
	OnLoaded func(id string, value V)
}

// State 加载状态快照
type State[V any] struct {
	ID       string `json:"id"`
	Data     *V     `json:"data,omitempty"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Loader 按 ID 加载实体并映射为视图模型
// 每次加载递增序号，只有最新一次的结果会被采用
type Loader[T any, V any] struct {
	cfg Config[T, V]

	mu       sync.Mutex
	seq      uint64
	id       string
	data     *V
	loading  bool
	errMsg   string
	redirect timer.Timer
	pending  string
	closed   bool
}

// New 创建加载器
func New[T any, V any](cfg Config[T, V]) *Loader[T, V] {
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}
	cfg.Scheduler = timer.OrReal(cfg.Scheduler)
	return &Loader[T, V]{cfg: cfg}
}

// Load ID 变化时加载；相同 ID 已有数据或正在加载时跳过
func (l *Loader[T, V]) Load(ctx context.Context, id string) State[V] {
	l.mu.Lock()
	if !l.closed && id == l.id && (l.loading || l.data != nil) {
		state := l.stateLocked()
		l.mu.Unlock()
		return state
	}
	l.mu.Unlock()
	return l.fetch(ctx, id)
}

// Refetch 无条件重新加载当前 ID
func (l *Loader[T, V]) Refetch(ctx context.Context) State[V] {
	l.mu.Lock()
	id := l.id
	l.mu.Unlock()
	return l.fetch(ctx, id)
}

func (l *Loader[T, V]) fetch(ctx context.Context, id string) State[V] {
	l.mu.Lock()
	if l.closed {
		state := l.stateLocked()
		l.mu.Unlock()
		return state
	}
	l.seq++
	seq := l.seq
	if id != l.id {
		l.data = nil
	}
	l.id = id
	l.loading = true
	l.errMsg = ""
	l.cancelRedirectLocked()
	l.mu.Unlock()

	value, errMsg := l.run(ctx, id)

	l.mu.Lock()
	if l.closed || seq != l.seq {
		state := l.stateLocked()
		l.mu.Unlock()
		logger.Debugw("loader_stale_response_dropped", "id", id, "seq", seq)
		return state
	}
	l.loading = false
	if errMsg != "" {
		l.errMsg = errMsg
		l.data = nil
		l.scheduleRedirectLocked(seq)
		state := l.stateLocked()
		l.mu.Unlock()
		return state
	}
	l.data = value
	state := l.stateLocked()
	l.mu.Unlock()

	if l.cfg.OnLoaded != nil && value != nil {
		l.cfg.OnLoaded(id, *value)
	}
	return state
}

// run 执行请求与映射，失败时返回归一化后的错误文案
func (l *Loader[T, V]) run(ctx context.Context, id string) (*V, string) {
	env, err := l.cfg.Fetch(ctx, id)
	if err != nil {
		logger.Warnw("loader_fetch_failed", "id", id, "error", err)
		return nil, notify.ErrorMessage(err)
	}
	data, err := env.Value()
	if err != nil {
		return nil, notify.ErrorMessage(err)
	}
	if l.cfg.Transform != nil {
		value, err := l.cfg.Transform(data)
		if err != nil {
			logger.Warnw("loader_transform_failed", "id", id, "error", err)
			return nil, notify.ErrorMessage(err)
		}
		return &value, ""
	}
	value, ok := any(*data).(V)
	if !ok {
		return nil, notify.FallbackErrorMessage
	}
	return &value, ""
}

func (l *Loader[T, V]) scheduleRedirectLocked(seq uint64) {
	if l.cfg.RedirectTo == "" || l.cfg.Navigator == nil {
		return
	}
	target := l.cfg.RedirectTo
	l.pending = target
	l.redirect = l.cfg.Scheduler.AfterFunc(l.cfg.RedirectDelay, func() {
		l.mu.Lock()
		if l.closed || seq != l.seq {
			l.mu.Unlock()
			return
		}
		l.redirect = nil
		l.pending = ""
		l.mu.Unlock()
		l.cfg.Navigator.Navigate(target)
	})
}

func (l *Loader[T, V]) cancelRedirectLocked() {
	if l.redirect != nil {
		l.redirect.Stop()
		l.redirect = nil
	}
	l.pending = ""
}

// State 当前状态
func (l *Loader[T, V]) State() State[V] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

func (l *Loader[T, V]) stateLocked() State[V] {
	return State[V]{
		ID:       l.id,
		Data:     l.data,
		Loading:  l.loading,
		Error:    l.errMsg,
		Redirect: l.pending,
	}
}

// Close 停止待执行的跳转，之后到达的响应被忽略
func (l *Loader[T, V]) Close() {
	l.mu.Lock()
	l.closed = true
	l.cancelRedirectLocked()
	l.mu.Unlock()
}
