package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/session"
)

// ErrWorkspaceNotFound 会话不存在或已被回收
var ErrWorkspaceNotFound = errors.New("workspace not found")

const (
	defaultIdleTimeout  = 30 * time.Minute
	defaultReapInterval = time.Minute
)

// Registry 按会话 ID 管理工作区，并定期回收空闲会话
type Registry struct {
	deps        Deps
	sessionOpts []session.Option
	idle        time.Duration
	interval    time.Duration
	now         func() time.Time

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

// RegistryOption 注册表配置项
type RegistryOption func(*Registry)

// WithIdleTimeout 空闲多久后回收
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idle = d
		}
	}
}

// WithReapInterval 回收扫描间隔
func WithReapInterval(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithSessionOptions 创建会话时使用的配置
func WithSessionOptions(opts ...session.Option) RegistryOption {
	return func(r *Registry) {
		r.sessionOpts = append(r.sessionOpts, opts...)
	}
}

// WithRegistryClock 指定时钟
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry 创建工作区注册表
func NewRegistry(deps Deps, opts ...RegistryOption) *Registry {
	r := &Registry{
		deps:       deps,
		idle:       defaultIdleTimeout,
		interval:   defaultReapInterval,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Open 用访问令牌建立会话并创建工作区
func (r *Registry) Open(token string) (*Workspace, error) {
	if r.deps.Catalog == nil {
		return nil, errors.New("catalog client is nil")
	}
	sess, err := session.New(token, r.sessionOpts...)
	if err != nil {
		return nil, err
	}
	ws := newWorkspace(sess, r.deps)

	r.mu.Lock()
	r.workspaces[ws.ID()] = ws
	total := len(r.workspaces)
	r.mu.Unlock()

	logger.Session(ws.ID()).Infow("console_workspace_opened",
		"subject", sess.Claims().Subject,
		"role", sess.Role(),
		"workspaces", total,
	)
	return ws, nil
}

// Get 查找工作区并刷新活动时间
func (r *Registry) Get(id string) (*Workspace, error) {
	r.mu.RLock()
	ws, ok := r.workspaces[id]
	r.mu.RUnlock()
	if !ok || ws.Closed() {
		return nil, ErrWorkspaceNotFound
	}
	ws.Session().Touch()
	return ws, nil
}

// Close 关闭并移除工作区
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	delete(r.workspaces, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	ws.Close()
	logger.Session(id).Infow("console_workspace_closed")
	return true
}

// Len 工作区数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

// Reap 回收空闲或令牌已失效的工作区，返回回收数量
func (r *Registry) Reap() int {
	now := r.now()
	r.mu.Lock()
	var stale []*Workspace
	for id, ws := range r.workspaces {
		sess := ws.Session()
		if !sess.Valid() || now.Sub(sess.LastSeen()) >= r.idle {
			stale = append(stale, ws)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range stale {
		ws.Close()
		logger.Session(ws.ID()).Infow("console_workspace_reaped", "reason", ws.Session().InvalidationReason())
	}
	return len(stale)
}

// Name 服务名称
func (r *Registry) Name() string {
	return "console-reaper"
}

// Start 定期回收，直到 ctx 结束
func (r *Registry) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Reap(); n > 0 {
				logger.Debugw("console_reap_done", "reaped", n, "remaining", r.Len())
			}
		}
	}
}

// Stop 关闭全部工作区
func (r *Registry) Stop(context.Context) error {
	r.mu.Lock()
	all := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()
	for _, ws := range all {
		ws.Close()
	}
	return nil
}
