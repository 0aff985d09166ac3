package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/form"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/notify"
	"github.com/pasarantar/admin-console/internal/queue"

	"github.com/hibiken/asynq"
)

// CacheKey 参考数据缓存键
const CacheKey = "console:references"

const defaultTTL = 10 * time.Minute

// ErrSourceMissing 未提供目录客户端
var ErrSourceMissing = errors.New("reference source missing")

// Source 拉取参考数据的目录接口
type Source interface {
	Categories() *catalog.Resource[catalog.Category, catalog.Category]
	Units() *catalog.Resource[catalog.Unit, catalog.Unit]
	Tags() *catalog.Resource[catalog.Tag, catalog.Tag]
}

// Refresher 异步刷新投递
type Refresher interface {
	Enabled() bool
	EnqueueReferenceRefresh(payload queue.ReferenceRefreshPayload, opts ...asynq.Option) error
}

// Service 分类/单位/标签参考数据服务
type Service struct {
	store     Store
	ttl       time.Duration
	refresher Refresher
}

// NewService 创建参考数据服务
func NewService(store Store, ttl time.Duration, refresher Refresher) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{store: store, ttl: ttl, refresher: refresher}
}

// Load 优先读取缓存，未命中时从目录拉取并回写
func (s *Service) Load(ctx context.Context, src Source) (form.References, error) {
	var refs form.References
	hit, err := s.store.GetJSON(ctx, CacheKey, &refs)
	if err != nil {
		logger.Warnw("reference_cache_read_failed", "error", err)
	}
	if hit {
		return refs, nil
	}
	return s.Refresh(ctx, src)
}

// Refresh 从目录拉取并覆盖缓存
func (s *Service) Refresh(ctx context.Context, src Source) (form.References, error) {
	if src == nil {
		return form.References{}, ErrSourceMissing
	}
	var refs form.References
	var err error
	if refs.Categories, err = listAll(ctx, src.Categories()); err != nil {
		return form.References{}, fmt.Errorf("load categories: %w", err)
	}
	if refs.Units, err = listAll(ctx, src.Units()); err != nil {
		return form.References{}, fmt.Errorf("load units: %w", err)
	}
	if refs.Tags, err = listAll(ctx, src.Tags()); err != nil {
		return form.References{}, fmt.Errorf("load tags: %w", err)
	}
	if err := s.store.SetJSON(ctx, CacheKey, refs, s.ttl); err != nil {
		logger.Warnw("reference_cache_write_failed", "error", err)
	}
	logger.Debugw("reference_refreshed",
		"categories", len(refs.Categories),
		"units", len(refs.Units),
		"tags", len(refs.Tags),
	)
	return refs, nil
}

// Invalidate 参考实体保存后调用；队列可用时交给 worker 重建，否则直接删除缓存
func (s *Service) Invalidate(ctx context.Context, entity notify.Entity, reason string) {
	if !Affects(entity) {
		return
	}
	if s.refresher != nil && s.refresher.Enabled() {
		err := s.refresher.EnqueueReferenceRefresh(queue.ReferenceRefreshPayload{
			Entity: string(entity),
			Reason: reason,
		})
		if err == nil {
			return
		}
		logger.Warnw("reference_refresh_enqueue_failed", "entity", entity, "error", err)
	}
	if err := s.store.Del(ctx, CacheKey); err != nil {
		logger.Warnw("reference_cache_delete_failed", "entity", entity, "error", err)
	}
}

// Affects 是否属于参考数据实体
func Affects(entity notify.Entity) bool {
	switch entity {
	case notify.EntityCategory, notify.EntityUnit, notify.EntityTag:
		return true
	}
	return false
}

func listAll[T any](ctx context.Context, res *catalog.Resource[T, T]) ([]T, error) {
	env, err := res.List(ctx, catalog.ListQuery{})
	if err != nil {
		return nil, err
	}
	items, err := env.Value()
	if err != nil {
		if errors.Is(err, catalog.ErrNoData) {
			return []T{}, nil
		}
		return nil, err
	}
	return *items, nil
}
