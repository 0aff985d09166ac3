package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/provider"
	"github.com/pasarantar/admin-console/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReferenceRefresh, c.handleReferenceRefresh)
	mux.HandleFunc(queue.TaskJournalPrune, c.handleJournalPrune)
}

func (c *Consumer) handleReferenceRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reference_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReferenceRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reference_refresh_unmarshal_failed", "error", err)
		return err
	}
	if c.ReferenceService == nil {
		logger.Warnw("worker_reference_refresh_skip_service_nil", "entity", payload.Entity)
		return nil
	}
	// 没有服务令牌时无法访问目录，下次会话加载时会自行回源
	if c.ServiceCatalog == nil {
		logger.Debugw("worker_reference_refresh_skip_no_service_token", "entity", payload.Entity, "reason", payload.Reason)
		return nil
	}
	refs, err := c.ReferenceService.Refresh(ctx, c.ServiceCatalog)
	if err != nil {
		logger.Warnw("worker_reference_refresh_failed",
			"entity", payload.Entity,
			"reason", payload.Reason,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_reference_refreshed",
		"entity", payload.Entity,
		"reason", payload.Reason,
		"lag_ms", time.Since(payload.RequestedAt).Milliseconds(),
		"categories", len(refs.Categories),
		"units", len(refs.Units),
		"tags", len(refs.Tags),
	)
	return nil
}

func (c *Consumer) handleJournalPrune(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_journal_prune_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.JournalPrunePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_journal_prune_unmarshal_failed", "error", err)
		return err
	}
	if payload.RetentionDays <= 0 {
		logger.Debugw("worker_journal_prune_skip_invalid_payload", "retention_days", payload.RetentionDays)
		return nil
	}
	return c.pruneJournal(time.Duration(payload.RetentionDays) * 24 * time.Hour)
}

func (c *Consumer) pruneJournal(retention time.Duration) error {
	if c.JournalService == nil {
		logger.Warnw("worker_journal_prune_skip_service_nil")
		return nil
	}
	if _, err := c.JournalService.PruneOlderThan(retention); err != nil {
		logger.Warnw("worker_journal_prune_failed", "retention", retention.String(), "error", err)
		return err
	}
	return nil
}
