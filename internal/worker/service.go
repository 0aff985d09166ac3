package worker

import (
	"context"
	"errors"
	"time"

	"github.com/pasarantar/admin-console/internal/config"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	journalPruneInterval = 6 * time.Hour
)

// Service 异步队列服务
// 队列未启用时只运行本地的定时清理循环。
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	interval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	s := &Service{
		name:     "worker",
		consumer: consumer,
		interval: journalPruneInterval,
	}
	if cfg == nil || !cfg.Enabled {
		s.name = "journal-pruner"
		return s, nil
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	s.server = asynq.NewServer(opt, serverCfg)
	s.mux = asynq.NewServeMux()
	consumer.Register(s.mux)
	return s, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("worker not initialized")
	}
	if s.server == nil {
		s.runJournalPruneLoop(ctx)
		return nil
	}
	go s.runJournalPruneLoop(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runJournalPruneLoop(ctx context.Context) {
	journal := s.consumer.JournalService
	if journal == nil || journal.Retention() <= 0 {
		logger.Debugw("worker_journal_prune_loop_disabled")
		<-ctx.Done()
		return
	}
	s.schedulePrune(journal.Retention())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.schedulePrune(journal.Retention())
		}
	}
}

// schedulePrune 队列可用时投递任务，由任一 worker 执行；否则就地清理
func (s *Service) schedulePrune(retention time.Duration) {
	days := int(retention / (24 * time.Hour))
	if qc := s.consumer.QueueClient; qc.Enabled() && days > 0 {
		if err := qc.EnqueueJournalPrune(queue.JournalPrunePayload{RetentionDays: days}, 0); err != nil {
			logger.Warnw("worker_journal_prune_enqueue_failed", "error", err)
		}
		return
	}
	_ = s.consumer.pruneJournal(retention)
}
