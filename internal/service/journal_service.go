package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pasarantar/admin-console/internal/form"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/models"
	"github.com/pasarantar/admin-console/internal/repository"
)

const defaultJournalPageSize = 20

// ErrJournalUnavailable 未配置提交记录存储
var ErrJournalUnavailable = errors.New("journal unavailable")

// JournalService 表单提交记录服务
type JournalService struct {
	repo      repository.SubmissionLogRepository
	pageSize  int
	retention time.Duration
	now       func() time.Time
}

// NewJournalService 创建提交记录服务；retention 为 0 时不清理
func NewJournalService(repo repository.SubmissionLogRepository, pageSize int, retention time.Duration) *JournalService {
	if pageSize <= 0 {
		pageSize = defaultJournalPageSize
	}
	return &JournalService{repo: repo, pageSize: pageSize, retention: retention, now: time.Now}
}

// JournalActor 提交者信息
type JournalActor struct {
	SessionID string
	Subject   string
}

// Recorder 返回绑定到某个会话的记录器
func (s *JournalService) Recorder(actor JournalActor) form.Recorder {
	return form.RecorderFunc(func(ctx context.Context, record form.SubmissionRecord) {
		s.Record(ctx, actor, record)
	})
}

// Record 写入一条提交记录；失败只记日志，不影响表单流程
func (s *JournalService) Record(ctx context.Context, actor JournalActor, record form.SubmissionRecord) {
	if s == nil || s.repo == nil {
		return
	}
	// 会话关闭后丢弃的结果没有用户可见的效果
	if record.Outcome == form.OutcomeDropped {
		return
	}
	entry := &models.SubmissionLog{
		SessionID: actor.SessionID,
		Subject:   actor.Subject,
		FormID:    record.FormID,
		Entity:    string(record.Entity),
		Action:    string(record.Action),
		EntityID:  record.EntityID,
		Outcome:   string(record.Outcome),
		Message:   record.Message,
		RequestID: RequestIDFrom(ctx),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(entry); err != nil {
		logger.Warnw("journal_record_failed",
			"session_id", actor.SessionID,
			"entity", entry.Entity,
			"action", entry.Action,
			"outcome", entry.Outcome,
			"error", err,
		)
	}
}

// JournalListInput 提交记录查询参数
type JournalListInput struct {
	Page      int
	PageSize  int
	SessionID string
	Entity    string
	EntityID  string
	Outcome   string
}

// List 分页查询提交记录
func (s *JournalService) List(input JournalListInput) ([]models.SubmissionLog, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrJournalUnavailable
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	return s.repo.List(repository.SubmissionLogFilter{
		Page:      page,
		PageSize:  pageSize,
		SessionID: input.SessionID,
		Entity:    strings.ToLower(strings.TrimSpace(input.Entity)),
		EntityID:  input.EntityID,
		Outcome:   strings.ToLower(strings.TrimSpace(input.Outcome)),
	})
}

// Stats 按结果统计
func (s *JournalService) Stats(sessionID string) ([]repository.OutcomeCount, error) {
	if s == nil || s.repo == nil {
		return nil, ErrJournalUnavailable
	}
	return s.repo.CountByOutcome(sessionID)
}

// Prune 按配置的保留期清理记录
func (s *JournalService) Prune() (int64, error) {
	if s == nil {
		return 0, ErrJournalUnavailable
	}
	return s.PruneOlderThan(s.retention)
}

// Retention 配置的保留期
func (s *JournalService) Retention() time.Duration {
	if s == nil {
		return 0
	}
	return s.retention
}

// PruneOlderThan 删除早于 now-retention 的记录，retention 不大于 0 时不清理
func (s *JournalService) PruneOlderThan(retention time.Duration) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, ErrJournalUnavailable
	}
	if retention <= 0 {
		return 0, nil
	}
	removed, err := s.repo.DeleteBefore(s.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Infow("journal_pruned", "removed", removed, "retention", retention.String())
	}
	return removed, nil
}
