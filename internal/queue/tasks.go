package queue

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskReferenceRefresh 重建分类/单位/标签参考数据缓存
	TaskReferenceRefresh = "console:reference_refresh"
	// TaskJournalPrune 清理过期提交记录
	TaskJournalPrune = "console:journal_prune"
)

// ReferenceRefreshPayload 参考数据刷新任务载荷
type ReferenceRefreshPayload struct {
	Entity      string    `json:"entity"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// JournalPrunePayload 提交记录清理任务载荷
type JournalPrunePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewReferenceRefreshTask 创建参考数据刷新任务
func NewReferenceRefreshTask(payload ReferenceRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferenceRefresh, body), nil
}

// NewJournalPruneTask 创建提交记录清理任务
func NewJournalPruneTask(payload JournalPrunePayload) (*asynq.Task, error) {
	if payload.RetentionDays <= 0 {
		return nil, errors.New("retention days must be positive")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskJournalPrune, body), nil
}
