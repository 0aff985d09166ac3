package repository

import "time"

// SubmissionLogFilter 查询提交记录的过滤条件
type SubmissionLogFilter struct {
	Page        int
	PageSize    int
	SessionID   string
	Subject     string
	Entity      string
	EntityID    string
	Outcome     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// OutcomeCount 按结果聚合的数量
type OutcomeCount struct {
	Outcome string `json:"outcome"`
	Total   int64  `json:"total"`
}
