package models

import "time"

// SubmissionLog 控制台表单提交记录
// 说明：每次商品或基础数据提交的结果，用于后台审计与最近操作列表。
type SubmissionLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	SessionID string    `gorm:"type:varchar(64);index" json:"session_id"` // 控制台会话ID
	Subject   string    `gorm:"type:varchar(128);index" json:"subject"`   // 令牌主体
	FormID    string    `gorm:"type:varchar(64)" json:"form_id"`          // 表单ID
	Entity    string    `gorm:"type:varchar(32);index" json:"entity"`     // 实体类型（product/category/...）
	Action    string    `gorm:"type:varchar(16);not null" json:"action"`  // 动作（create/update/delete/upload）
	EntityID  string    `gorm:"type:varchar(64);index" json:"entity_id"`  // 后端实体ID（新建失败时为空）
	Outcome   string    `gorm:"type:varchar(16);index" json:"outcome"`    // 结果（succeeded/failed/invalid）
	Message   string    `gorm:"type:text" json:"message"`                 // 展示给用户的提示
	RequestID string    `gorm:"type:varchar(64);index" json:"request_id"` // 请求追踪ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                  // 记录时间
}

// TableName 指定表名
func (SubmissionLog) TableName() string {
	return "submission_logs"
}
