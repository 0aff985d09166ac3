package repository

import (
	"strings"
	"time"

	"github.com/pasarantar/admin-console/internal/models"

	"gorm.io/gorm"
)

// SubmissionLogRepository 表单提交记录数据访问接口
type SubmissionLogRepository interface {
	Create(log *models.SubmissionLog) error
	List(filter SubmissionLogFilter) ([]models.SubmissionLog, int64, error)
	CountByOutcome(sessionID string) ([]OutcomeCount, error)
	DeleteBefore(cutoff time.Time) (int64, error)
}

// GormSubmissionLogRepository GORM 实现
type GormSubmissionLogRepository struct {
	db *gorm.DB
}

// NewSubmissionLogRepository 创建提交记录仓库
func NewSubmissionLogRepository(db *gorm.DB) *GormSubmissionLogRepository {
	return &GormSubmissionLogRepository{db: db}
}

// Create 写入一条提交记录
func (r *GormSubmissionLogRepository) Create(log *models.SubmissionLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 按条件分页查询，最新的在前
func (r *GormSubmissionLogRepository) List(filter SubmissionLogFilter) ([]models.SubmissionLog, int64, error) {
	query := r.db.Model(&models.SubmissionLog{})
	if v := strings.TrimSpace(filter.SessionID); v != "" {
		query = query.Where("session_id = ?", v)
	}
	if v := strings.TrimSpace(filter.Subject); v != "" {
		query = query.Where("subject = ?", v)
	}
	if v := strings.TrimSpace(filter.Entity); v != "" {
		query = query.Where("entity = ?", v)
	}
	if v := strings.TrimSpace(filter.EntityID); v != "" {
		query = query.Where("entity_id = ?", v)
	}
	if v := strings.TrimSpace(filter.Outcome); v != "" {
		query = query.Where("outcome = ?", v)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var logs []models.SubmissionLog
	if err := query.Order("id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// CountByOutcome 统计各结果数量，sessionID 为空时统计全部
func (r *GormSubmissionLogRepository) CountByOutcome(sessionID string) ([]OutcomeCount, error) {
	query := r.db.Model(&models.SubmissionLog{})
	if v := strings.TrimSpace(sessionID); v != "" {
		query = query.Where("session_id = ?", v)
	}
	var rows []OutcomeCount
	err := query.Select("outcome, COUNT(*) AS total").
		Group("outcome").
		Order("outcome asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteBefore 清理早于 cutoff 的记录
func (r *GormSubmissionLogRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.SubmissionLog{})
	return result.RowsAffected, result.Error
}
