package audit_logs

import (
	"time"

	"logview/internal/storage"

	"github.com/google/uuid"
)

type AuditLogRepository struct{}

func (r *AuditLogRepository) CreateAuditLog(log *AuditLog) error {
	return storage.GetDb().Create(log).Error
}

func (r *AuditLogRepository) GetAuditLogs(
	limit, offset int,
	beforeCreatedAt *time.Time,
	userID *uuid.UUID,
) ([]*AuditLog, int64, error) {
	var logs []*AuditLog
	var total int64

	countQuery := storage.GetDb().Model(&AuditLog{})
	query := storage.GetDb().Limit(limit).Offset(offset).Order("created_at DESC")

	if beforeCreatedAt != nil {
		countQuery = countQuery.Where("created_at < ?", *beforeCreatedAt)
		query = query.Where("created_at < ?", *beforeCreatedAt)
	}

	if userID != nil {
		countQuery = countQuery.Where("user_id = ?", *userID)
		query = query.Where("user_id = ?", *userID)
	}

	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
