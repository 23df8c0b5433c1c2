package audit_logs

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	users_models "logview/internal/features/users/models"

	"github.com/google/uuid"
)

type AuditLogService struct {
	auditLogRepository *AuditLogRepository
	logger             *slog.Logger
}

// WriteAuditLog persists an audit entry. Failures are logged, never
// propagated: audit writing must not break the operation being audited.
func (s *AuditLogService) WriteAuditLog(message string, userID *uuid.UUID) {
	log := &AuditLog{
		ID:        uuid.New(),
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.auditLogRepository.CreateAuditLog(log); err != nil {
		s.logger.Error("Failed to write audit log",
			slog.String("message", message),
			slog.String("error", err.Error()))
	}
}

func (s *AuditLogService) GetGlobalAuditLogs(
	user *users_models.User,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	if !user.CanViewAuditLogs() {
		return nil, errors.New("only administrators can view audit logs")
	}

	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	logs, total, err := s.auditLogRepository.GetAuditLogs(limit, request.Offset, request.BeforeDate, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return &GetAuditLogsResponse{AuditLogs: logs, Total: total}, nil
}

func (s *AuditLogService) GetUserAuditLogs(
	user *users_models.User,
	userID uuid.UUID,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	if !user.CanViewAuditLogs() && user.ID != userID {
		return nil, errors.New("insufficient permissions to view audit logs")
	}

	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	logs, total, err := s.auditLogRepository.GetAuditLogs(limit, request.Offset, request.BeforeDate, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return &GetAuditLogsResponse{AuditLogs: logs, Total: total}, nil
}
