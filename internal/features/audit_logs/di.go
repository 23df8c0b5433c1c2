package audit_logs

import (
	logs_files "logview/internal/features/logs/files"
	logs_serving "logview/internal/features/logs/serving"
	users_services "logview/internal/features/users/services"
	"logview/internal/util/logger"
)

var auditLogService = &AuditLogService{
	&AuditLogRepository{},
	logger.GetLogger(),
}

var auditLogController = &AuditLogController{
	auditLogService,
}

func GetAuditLogService() *AuditLogService {
	return auditLogService
}

func GetAuditLogController() *AuditLogController {
	return auditLogController
}

// SetupDependencies breaks the import cycle between audit logs and the
// features that write audit entries.
func SetupDependencies() {
	users_services.GetUserService().SetAuditLogWriter(auditLogService)
	logs_files.GetLogFileService().SetAuditLogWriter(auditLogService)
	logs_serving.GetLogServingService().SetAuditLogWriter(auditLogService)
}
