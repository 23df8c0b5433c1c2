package logs_files

import (
	"logview/internal/util/logger"
)

var logFileRepository = &LogFileRepository{}

var logFileService = &LogFileService{
	logFileRepository,
	nil, // audit writer installed by audit_logs.SetupDependencies
	logger.GetLogger(),
}

var logFileController = &LogFileController{
	logFileService,
}

func GetLogFileService() *LogFileService {
	return logFileService
}

func GetLogFileController() *LogFileController {
	return logFileController
}
