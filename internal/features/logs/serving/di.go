package logs_serving

import (
	"sync"

	logs_files "logview/internal/features/logs/files"
	cache_utils "logview/internal/util/cache"
	"logview/internal/util/logger"
)

var logWindowRepository = &LogWindowRepository{}

var logServingService = &LogServingService{
	logs_files.GetLogFileService(),
	logWindowRepository,
	nil, // audit writer installed by audit_logs.SetupDependencies
	logger.GetLogger(),
}

var logTailerService = &LogTailerService{
	logs_files.GetLogFileService(),
	NewStreamHub(),
	cache_utils.NewValkeyRingService(replayRingCapacity),
	logger.GetLogger(),
	nil,
	nil,
	sync.WaitGroup{},
	make(map[string]*tailState),
}

var logServingController = &LogServingController{
	logServingService,
	logTailerService,
}

func GetLogServingService() *LogServingService {
	return logServingService
}

func GetLogTailerService() *LogTailerService {
	return logTailerService
}

func GetLogServingController() *LogServingController {
	return logServingController
}
