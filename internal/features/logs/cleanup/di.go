package logs_cleanup

import (
	"sync"

	"logview/internal/util/logger"
)

var logCleanupBackgroundService = &LogCleanupBackgroundService{
	logger.GetLogger(),
	nil,
	nil,
	sync.WaitGroup{},
}

func GetLogCleanupBackgroundService() *LogCleanupBackgroundService {
	return logCleanupBackgroundService
}
