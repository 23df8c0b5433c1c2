package sessions

import (
	"logview/internal/cache"
	cache_utils "logview/internal/util/cache"
	"logview/internal/util/logger"
)

var sessionService = &SessionService{
	&SessionRepository{},
	cache_utils.NewCacheUtilWithExpiry[Session](cache.GetCache(), "sessions:", sessionCacheExpiry),
	logger.GetLogger(),
}

func GetSessionService() *SessionService {
	return sessionService
}
