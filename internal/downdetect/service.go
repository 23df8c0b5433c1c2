package downdetect

import (
	"fmt"
	"os"

	"logview/internal/config"
	"logview/internal/storage"
	cache_utils "logview/internal/util/cache"
)

type DowndetectService struct{}

func (s *DowndetectService) IsAvailable() error {
	if err := storage.GetDb().Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	if err := s.testCacheConnection(); err != nil {
		return fmt.Errorf("cache check failed: %w", err)
	}

	logDir := config.GetEnv().LogDir
	if info, err := os.Stat(logDir); err != nil || !info.IsDir() {
		return fmt.Errorf("log directory check failed: %s is not readable", logDir)
	}

	return nil
}

func (s *DowndetectService) testCacheConnection() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache connection test panicked: %v", r)
		}
	}()

	cache_utils.TestCacheConnection()
	return nil
}
