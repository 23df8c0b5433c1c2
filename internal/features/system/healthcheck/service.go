package system_healthcheck

import (
	"fmt"
	"os"

	"logview/internal/config"
	"logview/internal/storage"
	cache_utils "logview/internal/util/cache"

	"github.com/shirou/gopsutil/v4/disk"
)

type HealthStatus struct {
	Status       string  `json:"status"`
	Database     string  `json:"database"`
	Cache        string  `json:"cache"`
	LogDirectory string  `json:"logDirectory"`
	DiskTotalMB  uint64  `json:"diskTotalMb"`
	DiskFreeMB   uint64  `json:"diskFreeMb"`
	DiskUsedPct  float64 `json:"diskUsedPercent"`
}

type HealthcheckService struct{}

// GetHealthStatus probes every dependency the viewer needs: the database,
// the valkey cache, the log directory and the disk it lives on. The overall
// status is "ok" only when all probes pass.
func (s *HealthcheckService) GetHealthStatus() (*HealthStatus, bool) {
	status := &HealthStatus{
		Status:       "ok",
		Database:     "ok",
		Cache:        "ok",
		LogDirectory: "ok",
	}
	healthy := true

	if err := storage.GetDb().Exec("SELECT 1").Error; err != nil {
		status.Database = err.Error()
		healthy = false
	}

	if err := s.testCacheConnection(); err != nil {
		status.Cache = err.Error()
		healthy = false
	}

	logDir := config.GetEnv().LogDir
	if info, err := os.Stat(logDir); err != nil || !info.IsDir() {
		status.LogDirectory = fmt.Sprintf("log directory %s is not readable", logDir)
		healthy = false
	} else if usage, err := disk.Usage(logDir); err == nil {
		status.DiskTotalMB = usage.Total / (1024 * 1024)
		status.DiskFreeMB = usage.Free / (1024 * 1024)
		status.DiskUsedPct = usage.UsedPercent
	}

	if !healthy {
		status.Status = "degraded"
	}

	return status, healthy
}

func (s *HealthcheckService) testCacheConnection() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache connection test panicked: %v", r)
		}
	}()

	cache_utils.TestCacheConnection()
	return nil
}
