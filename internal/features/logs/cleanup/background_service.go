package logs_cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"logview/internal/config"
)

// LogCleanupBackgroundService removes rotated log files that outlived the
// configured retention. Live files (plain *.log, still registered and being
// tailed) are never touched; only rotation artifacts like access.log.1 or
// access.log-20260101.gz are eligible.
type LogCleanupBackgroundService struct {
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

const retentionCleanupInterval = 1 * time.Hour

func (s *LogCleanupBackgroundService) StartWorkers() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("Starting log cleanup background worker",
		slog.Duration("retentionInterval", retentionCleanupInterval),
		slog.Int("retentionDays", config.GetEnv().LogRetentionDays))

	s.wg.Add(1)
	go s.retentionWorker()
}

func (s *LogCleanupBackgroundService) ExecuteAllTasksForTest() error {
	return s.enforceRetention(config.GetEnv().LogDir, config.GetEnv().LogRetentionDays)
}

func (s *LogCleanupBackgroundService) retentionWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(retentionCleanupInterval)
	defer ticker.Stop()

	s.logger.Info("Retention cleanup worker started")

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Retention cleanup worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Retention cleanup worker shutting down")
			return

		case <-ticker.C:
			env := config.GetEnv()
			if err := s.enforceRetention(env.LogDir, env.LogRetentionDays); err != nil {
				s.logger.Error("Error during retention cleanup", slog.String("error", err.Error()))
			}
		}
	}
}

func (s *LogCleanupBackgroundService) enforceRetention(logDir string, maxLifeDays int) error {
	if maxLifeDays <= 0 {
		return nil
	}

	cutoffTime := time.Now().UTC().AddDate(0, 0, -maxLifeDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	deleted := 0
	failures := 0

	for _, entry := range entries {
		if entry.IsDir() || !isRotatedLogFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().UTC().Before(cutoffTime) {
			continue
		}

		if err := os.Remove(filepath.Join(logDir, entry.Name())); err != nil {
			failures++
			s.logger.Error("Failed to delete rotated log file",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()))
			continue
		}

		deleted++
	}

	if deleted > 0 || failures > 0 {
		s.logger.Info("Retention cleanup completed",
			slog.Int("deletedFiles", deleted),
			slog.Int("failures", failures))
	}

	if failures > 0 {
		return fmt.Errorf("retention cleanup failed for %d files", failures)
	}

	return nil
}

// isRotatedLogFile matches rotation artifacts without matching live logs:
// "access.log" is live, "access.log.1", "access.log-20260101" and their .gz
// variants are rotated.
func isRotatedLogFile(name string) bool {
	if strings.HasSuffix(name, ".log") {
		return false
	}

	return strings.Contains(name, ".log.") || strings.Contains(name, ".log-")
}
