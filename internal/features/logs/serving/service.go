package logs_serving

import (
	"errors"
	"fmt"

	logs_files "logview/internal/features/logs/files"
	users_interfaces "logview/internal/features/users/interfaces"
	users_models "logview/internal/features/users/models"

	"log/slog"
)

type LogServingService struct {
	logFileService      *logs_files.LogFileService
	logWindowRepository *LogWindowRepository
	auditLogWriter      users_interfaces.AuditLogWriter
	logger              *slog.Logger
}

func (s *LogServingService) SetAuditLogWriter(writer users_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

// GetWindow resolves a registered file name and serves the requested byte
// window. Whole-file backfills (prefix reads from offset 0) are audited.
func (s *LogServingService) GetWindow(
	name string,
	rangeSpec string,
	user *users_models.User,
) (*LogWindow, error) {
	byteRange, err := ParseRangeSpec(rangeSpec)
	if err != nil {
		return nil, err
	}

	path, err := s.logFileService.ResolvePath(name)
	if err != nil {
		return nil, err
	}

	window, err := s.logWindowRepository.ReadWindow(path, byteRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read window of %s: %w", name, err)
	}

	if !byteRange.IsTail && byteRange.Start == 0 && s.auditLogWriter != nil && user != nil {
		s.auditLogWriter.WriteAuditLog(
			fmt.Sprintf("Loaded whole log file: %s (%d bytes)", name, window.End),
			&user.ID,
		)
	}

	return window, nil
}

// ResolveStream validates the file name for a stream subscription.
func (s *LogServingService) ResolveStream(name string) error {
	_, err := s.logFileService.ResolvePath(name)
	if err != nil && !errors.Is(err, logs_files.ErrUnknownFile) {
		s.logger.Error("Failed to resolve stream file",
			slog.String("file", name),
			slog.String("error", err.Error()))
	}

	return err
}
