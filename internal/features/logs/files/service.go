package logs_files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	users_interfaces "logview/internal/features/users/interfaces"

	"github.com/google/uuid"
)

var ErrUnknownFile = errors.New("unknown log file")

type LogFileService struct {
	logFileRepository *LogFileRepository
	auditLogWriter    users_interfaces.AuditLogWriter
	logger            *slog.Logger
}

func (s *LogFileService) SetAuditLogWriter(writer users_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

// RegisterFilesFromDir scans the log directory and registers every .log file
// under its base name. Called once at startup; already-known names keep their
// identity and get their path refreshed.
func (s *LogFileService) RegisterFilesFromDir(logDir string) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	registered := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		file := &LogFile{
			ID:        uuid.New(),
			Name:      strings.TrimSuffix(entry.Name(), ".log"),
			Path:      filepath.Join(logDir, entry.Name()),
			CreatedAt: time.Now().UTC(),
		}

		if err := s.logFileRepository.Upsert(file); err != nil {
			return fmt.Errorf("failed to register log file %s: %w", file.Name, err)
		}

		registered++
	}

	if s.auditLogWriter != nil {
		s.auditLogWriter.WriteAuditLog(fmt.Sprintf("Registered %d log files from %s", registered, logDir), nil)
	}

	s.logger.Info("Log files registered",
		slog.String("dir", logDir),
		slog.Int("count", registered))

	return nil
}

func (s *LogFileService) ListFiles() (*ListLogFilesResponseDTO, error) {
	files, err := s.logFileRepository.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	response := &ListLogFilesResponseDTO{Files: make([]LogFileDTO, 0, len(files))}
	for _, file := range files {
		response.Files = append(response.Files, LogFileDTO{Name: file.Name})
	}

	return response, nil
}

// ResolvePath maps a registered file name to its on-disk path. Names that
// were never registered resolve to ErrUnknownFile so the API can answer 404
// without leaking directory contents.
func (s *LogFileService) ResolvePath(name string) (string, error) {
	file, err := s.logFileRepository.GetByName(name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve log file %s: %w", name, err)
	}
	if file == nil {
		return "", ErrUnknownFile
	}

	return file.Path, nil
}

// Registered returns the known files keyed by name for the tailer.
func (s *LogFileService) Registered() (map[string]string, error) {
	files, err := s.logFileRepository.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	paths := make(map[string]string, len(files))
	for _, file := range files {
		paths[file.Name] = file.Path
	}

	return paths, nil
}
