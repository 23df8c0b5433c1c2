package logs_serving

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"logview/internal/config"
	logs_files "logview/internal/features/logs/files"
	cache_utils "logview/internal/util/cache"
)

const (
	tailPollInterval = 1 * time.Second

	// bounded replay ring per file so new stream subscribers get context
	replayRingCapacity = 200
)

func ringKey(file string) string {
	return fmt.Sprintf("logview:logs:ring:%s", file)
}

type tailState struct {
	offset  int64
	partial []byte
}

// LogTailerService polls the registered log files and turns appended bytes
// into whole-line events: broadcast to in-process stream subscribers and
// pushed onto the per-file valkey replay ring. Partial trailing lines are
// buffered across polls; a shrinking file is treated as rotated and re-read
// from the start.
type LogTailerService struct {
	logFileService *logs_files.LogFileService
	hub            *StreamHub
	ring           *cache_utils.ValkeyRingService
	logger         *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	states map[string]*tailState
}

func (s *LogTailerService) Hub() *StreamHub {
	return s.hub
}

func (s *LogTailerService) Ring() *cache_utils.ValkeyRingService {
	return s.ring
}

func (s *LogTailerService) StartWorkers() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("Starting log tailer worker",
		slog.Duration("pollInterval", tailPollInterval))

	s.wg.Add(1)
	go s.tailWorker()
}

func (s *LogTailerService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// ExecuteTailOnceForTest runs a single poll pass in a blocking way.
func (s *LogTailerService) ExecuteTailOnceForTest() {
	s.pollAllFiles()
}

func (s *LogTailerService) tailWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(tailPollInterval)
	defer ticker.Stop()

	s.logger.Info("Log tailer worker started")

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Log tailer worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Log tailer worker shutting down")
			return

		case <-ticker.C:
			s.pollAllFiles()
		}
	}
}

func (s *LogTailerService) pollAllFiles() {
	files, err := s.logFileService.Registered()
	if err != nil {
		s.logger.Error("Failed to list registered log files", slog.String("error", err.Error()))
		return
	}

	for name, path := range files {
		if err := s.pollFile(name, path); err != nil {
			s.logger.Error("Failed to tail log file",
				slog.String("file", name),
				slog.String("error", err.Error()))
		}
	}
}

func (s *LogTailerService) pollFile(name, path string) error {
	state := s.states[name]
	if state == nil {
		state = &tailState{}
		s.states[name] = state

		// first sighting: start at the current end, existing content is
		// served by the windowed reads
		if info, err := os.Stat(path); err == nil {
			state.offset = info.Size()
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if info.Size() < state.offset {
		// rotated or truncated; re-read the new file from the start
		state.offset = 0
		state.partial = nil
	}

	if info.Size() == state.offset {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(state.offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek log file: %w", err)
	}

	appended, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read appended bytes: %w", err)
	}

	state.offset += int64(len(appended))

	var lines []string
	lines, state.partial = extractLines(append(state.partial, appended...))
	if len(lines) == 0 {
		return nil
	}

	s.hub.Broadcast(name, lines)

	if err := s.ring.AppendBatch(ringKey(name), lines); err != nil {
		s.logger.Error("Failed to append lines to replay ring",
			slog.String("file", name),
			slog.String("error", err.Error()))
	}

	return nil
}

// extractLines splits buffered bytes into complete lines, returning any
// trailing partial line for the next poll.
func extractLines(buffer []byte) (lines []string, rest []byte) {
	for {
		index := bytes.IndexByte(buffer, '\n')
		if index < 0 {
			return lines, buffer
		}

		lines = append(lines, string(buffer[:index]))
		buffer = buffer[index+1:]
	}
}
