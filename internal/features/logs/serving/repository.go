package logs_serving

import (
	"fmt"
	"io"
	"os"
)

// LogWindowRepository reads byte windows straight from the log files on disk.
// Ranges are clamped to the file size at read time, so a request racing a
// rotation serves what is actually there instead of erroring.
type LogWindowRepository struct{}

func (r *LogWindowRepository) ReadWindow(path string, byteRange ByteRange) (*LogWindow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	total := info.Size()
	start, end := resolveWindow(byteRange, total)

	data := make([]byte, end-start)
	if _, err := file.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek log file: %w", err)
	}

	read, err := io.ReadFull(file, data)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read log window: %w", err)
	}

	// a concurrent truncation can shorten the read; serve what was read
	data = data[:read]

	return &LogWindow{
		Data:  data,
		Start: start,
		End:   start + int64(read),
		Total: total,
	}, nil
}

func resolveWindow(byteRange ByteRange, total int64) (start, end int64) {
	if byteRange.IsTail {
		start = total - byteRange.MaxBytes
		if start < 0 {
			start = 0
		}
		return start, total
	}

	start, end = byteRange.Start, byteRange.End
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return start, end
}
