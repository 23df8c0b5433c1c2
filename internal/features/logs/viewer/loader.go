package logs_viewer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	logs_parsing "logview/internal/features/logs/parsing"
)

// MaxTailBytes caps the initial tail read of a log file.
const MaxTailBytes int64 = 1 << 20

// streamSyncLines bounds how many recently loaded lines are remembered to
// absorb the stream's replay: a fresh subscription replays recent lines, and
// the tail window has usually just served the same ones.
const streamSyncLines = 200

// FileViewer holds the windowed buffer for one log file tab. It starts with
// a bounded tail read, can backfill the whole remaining prefix on demand, and
// merges live-streamed lines. The buffer only ever grows; switching files
// means creating a new viewer.
type FileViewer struct {
	client *Client
	file   string
	invert bool

	mu       sync.Mutex
	records  []*logs_parsing.LogRecord
	skipped  int64
	limited  bool
	paused   bool
	nextID   int64
	enhancer Enhancer

	// replay-absorption state, armed by Load
	syncing   bool
	syncGuard map[string]struct{}
}

func NewFileViewer(client *Client, file string, invert bool) *FileViewer {
	return &FileViewer{
		client: client,
		file:   file,
		invert: invert,
	}
}

// Load performs the initial tail fetch: the last MaxTailBytes of the file.
// When the window does not cover the whole file, the first received line is
// necessarily partial; it is discarded and its length folded back into the
// skipped-byte count so a later LoadWhole starts on a line boundary.
func (v *FileViewer) Load(ctx context.Context) error {
	chunk, err := v.client.GetLogFile(ctx, v.file, fmt.Sprintf("-%d", MaxTailBytes))
	if err != nil {
		return fmt.Errorf("failed to load log tail: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	received := int64(len(chunk.Data))
	lines := splitLines(chunk.Data)

	if received >= chunk.Total {
		v.limited = false
		v.skipped = 0
	} else {
		var partial string
		if len(lines) > 0 {
			partial = lines[0]
			lines = lines[1:]
		}

		v.skipped = chunk.Total - received + int64(len(partial)) + 1
		v.limited = true
	}

	records := v.parseAndEnhance(lines)
	if v.invert {
		reverseRecords(records)
	}
	v.records = append(v.records, records...)

	v.armStreamSync(lines)

	return nil
}

// LoadWhole backfills the entire skipped prefix in one request, prepends the
// parsed records and leaves the viewer fully loaded. It returns the total
// file size so callers can tell the user how much was loaded.
func (v *FileViewer) LoadWhole(ctx context.Context) (int64, error) {
	v.mu.Lock()
	skipped := v.skipped
	limited := v.limited
	v.mu.Unlock()

	if !limited {
		return 0, nil
	}

	chunk, err := v.client.GetLogFile(ctx, v.file, fmt.Sprintf("0-%d", skipped))
	if err != nil {
		return 0, fmt.Errorf("failed to load whole log: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	lines := splitLines(chunk.Data)
	records := v.parseAndEnhance(lines)

	// the backfill is older than everything held, so it goes to the head in
	// chronological order and to the tail when inverted
	if v.invert {
		reverseRecords(records)
		v.records = append(v.records, records...)
	} else {
		v.records = append(records, v.records...)
	}

	v.skipped = 0
	v.limited = false

	return chunk.Total, nil
}

// Follow consumes the live stream until the context is cancelled. Streamed
// lines are dropped while the viewer is paused; the pause never affects the
// windowed reads.
func (v *FileViewer) Follow(ctx context.Context) error {
	return v.client.StreamLog(ctx, v.file, v.invert, func(line string) {
		v.ApplyStream([]string{line})
	})
}

// ApplyStream merges a batch of live lines into the buffer, honoring the
// invert ordering flag.
func (v *FileViewer) ApplyStream(lines []string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.paused {
		return
	}

	lines = v.absorbReplay(lines)
	if len(lines) == 0 {
		return
	}

	records := v.parseAndEnhance(lines)

	if v.invert {
		reverseRecords(records)
		v.records = append(records, v.records...)
	} else {
		v.records = append(v.records, records...)
	}
}

func (v *FileViewer) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = true
}

func (v *FileViewer) Resume() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = false
}

func (v *FileViewer) Records() []*logs_parsing.LogRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	records := make([]*logs_parsing.LogRecord, len(v.records))
	copy(records, v.records)
	return records
}

// Limited reports whether older lines remain on the server.
func (v *FileViewer) Limited() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.limited
}

// Skipped returns the number of bytes not yet loaded from the file's head.
func (v *FileViewer) Skipped() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.skipped
}

// Columns reports the one-way column latches revealed by enhanced records.
func (v *FileViewer) Columns() (showCountry, showUserAgent bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enhancer.ShowCountry, v.enhancer.ShowUserAgent
}

func (v *FileViewer) parseAndEnhance(lines []string) []*logs_parsing.LogRecord {
	records := logs_parsing.ParseBatch(lines, v.nextID)
	v.nextID += int64(len(lines))
	for _, record := range records {
		v.enhancer.Enhance(record)
	}

	return records
}

// armStreamSync remembers the tail of the loaded window so absorbReplay can
// recognize lines the stream replays after subscribing.
func (v *FileViewer) armStreamSync(lines []string) {
	start := 0
	if len(lines) > streamSyncLines {
		start = len(lines) - streamSyncLines
	}

	guard := make(map[string]struct{}, len(lines)-start)
	for _, line := range lines[start:] {
		guard[line] = struct{}{}
	}

	v.syncGuard = guard
	v.syncing = true
}

// absorbReplay drops leading streamed lines the windowed read already served.
// The first line not covered by the guard marks the live edge; from then on
// every line passes through untouched.
func (v *FileViewer) absorbReplay(lines []string) []string {
	if !v.syncing {
		return lines
	}

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if v.syncing {
			if _, loaded := v.syncGuard[line]; loaded {
				continue
			}

			v.syncing = false
			v.syncGuard = nil
		}

		kept = append(kept, line)
	}

	return kept
}

func reverseRecords(records []*logs_parsing.LogRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}
