package logs_viewer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accessLogLines = []string{
	`10.0.0.1 - alice [02/Jan/2026:10:00:00 +0000] "GET /files/a.txt HTTP/1.1" 200 100`,
	`10.0.0.2 - bob [02/Jan/2026:10:00:01 +0000] "GET /files/b.txt HTTP/1.1" 200 200`,
	`10.0.0.3 - carol [02/Jan/2026:10:00:02 +0000] "PUT /files/c.txt HTTP/1.1" 201 300`,
	`10.0.0.4 - - [02/Jan/2026:10:00:03 +0000] "GET /files/d.txt HTTP/1.1" 404 -`,
}

// newLogFileServer serves byte windows of content. Tail reads are capped at
// tailStart so tests can simulate a file larger than the client's window
// without generating megabytes of data. Range "start-end" is end-exclusive.
func newLogFileServer(t *testing.T, content string, tailStart int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		rangeSpec := request.URL.Query().Get("range")
		total := len(content)

		var start, end int
		if suffix, ok := strings.CutPrefix(rangeSpec, "-"); ok {
			maxBytes, err := strconv.Atoi(suffix)
			require.NoError(t, err)
			start = total - maxBytes
			if start < tailStart {
				start = tailStart
			}
			end = total
		} else {
			parts := strings.SplitN(rangeSpec, "-", 2)
			require.Len(t, parts, 2)
			start, _ = strconv.Atoi(parts[0])
			end, _ = strconv.Atoi(parts[1])
		}

		writer.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, total))
		writer.WriteHeader(http.StatusPartialContent)
		fmt.Fprint(writer, content[start:end])
	}))
	t.Cleanup(server.Close)

	return server
}

func Test_Load_WithFileLargerThanWindow_DropsPartialLineAndCountsSkippedBytes(t *testing.T) {
	content := strings.Join(accessLogLines, "\n") + "\n"

	// tail starts 5 bytes into the second line, so that line arrives partial
	tailStart := len(accessLogLines[0]) + 1 + 5
	server := newLogFileServer(t, content, tailStart)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", false)
	require.NoError(t, viewer.Load(context.Background()))

	records := viewer.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "10.0.0.3", records[0].IP)
	assert.Equal(t, "10.0.0.4", records[1].IP)

	assert.True(t, viewer.Limited())

	// the skipped prefix ends exactly where the first complete line begins
	wantSkipped := len(accessLogLines[0]) + 1 + len(accessLogLines[1]) + 1
	assert.Equal(t, int64(wantSkipped), viewer.Skipped())
}

func Test_Load_WithFileSmallerThanWindow_LoadsEverything(t *testing.T) {
	content := strings.Join(accessLogLines, "\n") + "\n"
	server := newLogFileServer(t, content, 0)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", false)
	require.NoError(t, viewer.Load(context.Background()))

	assert.Len(t, viewer.Records(), 4)
	assert.False(t, viewer.Limited())
	assert.Zero(t, viewer.Skipped())
}

func Test_LoadWhole_AfterLimitedLoad_PrependsSkippedPrefix(t *testing.T) {
	content := strings.Join(accessLogLines, "\n") + "\n"
	tailStart := len(accessLogLines[0]) + 1 + 5
	server := newLogFileServer(t, content, tailStart)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", false)
	require.NoError(t, viewer.Load(context.Background()))

	total, err := viewer.LoadWhole(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(len(content)), total)
	assert.False(t, viewer.Limited())
	assert.Zero(t, viewer.Skipped())

	records := viewer.Records()
	require.Len(t, records, 4)
	assert.Equal(t, "10.0.0.1", records[0].IP)
	assert.Equal(t, "10.0.0.2", records[1].IP)
	assert.Equal(t, "10.0.0.3", records[2].IP)
	assert.Equal(t, "10.0.0.4", records[3].IP)
}

func Test_LoadWhole_WhenFullyLoaded_IsNoOp(t *testing.T) {
	content := strings.Join(accessLogLines, "\n") + "\n"
	server := newLogFileServer(t, content, 0)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", false)
	require.NoError(t, viewer.Load(context.Background()))

	total, err := viewer.LoadWhole(context.Background())

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Len(t, viewer.Records(), 4)
}

func Test_ApplyStream_WithNormalOrder_AppendsRecords(t *testing.T) {
	viewer := NewFileViewer(nil, "access.log", false)

	viewer.ApplyStream([]string{accessLogLines[0]})
	viewer.ApplyStream([]string{accessLogLines[1]})

	records := viewer.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "10.0.0.1", records[0].IP)
	assert.Equal(t, "10.0.0.2", records[1].IP)
}

func Test_ApplyStream_WithInvertedOrder_PrependsRecords(t *testing.T) {
	viewer := NewFileViewer(nil, "access.log", true)

	viewer.ApplyStream([]string{accessLogLines[0]})
	viewer.ApplyStream([]string{accessLogLines[1]})

	records := viewer.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "10.0.0.2", records[0].IP)
	assert.Equal(t, "10.0.0.1", records[1].IP)
}

func Test_ApplyStream_WhilePaused_DropsLines(t *testing.T) {
	viewer := NewFileViewer(nil, "access.log", false)

	viewer.Pause()
	viewer.ApplyStream([]string{accessLogLines[0]})
	assert.Empty(t, viewer.Records())

	viewer.Resume()
	viewer.ApplyStream([]string{accessLogLines[1]})
	assert.Len(t, viewer.Records(), 1)
}

// newReplayingLogServer serves the full content on the file endpoint and a
// fixed event sequence on the stream endpoint, mimicking a stream that replays
// recent lines before going live.
func newReplayingLogServer(t *testing.T, content string, events []string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/v1/logs/file":
			total := len(content)
			writer.Header().Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", total-1, total))
			writer.WriteHeader(http.StatusPartialContent)
			fmt.Fprint(writer, content)
		case "/api/v1/logs/stream":
			writer.Header().Set("Content-Type", "text/event-stream")
			for _, line := range events {
				fmt.Fprintf(writer, "data: %s\n\n", line)
			}
		default:
			t.Errorf("unexpected request path: %s", request.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func Test_Follow_AfterLoad_DoesNotDuplicateReplayedLines(t *testing.T) {
	content := strings.Join(accessLogLines[:2], "\n") + "\n"
	// the stream replays both already-loaded lines before a genuinely new one
	events := []string{accessLogLines[0], accessLogLines[1], accessLogLines[2]}
	server := newReplayingLogServer(t, content, events)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", false)
	require.NoError(t, viewer.Load(context.Background()))
	require.NoError(t, viewer.Follow(context.Background()))

	records := viewer.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "10.0.0.1", records[0].IP)
	assert.Equal(t, "10.0.0.2", records[1].IP)
	assert.Equal(t, "10.0.0.3", records[2].IP)
}

func Test_Follow_PastLiveEdge_KeepsLinesThatRepeatLoadedOnes(t *testing.T) {
	content := accessLogLines[0] + "\n"
	// once a new line arrives the viewer is live; a later repeat of a loaded
	// line is a real new entry and must not be absorbed
	events := []string{accessLogLines[0], accessLogLines[1], accessLogLines[0]}
	server := newReplayingLogServer(t, content, events)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", false)
	require.NoError(t, viewer.Load(context.Background()))
	require.NoError(t, viewer.Follow(context.Background()))

	records := viewer.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "10.0.0.1", records[0].IP)
	assert.Equal(t, "10.0.0.2", records[1].IP)
	assert.Equal(t, "10.0.0.1", records[2].IP)
}

func Test_Load_WithInvertedOrder_OrdersNewestFirst(t *testing.T) {
	content := strings.Join(accessLogLines, "\n") + "\n"
	server := newLogFileServer(t, content, 0)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", true)
	require.NoError(t, viewer.Load(context.Background()))

	records := viewer.Records()
	require.Len(t, records, 4)
	assert.Equal(t, "10.0.0.4", records[0].IP)
	assert.Equal(t, "10.0.0.1", records[3].IP)
}

func Test_LoadWhole_WithInvertedOrder_AppendsOlderLinesAtEnd(t *testing.T) {
	content := strings.Join(accessLogLines, "\n") + "\n"
	tailStart := len(accessLogLines[0]) + 1 + 5
	server := newLogFileServer(t, content, tailStart)

	viewer := NewFileViewer(NewClient(server.URL), "access.log", true)
	require.NoError(t, viewer.Load(context.Background()))

	_, err := viewer.LoadWhole(context.Background())
	require.NoError(t, err)

	records := viewer.Records()
	require.Len(t, records, 4)
	assert.Equal(t, "10.0.0.4", records[0].IP)
	assert.Equal(t, "10.0.0.3", records[1].IP)
	assert.Equal(t, "10.0.0.2", records[2].IP)
	assert.Equal(t, "10.0.0.1", records[3].IP)
}

func Test_ApplyStream_WithInvertedBatch_ReversesBatchOrder(t *testing.T) {
	viewer := NewFileViewer(nil, "access.log", true)

	viewer.ApplyStream([]string{accessLogLines[0], accessLogLines[1]})

	records := viewer.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "10.0.0.2", records[0].IP)
	assert.Equal(t, "10.0.0.1", records[1].IP)
}

func Test_ApplyStream_WithEnhancedLine_LatchesColumns(t *testing.T) {
	viewer := NewFileViewer(nil, "access.log", false)

	line := `10.0.0.1 - alice [02/Jan/2026:10:00:00 +0000] "GET /files/a.txt HTTP/1.1" 200 100 "{\"country\":\"DE\"}"`
	viewer.ApplyStream([]string{line})

	showCountry, showUserAgent := viewer.Columns()
	assert.True(t, showCountry)
	assert.False(t, showUserAgent)

	records := viewer.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "DE", records[0].Country)
}
