package logs_serving

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "access.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func Test_ReadWindow_WithTailLargerThanFile_ServesWholeFile(t *testing.T) {
	repository := &LogWindowRepository{}
	path := writeLogFile(t, "line one\nline two\n")

	window, err := repository.ReadWindow(path, ByteRange{IsTail: true, MaxBytes: 1 << 20})

	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(window.Data))
	assert.Equal(t, int64(0), window.Start)
	assert.Equal(t, int64(18), window.End)
	assert.Equal(t, int64(18), window.Total)
}

func Test_ReadWindow_WithSmallTail_ServesFileEnd(t *testing.T) {
	repository := &LogWindowRepository{}
	path := writeLogFile(t, "line one\nline two\n")

	window, err := repository.ReadWindow(path, ByteRange{IsTail: true, MaxBytes: 9})

	require.NoError(t, err)
	assert.Equal(t, "line two\n", string(window.Data))
	assert.Equal(t, int64(9), window.Start)
	assert.Equal(t, int64(18), window.End)
	assert.Equal(t, int64(18), window.Total)
}

func Test_ReadWindow_WithPrefixRange_ServesRequestedBytes(t *testing.T) {
	repository := &LogWindowRepository{}
	path := writeLogFile(t, "line one\nline two\n")

	window, err := repository.ReadWindow(path, ByteRange{Start: 0, End: 9})

	require.NoError(t, err)
	assert.Equal(t, "line one\n", string(window.Data))
	assert.Equal(t, int64(0), window.Start)
	assert.Equal(t, int64(9), window.End)
}

func Test_ReadWindow_WithRangePastFileEnd_ClampsToSize(t *testing.T) {
	repository := &LogWindowRepository{}
	path := writeLogFile(t, "short\n")

	window, err := repository.ReadWindow(path, ByteRange{Start: 0, End: 4096})

	require.NoError(t, err)
	assert.Equal(t, "short\n", string(window.Data))
	assert.Equal(t, int64(6), window.End)
	assert.Equal(t, int64(6), window.Total)
}

func Test_ReadWindow_WithMissingFile_Fails(t *testing.T) {
	repository := &LogWindowRepository{}

	_, err := repository.ReadWindow(filepath.Join(t.TempDir(), "gone.log"), ByteRange{IsTail: true, MaxBytes: 10})

	assert.Error(t, err)
}
