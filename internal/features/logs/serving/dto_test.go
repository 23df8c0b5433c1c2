package logs_serving

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseRangeSpec_WithTailSpec_ReturnsTailRange(t *testing.T) {
	byteRange, err := ParseRangeSpec("-1048576")

	require.NoError(t, err)
	assert.True(t, byteRange.IsTail)
	assert.Equal(t, int64(1048576), byteRange.MaxBytes)
}

func Test_ParseRangeSpec_WithPrefixSpec_ReturnsWindow(t *testing.T) {
	byteRange, err := ParseRangeSpec("0-4096")

	require.NoError(t, err)
	assert.False(t, byteRange.IsTail)
	assert.Equal(t, int64(0), byteRange.Start)
	assert.Equal(t, int64(4096), byteRange.End)
}

func Test_ParseRangeSpec_WithMalformedSpecs_Fails(t *testing.T) {
	specs := []string{
		"",
		"-",
		"-0",
		"-abc",
		"10",
		"abc-10",
		"10-abc",
		"20-10",
		"-5-10",
	}

	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseRangeSpec(spec)
			assert.ErrorIs(t, err, ErrBadRange)
		})
	}
}
