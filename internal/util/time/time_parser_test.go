package time_parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseAccessLogTimestamp_WithZoneOffset_ConvertsToUTC(t *testing.T) {
	parsed, err := ParseAccessLogTimestamp("02/Jan/2026", "15:04:05 +0200")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 2, 13, 4, 5, 0, time.UTC), parsed)
}

func Test_ParseAccessLogTimestamp_WithoutZone_ParsesAsUTC(t *testing.T) {
	parsed, err := ParseAccessLogTimestamp("02/Jan/2026", "15:04:05")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC), parsed)
}

func Test_ParseAccessLogTimestamp_WithGarbage_Fails(t *testing.T) {
	_, err := ParseAccessLogTimestamp("not-a-date", "15:04:05")

	assert.Error(t, err)
}
