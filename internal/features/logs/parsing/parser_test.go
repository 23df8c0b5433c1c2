package logs_parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseLine_WithCompleteLine_ParsesAllFields(t *testing.T) {
	line := `203.0.113.5 - admin [01/Jan/2024:12:00:00] "GET /files/a.txt HTTP/1.1" 200 1024 {}`

	record, ok := ParseLine(line, 7)

	require.True(t, ok)
	assert.Equal(t, int64(7), record.ID)
	assert.Equal(t, "203.0.113.5", record.IP)
	require.NotNil(t, record.User)
	assert.Equal(t, "admin", *record.User)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), record.Timestamp)
	assert.Equal(t, "GET", record.Method)
	assert.Equal(t, "/files/a.txt", record.URI)
	assert.Equal(t, 200, record.Status)
	require.NotNil(t, record.Length)
	assert.Equal(t, int64(1024), *record.Length)
	// "{}" is single-encoded JSON, not a doubly-stringified object
	assert.Nil(t, record.Extra)
}

func Test_ParseLine_WithZoneOffsetTimestamp_ParsesToUTC(t *testing.T) {
	line := `10.0.0.1 - - [15/Mar/2024:08:30:00 +0300] "HEAD / HTTP/1.1" 304 - `

	record, ok := ParseLine(line, 0)

	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 5, 30, 0, 0, time.UTC), record.Timestamp)
}

func Test_ParseLine_WithDashTokens_LeavesUserAndLengthAbsent(t *testing.T) {
	line := `10.0.0.1 - - [01/Jan/2024:12:00:00] "GET /x HTTP/1.1" 404 - `

	record, ok := ParseLine(line, 0)

	require.True(t, ok)
	assert.Nil(t, record.User)
	assert.Nil(t, record.Length)
}

func Test_ParseLine_WithNonDashTokens_ParsesTypedValues(t *testing.T) {
	line := `10.0.0.1 - alice [01/Jan/2024:12:00:00] "POST /upload HTTP/1.1" 201 42 `

	record, ok := ParseLine(line, 0)

	require.True(t, ok)
	require.NotNil(t, record.User)
	assert.Equal(t, "alice", *record.User)
	require.NotNil(t, record.Length)
	assert.Equal(t, int64(42), *record.Length)
}

func Test_ParseLine_WithMalformedLines_YieldsNoRecord(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"Empty line", ""},
		{"Free text", "server restarted unexpectedly"},
		{"Missing request quotes", `10.0.0.1 - - [01/Jan/2024:12:00:00] GET /x HTTP/1.1 200 5`},
		{"Garbled timestamp", `10.0.0.1 - - [yesterday-ish] "GET /x HTTP/1.1" 200 5`},
		{"Non-numeric length", `10.0.0.1 - - [01/Jan/2024:12:00:00] "GET /x HTTP/1.1" 200 five`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := ParseLine(tt.line, 0)

			assert.False(t, ok)
			assert.Nil(t, record)
		})
	}
}

func Test_ParseLine_IsDeterministic(t *testing.T) {
	line := `203.0.113.5 - admin [01/Jan/2024:12:00:00] "GET /files/a.txt HTTP/1.1" 200 1024 {}`

	first, firstOk := ParseLine(line, 3)
	second, secondOk := ParseLine(line, 3)

	require.True(t, firstOk)
	require.True(t, secondOk)
	assert.Equal(t, first, second)
}

func Test_ParseLine_WithDoubleEncodedExtra_DecodesObject(t *testing.T) {
	line := `10.0.0.1 - bob [01/Jan/2024:12:00:00] "GET /files/big.iso HTTP/1.1" 200 900 "{\"dl\":true,\"country\":\"DE\"}"`

	record, ok := ParseLine(line, 0)

	require.True(t, ok)
	require.NotNil(t, record.Extra)
	assert.Equal(t, true, record.Extra["dl"])
	assert.Equal(t, "DE", record.Extra["country"])
	// extra never leaks into the fixed fields
	assert.Equal(t, "GET", record.Method)
	assert.Equal(t, 200, record.Status)
}

func Test_ParseLine_WithBadExtra_LeavesExtraAbsent(t *testing.T) {
	tests := []struct {
		name string
		tail string
	}{
		{"Not JSON at all", `not-json`},
		{"Single-encoded object", `{"dl":true}`},
		{"String whose content is not JSON", `"plain text"`},
		{"String whose content is a JSON array", `"[1,2,3]"`},
		{"Empty tail", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := `10.0.0.1 - - [01/Jan/2024:12:00:00] "GET /x HTTP/1.1" 200 5 ` + tt.tail

			record, ok := ParseLine(line, 0)

			require.True(t, ok)
			assert.Nil(t, record.Extra)
		})
	}
}

func Test_ParseBatch_SkipsBadLinesAndKeepsSequentialIDs(t *testing.T) {
	lines := []string{
		`10.0.0.1 - - [01/Jan/2024:12:00:00] "GET /a HTTP/1.1" 200 1 `,
		`garbage`,
		`10.0.0.2 - - [01/Jan/2024:12:00:01] "GET /b HTTP/1.1" 200 2 `,
	}

	records := ParseBatch(lines, 100)

	require.Len(t, records, 2)
	assert.Equal(t, int64(100), records[0].ID)
	// the skipped line still consumes an ID so positions stay aligned
	assert.Equal(t, int64(102), records[1].ID)
	assert.Equal(t, "10.0.0.2", records[1].IP)
}
