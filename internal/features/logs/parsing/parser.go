package logs_parsing

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	time_parser "logview/internal/util/time"
)

// Combined access-log grammar, anchored at line start:
//
//	<ip> <ident> <user> [<date>:<time>] "<method> <uri> HTTP/<ver>" <status> <length-or-dash> <extra>
//
// The date field is fixed-width (02/Jan/2006); the time field may carry a
// zone offset. The trailing extra token is optional free text.
var lineRegex = regexp.MustCompile(
	`^(\S+) (\S+) (\S+) \[(.{11}):(\d{2}:\d{2}:\d{2}(?: [+-]\d{4})?)\] "(\S+) (.+?) HTTP/[\d.]+" (\d{3}) (\S+)(?: (.*))?$`,
)

const absentField = "-"

// ParseLine parses one raw log line into a record with the given sequence ID.
// Lines that do not match the grammar yield (nil, false); a malformed line is
// never an error, it is simply skipped.
func ParseLine(line string, id int64) (*LogRecord, bool) {
	match := lineRegex.FindStringSubmatch(line)
	if match == nil {
		return nil, false
	}

	timestamp, err := time_parser.ParseAccessLogTimestamp(match[4], match[5])
	if err != nil {
		return nil, false
	}

	status, err := strconv.Atoi(match[8])
	if err != nil {
		return nil, false
	}

	record := &LogRecord{
		ID:        id,
		IP:        match[1],
		Timestamp: timestamp,
		Method:    match[6],
		URI:       match[7],
		Status:    status,
		Extra:     decodeExtra(match[10]),
	}

	if match[3] != absentField {
		user := match[3]
		record.User = &user
	}

	if match[9] != absentField {
		length, err := strconv.ParseInt(match[9], 10, 64)
		if err != nil {
			return nil, false
		}
		record.Length = &length
	}

	return record, true
}

// ParseBatch parses a batch of raw lines, silently dropping the ones that do
// not match the grammar. IDs are assigned sequentially starting at nextID,
// counting every input line so IDs stay aligned with source positions.
func ParseBatch(lines []string, nextID int64) []*LogRecord {
	records := make([]*LogRecord, 0, len(lines))

	for i, line := range lines {
		record, ok := ParseLine(line, nextID+int64(i))
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return records
}

// decodeExtra decodes the doubly-stringified JSON extra token: the token must
// be a JSON string whose content is itself a JSON object. Anything else —
// invalid JSON, a bare object, a non-object payload — yields no extra data.
// The two-pass decode mirrors a logging pipeline that once double-encoded
// this field; keep both passes even though a single pass looks sufficient.
func decodeExtra(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var encoded string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil {
		return nil
	}

	var extra map[string]any
	if err := json.Unmarshal([]byte(encoded), &extra); err != nil {
		return nil
	}

	return extra
}
