package logs_parsing

import (
	"time"
)

// LogRecord is one parsed access-log line. The ID is the record's sequence
// position within a viewer, assigned at parse time; it is not present in the
// source text and exists only to give grids a stable row key.
type LogRecord struct {
	ID        int64          `json:"id"`
	IP        string         `json:"ip"`
	User      *string        `json:"user,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Method    string         `json:"method"`
	URI       string         `json:"uri"`
	Status    int            `json:"status"`
	Length    *int64         `json:"length,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`

	// Derived display fields, populated by the enhancement pass. Extra may
	// feed them but never mutates the fixed fields above.
	Notes     string `json:"notes,omitempty"`
	Country   string `json:"country,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}
