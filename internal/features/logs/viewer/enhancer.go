package logs_viewer

import (
	"fmt"
	"sort"
	"strings"

	logs_parsing "logview/internal/features/logs/parsing"
)

// loginEndpointPath is the request path recorded for login attempts; a 401 on
// it marks a failed login in the access log.
const loginEndpointPath = "/api/v1/auth/login"

// extra keys consumed by dedicated notes or columns; everything else is
// listed in the fallback notes.
var consumedExtraKeys = map[string]bool{
	"dl":      true,
	"ul":      true,
	"user":    true,
	"country": true,
	"ua":      true,
}

// Enhancer derives display fields for parsed records and tracks which
// optional grid columns have become relevant. The column flags are one-way
// latches: once a record reveals country or user-agent data the column stays
// visible until the viewer is recreated.
type Enhancer struct {
	ShowCountry   bool
	ShowUserAgent bool
}

func (e *Enhancer) Enhance(record *logs_parsing.LogRecord) {
	record.Notes = e.notesFor(record)

	if record.Extra == nil {
		return
	}

	if country, ok := record.Extra["country"].(string); ok && country != "" {
		record.Country = country
		e.ShowCountry = true
	}

	if agent, ok := record.Extra["ua"].(string); ok && agent != "" {
		record.UserAgent = agent
		e.ShowUserAgent = true
	}
}

// notesFor applies a fixed precedence: full download > upload > failed login
// > leftover structured parameters.
func (e *Enhancer) notesFor(record *logs_parsing.LogRecord) string {
	if record.Extra["dl"] == true {
		return "fully downloaded"
	}

	if record.Method == "PUT" || record.Extra["ul"] == true {
		if record.Length != nil {
			return fmt.Sprintf("uploaded %d bytes", *record.Length)
		}
		return "upload"
	}

	if record.Status == 401 && requestPath(record.URI) == loginEndpointPath {
		if username, ok := record.Extra["user"].(string); ok && username != "" {
			return fmt.Sprintf("failed login as %q", username)
		}
		return "failed login"
	}

	return leftoverParams(record.Extra)
}

func leftoverParams(extra map[string]any) string {
	if len(extra) == 0 {
		return ""
	}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		if consumedExtraKeys[key] {
			continue
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return ""
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, extra[key]))
	}

	return strings.Join(parts, ", ")
}

func requestPath(uri string) string {
	path, _, _ := strings.Cut(uri, "?")
	return path
}
