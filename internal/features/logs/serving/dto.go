package logs_serving

import (
	"errors"
	"strconv"
	"strings"
)

var ErrBadRange = errors.New("malformed range spec")

// ByteRange is one requested window of a log file. A tail request carries
// MaxBytes and IsTail; a prefix request carries Start/End (end-exclusive).
type ByteRange struct {
	IsTail   bool
	MaxBytes int64
	Start    int64
	End      int64
}

// ParseRangeSpec parses the viewer's range parameter: "-<maxBytes>" requests
// the file tail, "<start>-<end>" requests an end-exclusive prefix window.
func ParseRangeSpec(spec string) (ByteRange, error) {
	if suffix, ok := strings.CutPrefix(spec, "-"); ok {
		maxBytes, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil || maxBytes <= 0 {
			return ByteRange{}, ErrBadRange
		}

		return ByteRange{IsTail: true, MaxBytes: maxBytes}, nil
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return ByteRange{}, ErrBadRange
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, ErrBadRange
	}

	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return ByteRange{}, ErrBadRange
	}

	return ByteRange{Start: start, End: end}, nil
}

// LogWindow is the resolved read: the raw bytes plus the offsets actually
// served and the file size at read time.
type LogWindow struct {
	Data  []byte
	Start int64
	End   int64
	Total int64
}
