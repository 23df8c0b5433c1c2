package time_parser

import (
	"fmt"
	"time"
)

// Access-log timestamps combine a fixed-width date field ("02/Jan/2006") with
// a time field that may or may not carry a zone offset. Older log producers
// wrote "15:04:05", newer ones "15:04:05 -0700".
var accessLogLayouts = []string{
	"02/Jan/2006 15:04:05 -0700",
	"02/Jan/2006 15:04:05",
}

func ParseAccessLogTimestamp(date, clock string) (time.Time, error) {
	combined := date + " " + clock

	for _, layout := range accessLogLayouts {
		if t, err := time.Parse(layout, combined); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", combined)
}
