package timex

import (
	"fmt"
	"strings"
	"time"
)

// layouts accepted for user supplied instants. Browser datetime-local inputs
// send the last two, without a zone.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseFlexible parses s with the first matching layout. Values without a
// zone are interpreted in loc (UTC when loc is nil). The result is in UTC.
func ParseFlexible(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
