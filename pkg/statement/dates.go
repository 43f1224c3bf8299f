package statement

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the date renderings seen in statement exports, tried in order.
// Slashed and dashed numeric dates are day first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006",
	"02-Jan-06",
	"02 Jan 2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
	// excelize renders builtin date cells as mm-dd-yy
	"01-02-06",
}

// ParseDate parses a statement date. Dates without a zone are read in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
