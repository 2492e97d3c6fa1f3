package normalize

import (
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// datePatterns is the ordered ladder of accepted date layouts. Full-year
// layouts come before the two-digit-year layout so "15-04-2023" is never
// half-consumed by "02-01-06".
var datePatterns = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"2-1-2006",
	"2006/01/02",
	"02-01-06",
}

// fallbackPatterns is the generic calendar-date parse attempted after the
// ladder is exhausted.
var fallbackPatterns = []string{
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January 2006",
	"02.01.2006",
	"2006.01.02",
}

// timeSuffix matches a trailing time-of-day component, with optional
// seconds, fraction, AM/PM marker and zone offset.
var timeSuffix = regexp.MustCompile(`[T ]\d{1,2}:\d{2}(:\d{2}(\.\d+)?)?( ?[AaPp][Mm])?(Z|[+-]\d{2}:?\d{2})?$`)

// ParseDate parses a source date string into a calendar date. Any
// time-of-day component is discarded before matching. Two-digit years
// resolve into the 2000s.
func ParseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(timeSuffix.ReplaceAllString(s, ""))
	if s == "" {
		return civil.Date{}, ErrInvalidDate
	}

	for _, layout := range datePatterns {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == "02-01-06" && t.Year() < 2000 {
			t = t.AddDate(100, 0, 0)
		}
		return civil.DateOf(t), nil
	}

	for _, layout := range fallbackPatterns {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}

	return civil.Date{}, ErrInvalidDate
}
