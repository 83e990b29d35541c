package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-streams/models"
)

// Publish-time tiers, in the order ResolvePublished tries them.
const (
	SourceUploadDate = "upload_date"
	SourceRelative   = "relative"
	SourceFallback   = "fallback"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

// Approximate day counts per unit; months and years are not calendar-accurate.
var unitDays = map[string]int{
	"second": 0,
	"minute": 0,
	"hour":   0,
	"day":    1,
	"week":   7,
	"month":  30,
	"year":   365,
}

var relativeRe = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)

// Timestamp is a parsed absolute publish time.
type Timestamp struct {
	Time     time.Time
	HasClock bool
}

// Published is the resolved publish time of an item.
type Published struct {
	Date      string
	Clock     models.Field[string]
	DayOffset int
	Source    string
}

// ParseAbsoluteDate accepts a plain date, an RFC 3339 timestamp (Z means
// UTC) or a zone-less date-time, which is read as UTC.
func ParseAbsoluteDate(text string) (Timestamp, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Timestamp{}, false
	}
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return Timestamp{Time: t, HasClock: true}, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", text); err == nil {
		return Timestamp{Time: t, HasClock: true}, true
	}
	if t, err := time.Parse(dateLayout, text); err == nil {
		return Timestamp{Time: t}, true
	}
	return Timestamp{}, false
}

// ParseRelativeDate reads "<n> <unit> ago" anywhere in text and returns the
// day offset and the calendar date that far before now.
func ParseRelativeDate(text string, now time.Time) (int, time.Time, bool) {
	m := relativeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, time.Time{}, false
	}
	days := n * unitDays[strings.ToLower(m[2])]
	return days, now.AddDate(0, 0, -days), true
}

// ResolvePublished tries the detail page's upload date, then the tile's
// relative text, then falls back to now with a zero offset.
func ResolvePublished(upload models.Field[string], relative string, now time.Time) Published {
	if raw, ok := upload.Get(); ok {
		if ts, ok := ParseAbsoluteDate(raw); ok {
			p := Published{
				Date:      ts.Time.Format(dateLayout),
				DayOffset: daysBetween(ts.Time, now),
				Source:    SourceUploadDate,
			}
			if ts.HasClock {
				p.Clock = models.Resolved(ts.Time.Format(clockLayout))
			}
			return p
		}
	}

	if days, date, ok := ParseRelativeDate(relative, now); ok {
		return Published{
			Date:      date.Format(dateLayout),
			DayOffset: days,
			Source:    SourceRelative,
		}
	}

	return Published{
		Date:   now.Format(dateLayout),
		Clock:  models.Resolved(now.Format(clockLayout)),
		Source: SourceFallback,
	}
}

// daysBetween counts whole days from then to now, flooring like a calendar
// difference would.
func daysBetween(then, now time.Time) int {
	return int(math.Floor(now.Sub(then).Hours() / 24))
}
