package ics

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	icalTimestampFormatUtc   = "20060102T150405Z"
	icalTimestampFormatLocal = "20060102T150405"
	icalDateFormatLocal      = "20060102"
)

// NowSentinel may be given instead of a date/time to mean the current time.
const NowSentinel = "now"

// timestampLayouts are tried in order after the UTC form. Layouts carrying an offset keep
// it; the rest are read as wall clock time in the event's zone.
var timestampLayouts = []string{
	icalTimestampFormatLocal,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	icalDateFormatLocal,
	time.RFC1123Z,
	time.RFC1123,
}

var (
	naturalParserOnce sync.Once
	naturalParser     *when.Parser
)

func natural() *when.Parser {
	naturalParserOnce.Do(func() {
		naturalParser = when.New(nil)
		naturalParser.Add(en.All...)
		naturalParser.Add(common.All...)
	})
	return naturalParser
}

var errUnparsable = errors.New("not a recognised date/time")

// FormatTimestamp reads value as a date/time in the zone named by timezoneId and returns the
// instant in UTC as YYYYMMDDTHHMMSSZ. Values that already carry an offset, including text
// this function produced, keep their own offset.
func FormatTimestamp(value, timezoneId string) (string, error) {
	return FormatTimestampAt(value, timezoneId, time.Now())
}

// FormatTimestampAt is FormatTimestamp with an explicit current time, used for the "now"
// sentinel and relative expressions such as "tomorrow 9am".
func FormatTimestampAt(value, timezoneId string, now time.Time) (string, error) {
	t, err := ParseTimestamp(value, timezoneId, now)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(icalTimestampFormatUtc), nil
}

// ParseTimestamp resolves value to an instant; see FormatTimestamp.
func ParseTimestamp(value, timezoneId string, now time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(timezoneId)
	if err != nil {
		return time.Time{}, &TimestampFormatError{
			Value:    value,
			Timezone: timezoneId,
			Err:      fmt.Errorf("%w: %v", ErrUnknownTimezone, err),
		}
	}

	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, &TimestampFormatError{Value: value, Timezone: timezoneId, Err: errors.New("empty value")}
	}
	if strings.EqualFold(v, NowSentinel) {
		return now, nil
	}
	// The trailing Z of the iCalendar form is a literal in the layout, so it has to be
	// parsed as UTC rather than in loc.
	if t, err := time.Parse(icalTimestampFormatUtc, v); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}

	r, err := natural().Parse(v, now.In(loc))
	if err != nil {
		return time.Time{}, &TimestampFormatError{Value: value, Timezone: timezoneId, Err: err}
	}
	// A partial match such as "not a date tomorrow" is rejected.
	if r == nil || r.Index != 0 || len(strings.TrimSpace(r.Text)) != len(v) {
		return time.Time{}, &TimestampFormatError{Value: value, Timezone: timezoneId, Err: errUnparsable}
	}
	return r.Time, nil
}
