package ics

import (
	"errors"
	"fmt"
)

var (
	// ErrTimestampFormat is wrapped by every error returned when a date/time value or its
	// timezone cannot be turned into a UTC timestamp.
	ErrTimestampFormat = errors.New("timestamp format error")
	ErrUnknownTimezone = errors.New("unknown timezone")
)

// TimestampFormatError describes a value that FormatTimestamp rejected. Field is only set
// when the error comes out of Calendar.AddEvent.
type TimestampFormatError struct {
	Field    string
	Value    string
	Timezone string
	Err      error
}

func (e *TimestampFormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s %q in %s: %v", ErrTimestampFormat, e.Field, e.Value, e.Timezone, e.Err)
	}
	return fmt.Sprintf("%s: %q in %s: %v", ErrTimestampFormat, e.Value, e.Timezone, e.Err)
}

func (e *TimestampFormatError) Unwrap() []error {
	return []error{ErrTimestampFormat, e.Err}
}
