package ics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ComponentType enumerates the component names written by the builder.
type ComponentType string

const (
	// ComponentVCalendar is the VCALENDAR container component.
	ComponentVCalendar ComponentType = "VCALENDAR"
	// ComponentVEvent represents a VEVENT component.
	ComponentVEvent ComponentType = "VEVENT"
)

// Property names of the calendar envelope and of the generated event stamp.
type PropertyName string

const (
	PropertyVersion   PropertyName = "VERSION"
	PropertyProductId PropertyName = "PRODID"
	PropertyCalscale  PropertyName = "CALSCALE"
	PropertyDtstamp   PropertyName = "DTSTAMP"
)

const (
	Version   = "2.0"
	ProductId = "-//hacksw/handcal//NONSGML v1.0//EN"
	Calscale  = "GREGORIAN"

	// DefaultTimezone is used when Config.Timezone is empty.
	DefaultTimezone = "UTC"
)

// Config is the construction-time configuration of a Calendar.
type Config struct {
	// Timezone names the zone that event timestamps are read in unless an event carries
	// its own. It is not validated until an event uses it.
	Timezone string `json:"timezone" yaml:"timezone" toml:"timezone"`
}

// Option customises a Calendar.
type Option func(*Calendar)

// WithLogger sets the logger used for admission and build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cal *Calendar) {
		if logger != nil {
			cal.logger = logger
		}
	}
}

// WithClock replaces time.Now as the source of DTSTAMP and of the "now" sentinel.
func WithClock(now func() time.Time) Option {
	return func(cal *Calendar) {
		if now != nil {
			cal.now = now
		}
	}
}

// WithUIDGenerator replaces uuid.NewString for events without a uid.
func WithUIDGenerator(newUID func() string) Option {
	return func(cal *Calendar) {
		if newUID != nil {
			cal.newUID = newUID
		}
	}
}

// Calendar is an ordered store of events rendered as one VCALENDAR. It holds no lock:
// AddEvent must not run concurrently with AddEvent or with serialization.
type Calendar struct {
	defaultTimezone string
	events          []*Event

	logger *slog.Logger
	now    func() time.Time
	newUID func() string
}

// NewCalendar returns an empty Calendar.
func NewCalendar(cfg Config, opts ...Option) *Calendar {
	tz := cfg.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	cal := &Calendar{
		defaultTimezone: tz,
		events:          []*Event{},
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:             time.Now,
		newUID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(cal)
	}
	return cal
}

// DefaultTimezone returns the zone used for events without their own timezone.
func (cal *Calendar) DefaultTimezone() string {
	return cal.defaultTimezone
}

// Len returns the number of admitted events.
func (cal *Calendar) Len() int {
	return len(cal.events)
}

// Events returns the admitted events in insertion order.
func (cal *Calendar) Events() []*Event {
	r := make([]*Event, len(cal.events))
	copy(r, cal.events)
	return r
}

// AddEvent admits one event. Keys outside Fields are dropped. Timestamps are converted to
// UTC using the event's timezone, or the calendar default, and text values are escaped.
// If any timestamp cannot be read, the returned error wraps ErrTimestampFormat and the
// calendar is left unchanged.
func (cal *Calendar) AddEvent(props Properties) error {
	var fields Properties
	for _, p := range props {
		if FieldName(p.Key).IsAllowed() {
			fields = fields.Set(p.Key, p.Value)
		}
	}

	tz := cal.defaultTimezone
	if v, ok := fields.Get(string(FieldTimezone)); ok && v != "" {
		tz = v
	}

	now := cal.now()
	for i := range fields {
		f := FieldName(fields[i].Key)
		switch {
		case f.IsTimestamp():
			v, err := FormatTimestampAt(fields[i].Value, tz, now)
			if err != nil {
				var tsErr *TimestampFormatError
				if errors.As(err, &tsErr) {
					tsErr.Field = string(f)
				}
				cal.logger.Warn("rejecting event", "field", string(f), "value", fields[i].Value, "timezone", tz, "error", err)
				return fmt.Errorf("add event: %w", err)
			}
			fields[i].Value = v
		case f == FieldTimezone:
		default:
			fields[i].Value = EscapeString(fields[i].Value)
		}
	}

	fields = fields.Set(string(FieldTimezone), tz)
	if uid, ok := fields.Get(string(FieldUid)); !ok || uid == "" {
		fields = fields.Set(string(FieldUid), cal.newUID())
	}

	e := &Event{fields: fields, timezone: tz}
	cal.events = append(cal.events, e)
	cal.logger.Debug("event added", "uid", e.Id(), "timezone", tz, "fields", len(fields))
	return nil
}

// AddEventMap is AddEvent for unordered input. Fields are written in the order of Fields.
func (cal *Calendar) AddEventMap(props map[string]string) error {
	return cal.AddEvent(PropertiesFromMap(props))
}

// Build renders the calendar with LF line endings. DTSTAMP lines carry the time of the
// call; the rest of the output only depends on the admitted events.
func (cal *Calendar) Build() string {
	return cal.Serialize()
}

func (cal *Calendar) Serialize(ops ...any) string {
	b := &strings.Builder{}
	// We are intentionally ignoring the return value. _ used to communicate this to lint.
	_ = cal.SerializeTo(b, ops...)
	return b.String()
}

func (cal *Calendar) SerializeTo(w io.Writer, ops ...any) error {
	serializeConfig, err := parseSerializeOps(ops)
	if err != nil {
		return err
	}
	lw := &lineWriter{w: w, newLine: serializeConfig.NewLine}
	lw.line("BEGIN:", string(ComponentVCalendar))
	lw.line(string(PropertyVersion), ":", Version)
	lw.line(string(PropertyProductId), ":", ProductId)
	lw.line(string(PropertyCalscale), ":", Calscale)
	for _, e := range cal.events {
		e.serializeTo(lw, cal.now(), cal.logger)
	}
	lw.line("END:", string(ComponentVCalendar))
	if serializeConfig.TrailingNewLine {
		lw.end()
	}
	return lw.err
}

type WithNewLine string

// WithTrailingNewLine terminates the last line as well.
type WithTrailingNewLine bool

// SerializationConfiguration controls how a calendar is written out. Lines are separated
// by NewLine; by default the document does not end with one.
type SerializationConfiguration struct {
	NewLine         string
	TrailingNewLine bool
}

// parseSerializeOps interprets the optional arguments provided to Serialize or
// SerializeTo. It accepts WithNewLine, WithTrailingNewLine or a
// *SerializationConfiguration. Unsupported types return an error.
func parseSerializeOps(ops []any) (*SerializationConfiguration, error) {
	serializeConfig := defaultSerializationOptions()
	for opi, op := range ops {
		switch op := op.(type) {
		case WithNewLine:
			serializeConfig.NewLine = string(op)
		case WithTrailingNewLine:
			serializeConfig.TrailingNewLine = bool(op)
		case *SerializationConfiguration:
			return op, nil
		case error:
			return nil, op
		default:
			return nil, fmt.Errorf("unknown op %d of type %s", opi, reflect.TypeOf(op))
		}
	}
	return serializeConfig, nil
}

func defaultSerializationOptions() *SerializationConfiguration {
	return &SerializationConfiguration{
		NewLine: string(NewLine),
	}
}

// lineWriter writes separator-joined lines and keeps the first write error.
type lineWriter struct {
	w       io.Writer
	newLine string
	n       int
	err     error
}

func (lw *lineWriter) line(parts ...string) {
	if lw.err != nil {
		return
	}
	if lw.n > 0 {
		if _, lw.err = io.WriteString(lw.w, lw.newLine); lw.err != nil {
			return
		}
	}
	for _, p := range parts {
		if _, lw.err = io.WriteString(lw.w, p); lw.err != nil {
			return
		}
	}
	lw.n++
}

func (lw *lineWriter) end() {
	if lw.err == nil && lw.n > 0 {
		_, lw.err = io.WriteString(lw.w, lw.newLine)
	}
}
