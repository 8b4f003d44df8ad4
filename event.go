package ics

import (
	"log/slog"
	"strings"
	"time"
)

// Event is an admitted VEVENT. Its fields are whitelisted, timestamps are already UTC
// (YYYYMMDDTHHMMSSZ) and text values are already escaped.
type Event struct {
	fields   Properties
	timezone string
}

// Id returns the UID of the event.
func (event *Event) Id() string {
	v, _ := event.fields.Get(string(FieldUid))
	return v
}

// Timezone returns the zone the event's timestamps were read in.
func (event *Event) Timezone() string {
	return event.timezone
}

// Get returns the stored, serialized form of a field.
func (event *Event) Get(field FieldName) (string, bool) {
	return event.fields.Get(string(field))
}

// Fields returns a copy of the stored fields in insertion order.
func (event *Event) Fields() Properties {
	r := make(Properties, len(event.fields))
	copy(r, event.fields)
	return r
}

func (event *Event) serializeTo(lw *lineWriter, now time.Time, logger *slog.Logger) {
	lw.line("BEGIN:", string(ComponentVEvent))
	for _, p := range event.fields {
		f := FieldName(p.Key)
		if f == FieldTimezone {
			continue
		}
		value := p.Value
		if f.IsTimestamp() {
			// Stored values are already UTC so this is an identity. A failure cannot
			// happen for an admitted event; keep the stored text if it does.
			v, err := FormatTimestampAt(value, event.timezone, now)
			if err != nil {
				logger.Warn("keeping stored timestamp", "uid", event.Id(), "field", p.Key, "error", err)
			} else {
				value = v
			}
		}
		lw.line(strings.ToUpper(p.Key), ":", value)
	}
	lw.line(string(PropertyDtstamp), ":", now.UTC().Format(icalTimestampFormatUtc))
	lw.line("END:", string(ComponentVEvent))
}
