package ics

import (
	"slices"
	"strings"
)

// FieldName is the lower-case name of an event field as callers supply it. The property
// line written for a field is its upper-cased name.
type FieldName string

const (
	FieldDescription FieldName = "description"
	FieldDtEnd       FieldName = "dtend"
	FieldDtStart     FieldName = "dtstart"
	FieldLocation    FieldName = "location"
	FieldSummary     FieldName = "summary"
	FieldUrl         FieldName = "url"
	FieldUid         FieldName = "uid"
	// FieldTimezone is metadata only: it selects the zone timestamps are read in and is
	// never written to the document.
	FieldTimezone FieldName = "timezone"
	// FieldDtStamp is normalized like the other timestamps but is not accepted from
	// callers; the builder writes its own DTSTAMP.
	FieldDtStamp FieldName = "dtstamp"
)

// Fields lists the accepted field names in their canonical order. AddEventMap orders
// unordered input by this list.
var Fields = []FieldName{
	FieldDescription,
	FieldDtEnd,
	FieldDtStart,
	FieldLocation,
	FieldSummary,
	FieldUrl,
	FieldUid,
	FieldTimezone,
}

// IsAllowed reports whether a field name survives the whitelist.
func (f FieldName) IsAllowed() bool {
	for _, a := range Fields {
		if a == f {
			return true
		}
	}
	return false
}

// IsTimestamp reports whether values of the field are normalized to UTC.
func (f FieldName) IsTimestamp() bool {
	switch f {
	case FieldDtStart, FieldDtEnd, FieldDtStamp:
		return true
	}
	return false
}

// Property is a single key/value pair of an event.
type Property struct {
	Key   string
	Value string
}

// Properties keeps event fields in the order they were supplied.
type Properties []Property

// Get returns the first value stored for key.
func (ps Properties) Get(key string) (string, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Set replaces the value of key in place, otherwise appends it.
func (ps Properties) Set(key, value string) Properties {
	for i := range ps {
		if ps[i].Key == key {
			ps[i].Value = value
			return ps
		}
	}
	return append(ps, Property{Key: key, Value: value})
}

// PropertiesFromMap orders m by Fields; keys outside the whitelist follow in sorted order so
// the result is deterministic.
func PropertiesFromMap(m map[string]string) Properties {
	ps := make(Properties, 0, len(m))
	for _, f := range Fields {
		if v, ok := m[string(f)]; ok {
			ps = append(ps, Property{Key: string(f), Value: v})
		}
	}
	var rest []string
	for k := range m {
		if !FieldName(k).IsAllowed() {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		ps = append(ps, Property{Key: k, Value: m[k]})
	}
	return ps
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	`,`, `\,`,
	`;`, `\;`,
)

// EscapeString escapes a TEXT value: backslash, newline, comma and semicolon. Backslashes
// are handled in the same pass, so escapes produced for the other characters are never
// escaped again.
func EscapeString(s string) string {
	return textEscaper.Replace(s)
}
