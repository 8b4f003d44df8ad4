//go:build go1.18
// +build go1.18

package ics

import (
	"strings"
	"testing"
)

func FuzzAddEvent(f *testing.F) {
	f.Add("2024-01-12 10:00:00", "Europe/Berlin", "A, B; C\nD\\E")
	f.Add("not-a-date", "UTC", "")
	f.Add("tomorrow", "Mars/Olympus", "x")
	f.Fuzz(func(t *testing.T, dtstart, timezone, summary string) {
		cal := newTestCalendar(Config{})
		err := cal.AddEvent(Properties{
			{Key: "dtstart", Value: dtstart},
			{Key: "timezone", Value: timezone},
			{Key: "summary", Value: summary},
		})
		doc := cal.Build()
		if err != nil {
			if cal.Len() != 0 || doc != emptyDocument {
				t.Fatalf("failed add changed the calendar: %v", err)
			}
			return
		}
		begins := 0
		for _, l := range strings.Split(doc, "\n") {
			if l == "BEGIN:VEVENT" {
				begins++
			}
			if strings.HasPrefix(l, "TIMEZONE:") {
				t.Fatalf("timezone written to %q", doc)
			}
		}
		if begins != 1 {
			t.Fatalf("expected one VEVENT in %q", doc)
		}
	})
}
