package ics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Accessors(t *testing.T) {
	cal := newTestCalendar(Config{Timezone: "Europe/Paris"})
	require.NoError(t, cal.AddEvent(Properties{
		{Key: "summary", Value: "Lunch; with team"},
		{Key: "dtstart", Value: "2024-06-01 12:30:00"},
	}))

	e := cal.Events()[0]
	assert.Equal(t, "uid-1", e.Id())
	assert.Equal(t, "Europe/Paris", e.Timezone())

	v, ok := e.Get(FieldSummary)
	assert.True(t, ok)
	assert.Equal(t, `Lunch\; with team`, v)

	v, ok = e.Get(FieldDtStart)
	assert.True(t, ok)
	assert.Equal(t, "20240601T103000Z", v)

	_, ok = e.Get(FieldLocation)
	assert.False(t, ok)
}

func TestEvent_FieldsIsACopy(t *testing.T) {
	cal := newTestCalendar(Config{})
	require.NoError(t, cal.AddEvent(Properties{{Key: "summary", Value: "original"}}))

	fields := cal.Events()[0].Fields()
	fields[0].Value = "changed"

	v, _ := cal.Events()[0].Get(FieldSummary)
	assert.Equal(t, "original", v)
	assert.Contains(t, cal.Build(), "SUMMARY:original")
}

func TestEvent_TimezoneNotSerialized(t *testing.T) {
	cal := newTestCalendar(Config{})
	require.NoError(t, cal.AddEvent(Properties{
		{Key: "timezone", Value: "Europe/Berlin"},
		{Key: "summary", Value: "tz"},
	}))
	assert.Equal(t, []string{
		"SUMMARY:tz",
		"UID:uid-1",
		"DTSTAMP:20240101T120000Z",
	}, eventLines(t, cal.Build()))
}
