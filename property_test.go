package ics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeString(t *testing.T) {
	tests := []struct {
		Input    string
		Expected string
	}{
		{Input: "plain text", Expected: "plain text"},
		{Input: "A, B; C\nD\\E", Expected: `A\, B\; C\nD\\E`},
		{Input: `already \n escaped`, Expected: `already \\n escaped`},
		{Input: `\,`, Expected: `\\\,`},
		{Input: "colons: are fine", Expected: "colons: are fine"},
		{Input: "", Expected: ""},
	}
	for i, test := range tests {
		output := EscapeString(test.Input)
		if output != test.Expected {
			t.Logf("Got: %q", output)
			t.Logf("Failed %d %#v", i, test)
			t.Fail()
		}
	}
}

func TestFieldName(t *testing.T) {
	for _, f := range Fields {
		assert.True(t, f.IsAllowed(), f)
	}
	assert.False(t, FieldDtStamp.IsAllowed())
	assert.False(t, FieldName("foo").IsAllowed())
	assert.False(t, FieldName("Summary").IsAllowed())

	assert.True(t, FieldDtStart.IsTimestamp())
	assert.True(t, FieldDtEnd.IsTimestamp())
	assert.True(t, FieldDtStamp.IsTimestamp())
	assert.False(t, FieldSummary.IsTimestamp())
	assert.False(t, FieldTimezone.IsTimestamp())
}

func TestProperties(t *testing.T) {
	var ps Properties
	ps = ps.Set("summary", "a")
	ps = ps.Set("location", "b")
	ps = ps.Set("summary", "c")
	assert.Equal(t, Properties{{Key: "summary", Value: "c"}, {Key: "location", Value: "b"}}, ps)

	v, ok := ps.Get("location")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	_, ok = ps.Get("url")
	assert.False(t, ok)
}

func TestPropertiesFromMap(t *testing.T) {
	ps := PropertiesFromMap(map[string]string{
		"zeta":     "1",
		"uid":      "u",
		"alpha":    "2",
		"summary":  "s",
		"timezone": "UTC",
	})
	assert.Equal(t, Properties{
		{Key: "summary", Value: "s"},
		{Key: "uid", Value: "u"},
		{Key: "timezone", Value: "UTC"},
		{Key: "alpha", Value: "2"},
		{Key: "zeta", Value: "1"},
	}, ps)
}
