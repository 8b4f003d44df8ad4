// Package eventfile decodes event records for icsgen from YAML, JSON or TOML documents.
//
//	timezone: Europe/Berlin
//	events:
//	  - summary: Standup
//	    dtstart: 2024-01-12 10:00:00
package eventfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	ics "github.com/handcal/ics"
)

// Format selects the decoder.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown event file format")

// File is a decoded event file. Events keep the key order of the source where the format
// allows it (YAML and JSON); TOML tables are ordered like ics.Fields. YAML and JSON scalars
// keep their source text; TOML floats must be quoted.
type File struct {
	Timezone string
	Events   []ics.Properties
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ParseFormat accepts the names used on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// Load reads and decodes path, choosing the format by extension.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a whole document from r.
func Decode(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is a subset of YAML and MapSlice keeps the key order.
		return decodeYAML(data)
	case FormatTOML:
		return decodeTOML(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

type yamlDocument struct {
	Timezone string      `yaml:"timezone"`
	Events   []yamlEvent `yaml:"events"`
}

// yamlEvent takes key order from a MapSlice and values as their source text, so 1.0 stays
// "1.0" rather than going through float64.
type yamlEvent ics.Properties

func (e *yamlEvent) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var order yaml.MapSlice
	if err := unmarshal(&order); err != nil {
		return err
	}
	var values map[string]string
	if err := unmarshal(&values); err != nil {
		return err
	}
	props := make(ics.Properties, 0, len(order))
	for _, kv := range order {
		key, ok := kv.Key.(string)
		if !ok {
			return fmt.Errorf("key %v is not a string", kv.Key)
		}
		props = append(props, ics.Property{Key: key, Value: values[key]})
	}
	*e = yamlEvent(props)
	return nil
}

func decodeYAML(data []byte) (*File, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	file := &File{Timezone: doc.Timezone, Events: make([]ics.Properties, 0, len(doc.Events))}
	for _, item := range doc.Events {
		file.Events = append(file.Events, ics.Properties(item))
	}
	return file, nil
}

type tomlDocument struct {
	Timezone string           `toml:"timezone"`
	Events   []map[string]any `toml:"events"`
}

func decodeTOML(data []byte) (*File, error) {
	var doc tomlDocument
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	file := &File{Timezone: doc.Timezone, Events: make([]ics.Properties, 0, len(doc.Events))}
	for i, item := range doc.Events {
		m := make(map[string]string, len(item))
		for key, v := range item {
			value, err := scalarString(v)
			if err != nil {
				return nil, fmt.Errorf("event %d: %s: %w", i, key, err)
			}
			m[key] = value
		}
		file.Events = append(file.Events, ics.PropertiesFromMap(m))
	}
	return file, nil
}

// scalarString converts a decoded TOML value. Floats are refused because their source text
// is gone; quote them to keep it.
func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case time.Time:
		return tomlTimeString(v)
	case bool, int, int64, uint64:
		return fmt.Sprint(v), nil
	case float64:
		return "", fmt.Errorf("float %v must be quoted to keep its text", v)
	}
	return "", fmt.Errorf("unsupported value of type %T", v)
}

// tomlTimeString keeps the offset of TOML offset date-times and leaves local date-times as
// wall clock text, to be read in the event's timezone. A time of day without a date is
// rejected.
func tomlTimeString(t time.Time) (string, error) {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02 15:04:05"), nil
	case "date-local":
		return t.Format("2006-01-02"), nil
	case "time-local":
		return "", fmt.Errorf("time %s has no date", t.Format("15:04:05"))
	}
	return t.Format(time.RFC3339), nil
}
