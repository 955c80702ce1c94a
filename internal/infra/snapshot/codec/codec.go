// Package codec encodes roster snapshots in their human-readable on-disk
// formats and validates decoded records.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"roster/pkg/domain"
)

// Format selects the snapshot encoding.
type Format string

const (
	// FormatJSON is an indented JSON array of {"name","age"} objects.
	FormatJSON Format = "json"
	// FormatYAML is a YAML sequence of name/age mappings.
	FormatYAML Format = "yaml"
)

// ContentType returns the MIME type written alongside object-stored snapshots.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// FormatForPath picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode renders people in format. A nil slice encodes as an empty list.
func Encode(format Format, people []domain.Person) ([]byte, error) {
	if people == nil {
		people = []domain.Person{}
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(people); err != nil {
			return nil, fmt.Errorf("encode yaml snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml snapshot: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(people, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json snapshot: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
}

// Decode parses data and validates every record. An empty payload decodes
// to an empty roster. Malformed input and invalid records return an error
// wrapping domain.ErrCorruptSnapshot.
func Decode(format Format, data []byte) ([]domain.Person, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Person{}, nil
	}
	var people []domain.Person
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &people); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &people); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
		}
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	for i, p := range people {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", domain.ErrCorruptSnapshot, i, err)
		}
	}
	if people == nil {
		people = []domain.Person{}
	}
	return people, nil
}
