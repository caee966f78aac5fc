package satchel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// Serializer converts documents to and from their stored JSON text.
// A Store uses one serializer for payload values, patches and
// containment criteria alike, so callers can swap in an
// implementation with custom tag handling or canonical output.
type Serializer interface {
	Serialize(v any) (string, error)
	Deserialize(data string, v any) error
}

type jsonSerializer struct{}

// DefaultSerializer returns the encoding/json serializer used when a
// Store's configuration does not supply one. HTML escaping is
// disabled so stored documents read back byte-comparable to their
// input.
func DefaultSerializer() Serializer {
	return jsonSerializer{}
}

func (jsonSerializer) Serialize(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	// Encode appends a newline; the stored text must not carry it.
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (jsonSerializer) Deserialize(data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("deserialize document: %w", err)
	}
	return nil
}

// documentKey serializes a document and extracts its string-coerced
// key from the given field. The key is always compared as text
// regardless of its native type, so numeric and string IDs behave
// identically. Returns the serialized text alongside the key to
// avoid serializing twice.
func documentKey(s Serializer, keyField string, doc any) (id, data string, err error) {
	data, err = s.Serialize(doc)
	if err != nil {
		return "", "", err
	}
	var fields map[string]any
	if err := s.Deserialize(data, &fields); err != nil {
		return "", "", fmt.Errorf("extract document key: %w", err)
	}
	return cast.ToString(fields[keyField]), data, nil
}
