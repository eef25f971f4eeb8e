package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON document into a Schema.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("jsonschema: invalid JSON: %w", err)
	}
	return s, nil
}

// ParseYAML decodes the first document of a YAML stream into a Schema.
func ParseYAML(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("jsonschema: empty YAML document")
		}
		return nil, fmt.Errorf("jsonschema: invalid YAML: %w", err)
	}
	return FromValue(yamlNormalizeValue(node))
}

// FromValue converts a JSON-marshalable value (a decoded map, a schema from
// another library) into a Schema.
func FromValue(v any) (*Schema, error) {
	switch t := v.(type) {
	case nil:
		return nil, errors.New("jsonschema: nil schema")
	case *Schema:
		return t, nil
	case []byte:
		return Parse(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: cannot marshal input: %w", err)
	}
	return Parse(b)
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like values recursively.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
