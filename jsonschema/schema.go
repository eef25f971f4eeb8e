// Package jsonschema models JSON Schema documents and derives form metadata
// from them: default values, HTML input constraints and object shapes.
package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Schema is a JSON Schema node. Only the keywords read by the analyzers in
// this package are modeled; other keywords are dropped on decode.
type Schema struct {
	SchemaURI   string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Core
	Type    TypeList `json:"type,omitempty"`
	Format  string   `json:"format,omitempty"`
	Default any      `json:"default,omitempty"`
	Const   any      `json:"const,omitempty"`
	Enum    []any    `json:"enum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`
	UniqueItems bool      `json:"uniqueItems,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Composition
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	Defs        map[string]*Schema `json:"$defs,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`

	hasDefault bool
	hasConst   bool
	boolean    *bool
}

// Bool returns the boolean schema true (accept everything) or false.
func Bool(v bool) *Schema { return &Schema{boolean: &v} }

// IsBool reports whether s is a boolean schema and, if so, its value.
func (s *Schema) IsBool() (value, ok bool) {
	if s == nil || s.boolean == nil {
		return false, false
	}
	return *s.boolean, true
}

// HasDefault reports whether the default keyword is present, including
// an explicit null.
func (s *Schema) HasDefault() bool { return s != nil && (s.hasDefault || s.Default != nil) }

// SetDefault sets the default keyword; v may be nil.
func (s *Schema) SetDefault(v any) {
	s.Default = v
	s.hasDefault = true
}

// HasConst reports whether the const keyword is present, including an
// explicit null.
func (s *Schema) HasConst() bool { return s != nil && (s.hasConst || s.Const != nil) }

// SetConst sets the const keyword; v may be nil.
func (s *Schema) SetConst(v any) {
	s.Const = v
	s.hasConst = true
}

// IsRequired reports whether key is listed in the required keyword.
func (s *Schema) IsRequired(key string) bool {
	for _, r := range s.Required {
		if r == key {
			return true
		}
	}
	return false
}

// MarshalJSON encodes boolean schemas as true/false and everything else as
// an object.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s.boolean != nil {
		return json.Marshal(*s.boolean)
	}
	type plain Schema
	b, err := json.Marshal((*plain)(s))
	if err != nil {
		return nil, err
	}
	// omitempty drops an explicit null default or const
	if s.hasDefault && s.Default == nil {
		b = insertNull(b, "default")
	}
	if s.hasConst && s.Const == nil {
		b = insertNull(b, "const")
	}
	return b, nil
}

// insertNull adds "key":null to the encoded object b.
func insertNull(b []byte, key string) []byte {
	field := `"` + key + `":null`
	if string(b) == "{}" {
		return []byte("{" + field + "}")
	}
	out := make([]byte, 0, len(b)+len(field)+1)
	out = append(out, '{')
	out = append(out, field...)
	out = append(out, ',')
	return append(out, b[1:]...)
}

// UnmarshalJSON accepts boolean schemas, a single or tuple form of items,
// and records whether default/const were present.
func (s *Schema) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "true", "false":
		*s = *Bool(string(trimmed) == "true")
		return nil
	}

	type plain Schema
	aux := struct {
		plain
		Items json.RawMessage `json:"items,omitempty"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Schema(aux.plain)
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, s.hasDefault = keys["default"]
	_, s.hasConst = keys["const"]

	items := bytes.TrimSpace(aux.Items)
	if len(items) == 0 || string(items) == "null" {
		return nil
	}
	if items[0] == '[' {
		var tuple []*Schema
		if err := json.Unmarshal(items, &tuple); err != nil {
			return fmt.Errorf("jsonschema: items: %w", err)
		}
		s.PrefixItems = append(s.PrefixItems, tuple...)
		return nil
	}
	item := &Schema{}
	if err := json.Unmarshal(items, item); err != nil {
		return fmt.Errorf("jsonschema: items: %w", err)
	}
	s.Items = item
	return nil
}

// TypeList is the type keyword, which may be a single name or an array.
type TypeList []string

// Has reports whether name is one of the listed types.
func (t TypeList) Has(name string) bool {
	for _, v := range t {
		if v == name {
			return true
		}
	}
	return false
}

// MarshalJSON emits a bare string for a single type.
func (t TypeList) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON accepts "string" or ["string", "null"].
func (t *TypeList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = TypeList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("jsonschema: type must be a string or an array of strings: %w", err)
	}
	*t = many
	return nil
}
