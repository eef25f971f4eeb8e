package jsonschema_test

import (
	"errors"
	"math/big"
	"reflect"
	"testing"
	"time"

	js "github.com/reoring/formadapt/jsonschema"
)

func TestDefaultValues(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		want   any
	}{
		{
			name:   "required name",
			schema: `{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`,
			want:   map[string]any{"name": ""},
		},
		{
			name: "basic types and optional fields",
			schema: `{"type":"object","properties":{
				"name":{"type":"string"},
				"age":{"type":"number"},
				"ok":{"type":"boolean"},
				"tags":{"type":"array","items":{"type":"string"}},
				"addr":{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]},
				"opt":{"type":"string"},
				"nul":{"type":["string","null"]}
			},"required":["name","age","ok","tags","addr","nul"]}`,
			want: map[string]any{
				"name": "",
				"age":  float64(0),
				"ok":   false,
				"tags": []any{},
				"addr": map[string]any{"city": ""},
				"nul":  nil,
			},
		},
		{
			name:   "enum takes first value",
			schema: `{"type":"string","enum":["b","a"]}`,
			want:   "b",
		},
		{
			name:   "explicit default wins over optional",
			schema: `{"type":"object","properties":{"role":{"type":"string","default":"user"}}}`,
			want:   map[string]any{"role": "user"},
		},
		{
			name:   "explicit null default is kept",
			schema: `{"type":"object","properties":{"note":{"type":"string","default":null}}}`,
			want:   map[string]any{"note": nil},
		},
		{
			name:   "object default merged with property defaults",
			schema: `{"type":"object","default":{"a":"x"},"properties":{"a":{"type":"string"},"b":{"type":"string"}},"required":["a","b"]}`,
			want:   map[string]any{"a": "x", "b": ""},
		},
		{
			name:   "union branch with default",
			schema: `{"anyOf":[{"type":"string"},{"type":"number","default":5}]}`,
			want:   float64(5),
		},
		{
			name:   "nullable union",
			schema: `{"anyOf":[{"type":"string"},{"type":"null"}]}`,
			want:   nil,
		},
		{
			name:   "single type union uses first branch",
			schema: `{"anyOf":[{"type":"string","minLength":1},{"type":"string","maxLength":0}]}`,
			want:   "",
		},
		{
			name:   "object union merges branch defaults",
			schema: `{"anyOf":[{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]},{"type":"object","properties":{"b":{"type":"boolean"}},"required":["b"]}]}`,
			want:   map[string]any{"a": "", "b": false},
		},
		{
			name:   "allOf merged",
			schema: `{"allOf":[{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]},{"properties":{"b":{"type":"integer"}},"required":["b"]}]}`,
			want:   map[string]any{"a": "", "b": float64(0)},
		},
		{
			name:   "local ref",
			schema: `{"$defs":{"addr":{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}},"type":"object","properties":{"home":{"$ref":"#/$defs/addr"}},"required":["home"]}`,
			want:   map[string]any{"home": map[string]any{"city": ""}},
		},
		{
			name:   "cyclic ref terminates",
			schema: `{"$defs":{"node":{"type":"object","properties":{"children":{"type":"array","items":{"$ref":"#/$defs/node"}}},"required":["children"]}},"$ref":"#/$defs/node"}`,
			want:   map[string]any{"children": []any{}},
		},
		{
			name:   "untyped schema is any",
			schema: `{}`,
			want:   nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := js.DefaultValues(mustParse(t, tc.schema))
			if err != nil {
				t.Fatalf("default values: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("defaults mismatch\n got=%#v\nwant=%#v", got, tc.want)
			}
		})
	}
}

func TestDefaultValues_PseudoTypes(t *testing.T) {
	got, err := js.DefaultValues(mustParse(t, `{"type":"string","format":"bigint"}`))
	if err != nil {
		t.Fatalf("bigint: %v", err)
	}
	if n, ok := got.(*big.Int); !ok || n.Sign() != 0 {
		t.Fatalf("expected zero *big.Int, got %#v", got)
	}

	got, err = js.DefaultValues(mustParse(t, `{"type":"string","format":"bigint","default":"12345678901234567890"}`))
	if err != nil {
		t.Fatalf("bigint default: %v", err)
	}
	if n, ok := got.(*big.Int); !ok || n.String() != "12345678901234567890" {
		t.Fatalf("expected parsed *big.Int, got %#v", got)
	}

	got, err = js.DefaultValues(mustParse(t, `{"type":"integer","format":"unix-time","default":86400000}`))
	if err != nil {
		t.Fatalf("unix-time default: %v", err)
	}
	if ts, ok := got.(time.Time); !ok || !ts.Equal(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected 1970-01-02, got %#v", got)
	}

	got, err = js.DefaultValues(mustParse(t, `{"type":"integer","format":"unix-time"}`))
	if err != nil || got != nil {
		t.Fatalf("unix-time without default should be absent, got %#v err=%v", got, err)
	}
}

func TestDefaultValues_Errors(t *testing.T) {
	cases := []struct {
		name   string
		schema *js.Schema
	}{
		{"nil schema", nil},
		{"boolean schema", js.Bool(true)},
		{"multiple union defaults", mustParse(t, `{"anyOf":[{"type":"string","default":"a"},{"type":"number","default":1}]}`)},
		{"multi-type union", mustParse(t, `{"anyOf":[{"type":"string"},{"type":"number"}]}`)},
		{"unknown type", mustParse(t, `{"type":"tuple"}`)},
		{"nested failure", mustParse(t, `{"type":"object","properties":{"x":{"type":"tuple"}},"required":["x"]}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := js.DefaultValues(tc.schema)
			var se *js.SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SchemaError, got %v", err)
			}
		})
	}

	_, err := js.DefaultValues(mustParse(t, `{"type":"object","properties":{"x":{"type":"tuple"}},"required":["x"]}`))
	var se *js.SchemaError
	if !errors.As(err, &se) || !reflect.DeepEqual(se.Path, []string{"x"}) {
		t.Fatalf("expected error at path [x], got %v", err)
	}
}
