package jsonschema_test

import (
	"reflect"
	"testing"

	js "github.com/reoring/formadapt/jsonschema"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestConstraints_Fields(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{
		"name":{"type":"string","minLength":2,"maxLength":20,"pattern":"^[a-z]+$"},
		"age":{"type":"integer","exclusiveMinimum":17,"maximum":120},
		"score":{"type":"number","minimum":0,"multipleOf":0.5},
		"nick":{"type":["string","null"]},
		"email":{"type":"string","format":"email","default":"a@b.c"},
		"tags":{"type":"array","items":{"type":"string","minLength":1}},
		"address":{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}
	},"required":["name","age","score","nick","email","tags"]}`)

	got, err := js.Constraints(s)
	if err != nil {
		t.Fatalf("constraints: %v", err)
	}
	want := js.InputConstraints{
		"name":         {Pattern: "^[a-z]+$", MinLength: intPtr(2), MaxLength: intPtr(20), Required: true},
		"age":          {Min: float64(18), Max: float64(120), Required: true},
		"score":        {Min: float64(0), Step: floatPtr(0.5), Required: true},
		"tags":         {MinLength: intPtr(1), Required: true},
		"address.city": {Required: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("constraints mismatch\n got=%#v\nwant=%#v", got, want)
	}
}

func TestConstraints_UnionDropsRequired(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{
		"v":{"anyOf":[{"type":"string","minLength":3},{"type":"null"}]},
		"w":{"anyOf":[{"type":"string","maxLength":4},{"type":"number","maximum":9}]}
	},"required":["v","w"]}`)
	got, err := js.Constraints(s)
	if err != nil {
		t.Fatalf("constraints: %v", err)
	}
	if c := got["v"]; !reflect.DeepEqual(c, js.InputConstraint{MinLength: intPtr(3)}) {
		t.Fatalf("nullable union must not be required, got %#v", c)
	}
	want := js.InputConstraint{MaxLength: intPtr(4), Max: float64(9), Required: true}
	if c := got["w"]; !reflect.DeepEqual(c, want) {
		t.Fatalf("union constraints must merge, got %#v", c)
	}
}

func TestConstraints_ArrayWithoutItemConstraints(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{
		"list":{"type":"array","minItems":1,"maxItems":3},
		"rows":{"type":"array","items":{"type":"object","properties":{"qty":{"type":"integer","minimum":1}},"required":["qty"]}}
	}}`)
	got, err := js.Constraints(s)
	if err != nil {
		t.Fatalf("constraints: %v", err)
	}
	want := js.InputConstraints{
		"list":     {Min: 1, Max: 3},
		"rows.qty": {Min: float64(1), Required: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("constraints mismatch\n got=%#v\nwant=%#v", got, want)
	}
}

func TestConstraints_ScalarRoots(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		want   js.InputConstraints
	}{
		{
			name:   "allOf patterns keep the first",
			schema: `{"type":"string","allOf":[{"pattern":"^a"},{"pattern":"b$"}]}`,
			want:   js.InputConstraints{"": {Pattern: "^a", Required: true}},
		},
		{
			name:   "unix-time bounds are ISO dates",
			schema: `{"type":"integer","format":"unix-time","minimum":0,"maximum":86400000}`,
			want:   js.InputConstraints{"": {Min: "1970-01-01T00:00:00.000Z", Max: "1970-01-02T00:00:00.000Z", Required: true}},
		},
		{
			name:   "exclusive integer maximum",
			schema: `{"type":"integer","exclusiveMaximum":10}`,
			want:   js.InputConstraints{"": {Max: float64(9), Required: true}},
		},
		{
			name:   "zero minLength ignored",
			schema: `{"type":"string","minLength":0}`,
			want:   js.InputConstraints{"": {Required: true}},
		},
		{
			name:   "nullable scalar has nothing",
			schema: `{"type":["boolean","null"]}`,
			want:   js.InputConstraints{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := js.Constraints(mustParse(t, tc.schema))
			if err != nil {
				t.Fatalf("constraints: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("constraints mismatch\n got=%#v\nwant=%#v", got, tc.want)
			}
		})
	}
}

func TestConstraints_RefsExpanded(t *testing.T) {
	s := mustParse(t, `{"definitions":{"zip":{"type":"string","pattern":"^[0-9]{5}$"}},"type":"object","properties":{"zip":{"$ref":"#/definitions/zip"}},"required":["zip"]}`)
	got, err := js.Constraints(s)
	if err != nil {
		t.Fatalf("constraints: %v", err)
	}
	if c := got["zip"]; c.Pattern != "^[0-9]{5}$" || !c.Required {
		t.Fatalf("ref not expanded: %#v", c)
	}
	if s.Properties["zip"].Ref == "" {
		t.Fatalf("input schema must not be modified")
	}
}

func TestConstraints_BooleanRoot(t *testing.T) {
	if _, err := js.Constraints(js.Bool(false)); err == nil {
		t.Fatalf("expected error for boolean root schema")
	}
}
