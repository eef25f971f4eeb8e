package playground_test

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	formadapt "github.com/reoring/formadapt"
	"github.com/reoring/formadapt/playground"
)

type address struct {
	City string `json:"city" validate:"required"`
	Zip  string `json:"zip,omitempty" validate:"omitempty,len=5"`
}

type signup struct {
	Name    string   `json:"name" validate:"required,min=2,max=20"`
	Age     int      `json:"age" validate:"gte=18,lt=130"`
	Email   string   `json:"email" validate:"required,email"`
	Role    string   `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Tags    []string `json:"tags,omitempty" validate:"max=3,dive,min=1"`
	Address address  `json:"address"`
	secret  string
}

func TestSchema_ValidateTags(t *testing.T) {
	s, err := playground.Schema(reflect.TypeFor[signup]())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	name := s.Properties["name"]
	if name == nil || name.MinLength == nil || *name.MinLength != 2 || name.MaxLength == nil || *name.MaxLength != 20 {
		t.Fatalf("name length bounds not applied: %#v", name)
	}
	age := s.Properties["age"]
	if age.Minimum == nil || *age.Minimum != 18 || age.ExclusiveMaximum == nil || *age.ExclusiveMaximum != 130 {
		t.Fatalf("age bounds not applied: %#v", age)
	}
	if f := s.Properties["email"].Format; f != "email" {
		t.Fatalf("email format = %q", f)
	}
	if enum := s.Properties["role"].Enum; !reflect.DeepEqual(enum, []any{"admin", "user"}) {
		t.Fatalf("role enum = %#v", enum)
	}
	tags := s.Properties["tags"]
	if tags.MaxItems == nil || *tags.MaxItems != 3 {
		t.Fatalf("tags maxItems not applied: %#v", tags)
	}
	if tags.Items != nil && tags.Items.MinLength != nil {
		t.Fatalf("rules after dive must not reach the array itself")
	}
	for _, key := range []string{"name", "email"} {
		if !slices.Contains(s.Required, key) {
			t.Fatalf("%s should be required, got %v", key, s.Required)
		}
	}
	if !s.Properties["address"].IsRequired("city") {
		t.Fatalf("nested required not applied")
	}
	if zip := s.Properties["address"].Properties["zip"]; zip.MinLength == nil || *zip.MinLength != 5 || *zip.MaxLength != 5 {
		t.Fatalf("len not applied: %#v", zip)
	}
	if _, ok := s.Properties["secret"]; ok {
		t.Fatalf("unexported field must not be reflected")
	}
}

func TestAdapter_Normalize(t *testing.T) {
	a, err := playground.Adapter[signup]()
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	if a.Library != formadapt.LibraryPlayground {
		t.Fatalf("library = %q", a.Library)
	}
	m, err := formadapt.MapAdapter(a)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if !m.Objects.IsNested("address") || !m.Objects.IsNested("tags") || m.Objects.IsNested("name") {
		t.Fatalf("unexpected object shape %#v", m.Objects)
	}
	if c := m.Constraints["name"]; !c.Required || c.MinLength == nil || *c.MinLength != 2 {
		t.Fatalf("name constraint = %#v", c)
	}
	if c := m.Constraints["address.city"]; !c.Required {
		t.Fatalf("address.city constraint = %#v", c)
	}
	if m.Defaults == nil || m.Defaults.Name != "" || m.Defaults.Address.City != "" {
		t.Fatalf("defaults = %#v", m.Defaults)
	}
}

func TestAdapter_CustomValidator(t *testing.T) {
	a, err := playground.Adapter[signup]()
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	ctx := context.Background()

	res, err := a.CustomValidator(ctx, map[string]any{
		"name":    "ann",
		"age":     30,
		"email":   "ann@example.com",
		"address": map[string]any{"city": "Oslo"},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.Success || res.Data.Name != "ann" || res.Data.Address.City != "Oslo" {
		t.Fatalf("expected success, got %#v", res)
	}

	res, err = a.CustomValidator(ctx, []byte(`{"name":"a","age":12,"email":"nope"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure")
	}
	codes := map[string]string{}
	for _, iss := range res.Issues {
		codes[iss.Path] = iss.Code
	}
	want := map[string]string{
		"/name":         formadapt.CodeTooShort,
		"/age":          formadapt.CodeTooSmall,
		"/email":        formadapt.CodeInvalidFormat,
		"/address/city": formadapt.CodeRequired,
	}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("issues mismatch\n got=%v\nwant=%v", codes, want)
	}

	res, err = a.CustomValidator(ctx, []byte(`{`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Success || len(res.Issues) != 1 || res.Issues[0].Code != formadapt.CodeParseError || res.Issues[0].Path != "/" {
		t.Fatalf("expected parse error issue, got %#v", res.Issues)
	}
}

func TestAdapter_NotStruct(t *testing.T) {
	if _, err := playground.Adapter[map[string]any](); !errors.Is(err, playground.ErrNotStruct) {
		t.Fatalf("expected ErrNotStruct, got %v", err)
	}
}

func TestAdapter_OptionsPassThrough(t *testing.T) {
	defaults := &signup{Role: "user"}
	a, err := playground.Adapter(formadapt.WithDefaults(defaults))
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	m, err := formadapt.MapAdapter(a)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if m.Defaults != defaults {
		t.Fatalf("supplied defaults must be reused")
	}
}
