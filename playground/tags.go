package playground

import (
	"reflect"
	"strconv"
	"strings"

	js "github.com/reoring/formadapt/jsonschema"
)

// applyValidateTags copies the validate tags of typ's fields that have a
// JSON Schema equivalent onto s.
func applyValidateTags(s *js.Schema, typ reflect.Type) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct || s == nil {
		return
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Tag.Get("json") == "" {
			applyValidateTags(s, sf.Type)
			continue
		}
		key := fieldKey(sf)
		if key == "-" {
			continue
		}
		prop := s.Properties[key]
		if prop == nil {
			continue
		}
		if rules := sf.Tag.Get("validate"); rules != "" && rules != "-" {
			if applyRules(prop, sf.Type, rules) && !s.IsRequired(key) {
				s.Required = append(s.Required, key)
			}
		}
		applyNested(prop, sf.Type)
	}
}

func applyNested(prop *js.Schema, typ reflect.Type) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Struct:
		applyValidateTags(prop, typ)
	case reflect.Slice, reflect.Array:
		if prop.Items != nil {
			applyNested(prop.Items, typ.Elem())
		}
	}
}

// applyRules maps the rules of one field onto prop and reports whether the
// field is required. Rules after "dive" apply to elements and are skipped.
func applyRules(prop *js.Schema, typ reflect.Type, rules string) (required bool) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	kind := typ.Kind()
	for _, rule := range strings.Split(rules, ",") {
		name, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
		switch name {
		case "dive":
			return required
		case "required":
			required = true
		case "email":
			prop.Format = "email"
		case "url", "uri":
			prop.Format = "uri"
		case "uuid":
			prop.Format = "uuid"
		case "oneof":
			prop.Enum = enumValues(kind, param)
		case "min", "gte":
			setLower(prop, kind, param, false)
		case "gt":
			setLower(prop, kind, param, true)
		case "max", "lte":
			setUpper(prop, kind, param, false)
		case "lt":
			setUpper(prop, kind, param, true)
		case "len":
			setLower(prop, kind, param, false)
			setUpper(prop, kind, param, false)
		}
	}
	return required
}

func setLower(prop *js.Schema, kind reflect.Kind, param string, exclusive bool) {
	switch {
	case kind == reflect.String:
		if n, err := strconv.Atoi(param); err == nil {
			if exclusive {
				n++
			}
			prop.MinLength = &n
		}
	case kind == reflect.Slice || kind == reflect.Array:
		if n, err := strconv.Atoi(param); err == nil {
			if exclusive {
				n++
			}
			prop.MinItems = &n
		}
	case isNumberKind(kind):
		if f, err := strconv.ParseFloat(param, 64); err == nil {
			if exclusive {
				prop.ExclusiveMinimum = &f
			} else {
				prop.Minimum = &f
			}
		}
	}
}

func setUpper(prop *js.Schema, kind reflect.Kind, param string, exclusive bool) {
	switch {
	case kind == reflect.String:
		if n, err := strconv.Atoi(param); err == nil {
			if exclusive {
				n--
			}
			prop.MaxLength = &n
		}
	case kind == reflect.Slice || kind == reflect.Array:
		if n, err := strconv.Atoi(param); err == nil {
			if exclusive {
				n--
			}
			prop.MaxItems = &n
		}
	case isNumberKind(kind):
		if f, err := strconv.ParseFloat(param, 64); err == nil {
			if exclusive {
				prop.ExclusiveMaximum = &f
			} else {
				prop.Maximum = &f
			}
		}
	}
}

func enumValues(kind reflect.Kind, param string) []any {
	fields := strings.Fields(param)
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if isNumberKind(kind) {
			if n, err := strconv.ParseFloat(f, 64); err == nil {
				out = append(out, n)
				continue
			}
		}
		out = append(out, strings.Trim(f, "'"))
	}
	return out
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
