package jsonschema

import (
	"math"
	"math/big"
	"strconv"
	"time"
)

// DefaultValues returns a default instance for s: objects become
// map[string]any with one entry per non-optional property, numbers are
// float64, bigint is *big.Int and unix-time is time.Time. It returns nil when
// the root itself has no default (optional or of type any).
func DefaultValues(s *Schema) (any, error) {
	v, _, err := defaultValues(expandRefs(s), false, nil)
	return v, err
}

// defaultValues reports present=false when the value must be left out of
// its parent object.
func defaultValues(s *Schema, optional bool, path []string) (value any, present bool, err error) {
	info, err := newSchemaInfo(s, optional, path)
	if err != nil {
		return nil, false, err
	}
	eff := info.schema

	var objectDefaults map[string]any
	if eff.HasDefault() {
		if m, ok := eff.Default.(map[string]any); ok && info.hasType("object") {
			objectDefaults = m
		} else {
			if len(info.types) > 1 && info.hasType(TypeUnixTime) && (info.hasType("integer") || info.hasType("number")) {
				return nil, false, schemaErrorf(path, "cannot resolve a default value with a union that includes a date and a number/integer")
			}
			v, err := formatDefaultValue(info.types[0], eff.Default, path)
			return v, true, err
		}
	}

	// unions first, so branch defaults take precedence over nullable/optional
	if objectDefaults == nil && len(info.union) > 0 {
		var withDefault []*Schema
		for _, u := range info.union {
			if u.HasDefault() {
				withDefault = append(withDefault, u)
			}
		}
		switch {
		case len(withDefault) == 1:
			return defaultValues(withDefault[0], optional, path)
		case len(withDefault) > 1:
			return nil, false, schemaErrorf(path, "only one default value can exist in a union, or set a default value for the whole union")
		}
		if info.nullable {
			return nil, true, nil
		}
		if info.optional {
			return nil, false, nil
		}
		if info.isMultiTypeUnion() {
			return nil, false, schemaErrorf(path, "multi-type unions must have a default value, or exactly one of the union types must have")
		}
		if info.types[0] == "object" {
			return mergedUnionDefaults(info.union, optional, path)
		}
		return defaultValues(info.union[0], optional, path)
	}

	if objectDefaults == nil {
		if info.nullable {
			return nil, true, nil
		}
		if info.optional {
			return nil, false, nil
		}
	}

	if info.properties != nil {
		out := make(map[string]any, len(info.properties))
		for key, prop := range info.properties {
			if v, ok := objectDefaults[key]; ok {
				out[key] = v
				continue
			}
			v, ok, err := defaultValues(prop, !eff.IsRequired(key), childPath(path, key))
			if err != nil {
				return nil, false, err
			}
			if ok {
				out[key] = v
			}
		}
		return out, true, nil
	}
	if objectDefaults != nil {
		return objectDefaults, true, nil
	}

	if len(eff.Enum) > 0 {
		return eff.Enum[0], true, nil
	}
	if info.isMultiTypeUnion() {
		return nil, false, schemaErrorf(path, "default values cannot have more than one type")
	}
	return defaultValue(info.types[0], path)
}

// mergedUnionDefaults combines the defaults of object branches; earlier
// branches win on conflicting keys.
func mergedUnionDefaults(union []*Schema, optional bool, path []string) (any, bool, error) {
	out := map[string]any{}
	for _, u := range union {
		v, ok, err := defaultValues(u, optional, path)
		if err != nil {
			return nil, false, err
		}
		m, isMap := v.(map[string]any)
		if !ok || !isMap {
			continue
		}
		for k, vv := range m {
			if _, exists := out[k]; !exists {
				out[k] = vv
			}
		}
	}
	return out, true, nil
}

func defaultValue(typ string, path []string) (any, bool, error) {
	switch typ {
	case "string":
		return "", true, nil
	case "number", "integer":
		return float64(0), true, nil
	case "boolean":
		return false, true, nil
	case "array":
		return []any{}, true, nil
	case "object":
		return map[string]any{}, true, nil
	case "null":
		return nil, true, nil
	case TypeBigInt:
		return new(big.Int), true, nil
	case TypeUnixTime, TypeAny:
		return nil, false, nil
	default:
		return nil, false, schemaErrorf(path, "schema type or format not supported, requires explicit default value: %s", typ)
	}
}

// formatDefaultValue converts an explicit default into the Go value used for
// pseudo types; other defaults are returned unchanged.
func formatDefaultValue(typ string, v any, path []string) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch typ {
	case TypeUnixTime:
		ms, ok := toFloat(v)
		if !ok {
			return nil, schemaErrorf(path, "unix-time default must be a number of milliseconds")
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	case TypeBigInt:
		switch t := v.(type) {
		case string:
			n, ok := new(big.Int).SetString(t, 10)
			if !ok {
				return nil, schemaErrorf(path, "invalid bigint default %q", t)
			}
			return n, nil
		default:
			f, ok := toFloat(v)
			if !ok || f != math.Trunc(f) {
				return nil, schemaErrorf(path, "invalid bigint default %v", v)
			}
			n, _ := new(big.Int).SetString(strconv.FormatFloat(f, 'f', 0, 64), 10)
			return n, nil
		}
	}
	return v, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case uint:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
