package jsonschema

import json "github.com/goccy/go-json"

// ObjectShape marks which fields of an instance are nested objects or
// arrays. A key is present exactly when its field is a container; scalar
// fields are absent.
type ObjectShape map[string]ObjectShape

// IsNested reports whether key is an object or array field.
func (o ObjectShape) IsNested(key string) bool {
	_, ok := o[key]
	return ok
}

// MarshalJSON encodes the shape as nested objects. The encoder cannot
// compile the self-referencing map type, so it is converted to plain maps.
func (o ObjectShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.plain())
}

func (o ObjectShape) plain() map[string]any {
	out := make(map[string]any, len(o))
	for k, v := range o {
		out[k] = v.plain()
	}
	return out
}

// ObjectShapeOf derives the object shape of s. A non-container root yields an
// empty shape.
func ObjectShapeOf(s *Schema) (ObjectShape, error) {
	shape, _, err := objectShape(expandRefs(s), nil)
	if err != nil {
		return nil, err
	}
	if shape == nil {
		shape = ObjectShape{}
	}
	return shape, nil
}

func objectShape(s *Schema, path []string) (ObjectShape, bool, error) {
	info, err := newSchemaInfo(s, false, path)
	if err != nil {
		return nil, false, err
	}
	if !info.hasType("object") && !info.hasType("array") {
		return nil, false, nil
	}

	out := ObjectShape{}
	for _, u := range info.union {
		if err := mergeShape(out, u, path); err != nil {
			return nil, false, err
		}
	}
	for _, item := range info.array {
		if err := mergeShape(out, item, path); err != nil {
			return nil, false, err
		}
	}
	for name, prop := range info.properties {
		nested, ok, err := objectShape(prop, childPath(path, name))
		if err != nil {
			return nil, false, err
		}
		if ok {
			out[name] = nested
		}
	}
	return out, true, nil
}

func mergeShape(dst ObjectShape, s *Schema, path []string) error {
	shape, ok, err := objectShape(s, path)
	if err != nil || !ok {
		return err
	}
	for k, v := range shape {
		dst[k] = v
	}
	return nil
}
