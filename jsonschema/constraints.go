package jsonschema

import (
	"math"
	"strings"
	"time"
)

// InputConstraint holds the HTML input attributes derived for one field.
// Min and Max are float64 for numbers, int for array lengths and an
// ISO-8601 string for unix-time fields.
type InputConstraint struct {
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min       any      `json:"min,omitempty" yaml:"min,omitempty"`
	Max       any      `json:"max,omitempty" yaml:"max,omitempty"`
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Step      *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	MinLength *int     `json:"minlength,omitempty" yaml:"minlength,omitempty"`
	MaxLength *int     `json:"maxlength,omitempty" yaml:"maxlength,omitempty"`
}

// IsZero reports whether no attribute is set.
func (c InputConstraint) IsZero() bool {
	return c.Pattern == "" && c.Min == nil && c.Max == nil && !c.Required &&
		c.Step == nil && c.MinLength == nil && c.MaxLength == nil
}

// merge overlays the attributes set on src.
func (c InputConstraint) merge(src InputConstraint) InputConstraint {
	if src.Pattern != "" {
		c.Pattern = src.Pattern
	}
	if src.Min != nil {
		c.Min = src.Min
	}
	if src.Max != nil {
		c.Max = src.Max
	}
	if src.Required {
		c.Required = true
	}
	if src.Step != nil {
		c.Step = src.Step
	}
	if src.MinLength != nil {
		c.MinLength = src.MinLength
	}
	if src.MaxLength != nil {
		c.MaxLength = src.MaxLength
	}
	return c
}

// InputConstraints maps a dotted field path ("address.city") to its
// constraint. Array items share the path of their array; a scalar root uses
// the empty path.
type InputConstraints map[string]InputConstraint

// Constraints derives input constraints for every field of s.
func Constraints(s *Schema) (InputConstraints, error) {
	s = expandRefs(s)
	info, err := newSchemaInfo(s, false, nil)
	if err != nil {
		return nil, err
	}
	out := InputConstraints{}
	if _, err := collectConstraints(info, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// collectConstraints writes the constraints of info and its descendants into
// out. It reports whether the node produced structural output (union,
// array items or properties); only nodes without it get a leaf constraint.
func collectConstraints(info *schemaInfo, path []string, out InputConstraints) (bool, error) {
	key := strings.Join(path, ".")
	produced := false

	if len(info.union) > 0 {
		relaxed := info.nullable || info.optional
		for _, u := range info.union {
			ui, err := newSchemaInfo(u, info.optional, path)
			if err != nil {
				return false, err
			}
			if ui.nullable || ui.optional {
				relaxed = true
			}
			ok, err := collectConstraints(ui, path, out)
			if err != nil {
				return false, err
			}
			produced = produced || ok
		}
		if produced && relaxed {
			if c, ok := out[key]; ok {
				c.Required = false
				if c.IsZero() {
					delete(out, key)
				} else {
					out[key] = c
				}
			}
		}
	}

	for _, item := range info.array {
		ii, err := newSchemaInfo(item, info.optional, path)
		if err != nil {
			return false, err
		}
		ok, err := collectConstraints(ii, path, out)
		if err != nil {
			return false, err
		}
		produced = produced || ok
	}

	if info.properties != nil {
		produced = true
		for name, prop := range info.properties {
			propPath := childPath(path, name)
			optional := !info.schema.IsRequired(name) || prop.HasDefault()
			pi, err := newSchemaInfo(prop, optional, propPath)
			if err != nil {
				return false, err
			}
			if _, err := collectConstraints(pi, propPath, out); err != nil {
				return false, err
			}
		}
	}

	if produced {
		return true, nil
	}
	c, ok := leafConstraint(info)
	if !ok {
		return false, nil
	}
	out[key] = out[key].merge(c)
	return true, nil
}

func leafConstraint(info *schemaInfo) (InputConstraint, bool) {
	var c InputConstraint
	s := info.schema

	switch {
	case info.hasType(TypeUnixTime):
		if s.Minimum != nil {
			c.Min = isoMillis(*s.Minimum)
		}
		if s.Maximum != nil {
			c.Max = isoMillis(*s.Maximum)
		}
	case info.hasType("string"):
		if len(info.patterns) > 0 {
			c.Pattern = info.patterns[0]
		}
		if s.MinLength != nil && *s.MinLength > 0 {
			c.MinLength = s.MinLength
		}
		if s.MaxLength != nil && *s.MaxLength > 0 {
			c.MaxLength = s.MaxLength
		}
	case info.hasType("number") || info.hasType("integer"):
		integer := info.hasType("integer")
		switch {
		case s.Minimum != nil:
			c.Min = *s.Minimum
		case s.ExclusiveMinimum != nil:
			c.Min = *s.ExclusiveMinimum + epsilon(integer)
		}
		switch {
		case s.Maximum != nil:
			c.Max = *s.Maximum
		case s.ExclusiveMaximum != nil:
			c.Max = *s.ExclusiveMaximum - epsilon(integer)
		}
		if s.MultipleOf != nil {
			c.Step = s.MultipleOf
		}
	case info.hasType("array"):
		if s.MinItems != nil {
			c.Min = *s.MinItems
		}
		if s.MaxItems != nil {
			c.Max = *s.MaxItems
		}
	}

	if !info.nullable && !info.optional {
		c.Required = true
	}
	return c, !c.IsZero()
}

func epsilon(integer bool) float64 {
	if integer {
		return 1
	}
	return math.SmallestNonzeroFloat64
}

func isoMillis(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format("2006-01-02T15:04:05.000Z")
}
