package jsonschema

// Pseudo types derived from format, understood by the analyzers in addition
// to the JSON Schema type names.
const (
	TypeUnixTime = "unix-time"
	TypeBigInt   = "bigint"
	TypeAny      = "any"
)

var conversionFormats = map[string]bool{
	TypeUnixTime: true,
	TypeBigInt:   true,
	TypeAny:      true,
}

// schemaInfo is the normalized view of one schema node shared by the
// analyzers.
type schemaInfo struct {
	schema     *Schema  // effective node, allOf merged in
	types      []string // without "null"
	optional   bool
	nullable   bool
	patterns   []string
	union      []*Schema
	array      []*Schema
	properties map[string]*Schema
}

func newSchemaInfo(s *Schema, optional bool, path []string) (*schemaInfo, error) {
	if s == nil {
		return nil, schemaErrorf(path, "schema was undefined")
	}
	if _, ok := s.IsBool(); ok {
		return nil, schemaErrorf(path, "schema cannot be defined as boolean")
	}

	eff, patterns := s, []string(nil)
	if s.Pattern != "" {
		patterns = []string{s.Pattern}
	}
	if len(s.AllOf) > 0 {
		eff, patterns = mergeAllOf(s)
	}

	types := schemaTypes(eff)
	info := &schemaInfo{
		schema:   eff,
		optional: optional,
		patterns: patterns,
	}
	for _, t := range types {
		if t == "null" {
			info.nullable = true
			continue
		}
		info.types = append(info.types, t)
	}
	if len(info.types) == 0 {
		info.types = []string{inferType(eff)}
	}

	for _, u := range unionOf(eff) {
		if _, isBool := u.IsBool(); isBool || u == nil {
			continue
		}
		if (len(u.Type) == 1 && u.Type[0] == "null") || (u.HasConst() && u.Const == nil) {
			continue
		}
		info.union = append(info.union, u)
	}

	if info.hasType("array") {
		for _, it := range eff.PrefixItems {
			if _, isBool := it.IsBool(); !isBool && it != nil {
				info.array = append(info.array, it)
			}
		}
		if it := eff.Items; it != nil {
			if _, isBool := it.IsBool(); !isBool {
				info.array = append(info.array, it)
			}
		}
	}

	if info.hasType("object") && eff.Properties != nil {
		info.properties = make(map[string]*Schema, len(eff.Properties))
		for k, p := range eff.Properties {
			if _, isBool := p.IsBool(); isBool || p == nil {
				continue
			}
			info.properties[k] = p
		}
	}
	return info, nil
}

func (i *schemaInfo) hasType(name string) bool {
	for _, t := range i.types {
		if t == name {
			return true
		}
	}
	return false
}

// isMultiTypeUnion reports a union whose branches disagree on their basic
// type (integer and unix-time count as number) or contain enums.
func (i *schemaInfo) isMultiTypeUnion() bool {
	if len(i.union) < 2 {
		return false
	}
	for _, u := range i.union {
		if len(u.Enum) > 0 {
			return true
		}
	}
	kinds := make(map[string]bool, len(i.types))
	for _, t := range i.types {
		if t == "integer" || t == TypeUnixTime {
			t = "number"
		}
		kinds[t] = true
	}
	return len(kinds) > 1
}

// schemaTypes lists the types a node may take, including "null" and the
// format pseudo types, without duplicates.
func schemaTypes(s *Schema) []string {
	var types []string
	if s.HasConst() && s.Const == nil {
		types = []string{"null"}
	}
	if len(s.Type) > 0 {
		types = append([]string(nil), s.Type...)
	}
	if u := unionOf(s); len(u) > 0 {
		types = nil
		for _, branch := range u {
			if _, isBool := branch.IsBool(); isBool || branch == nil {
				continue
			}
			types = append(types, schemaTypes(branch)...)
		}
	}
	if s.Format != "" && conversionFormats[s.Format] {
		types = append([]string{s.Format}, types...)
		if s.Format == TypeUnixTime {
			types = removeType(types, "integer")
		}
	}
	if s.HasConst() && s.Const != nil {
		if t := jsonTypeOf(s.Const); t != "" {
			types = append(types, t)
		}
	}
	return dedupe(types)
}

func unionOf(s *Schema) []*Schema {
	if len(s.AnyOf) > 0 {
		return s.AnyOf
	}
	return s.OneOf
}

func inferType(s *Schema) string {
	switch {
	case s.Properties != nil:
		return "object"
	case s.Items != nil || len(s.PrefixItems) > 0:
		return "array"
	default:
		return TypeAny
	}
}

func jsonTypeOf(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint, uint64, uint32:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return ""
	}
}

func removeType(types []string, name string) []string {
	out := types[:0]
	for _, t := range types {
		if t != name {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(types []string) []string {
	seen := make(map[string]bool, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// mergeAllOf folds the allOf branches of s into a single node. Later
// branches win for scalar keywords, properties are merged by key, required
// lists are joined and every pattern is collected.
func mergeAllOf(s *Schema) (*Schema, []string) {
	out := *s
	out.AllOf = nil
	var patterns []string
	if s.Pattern != "" {
		patterns = append(patterns, s.Pattern)
	}
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v
		}
	}
	out.Required = append([]string(nil), s.Required...)

	for _, branch := range s.AllOf {
		if branch == nil {
			continue
		}
		if _, isBool := branch.IsBool(); isBool {
			continue
		}
		b, branchPatterns := branch, []string(nil)
		if len(branch.AllOf) > 0 {
			b, branchPatterns = mergeAllOf(branch)
		} else if branch.Pattern != "" {
			branchPatterns = []string{branch.Pattern}
		}
		patterns = append(patterns, branchPatterns...)
		overlay(&out, b)
	}
	if len(patterns) > 0 {
		out.Pattern = patterns[0]
	}
	return &out, patterns
}

func overlay(dst, src *Schema) {
	if len(src.Type) > 0 {
		dst.Type = src.Type
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.HasDefault() {
		dst.SetDefault(src.Default)
	}
	if src.HasConst() {
		dst.SetConst(src.Const)
	}
	if len(src.Enum) > 0 {
		dst.Enum = src.Enum
	}
	if len(src.Properties) > 0 {
		if dst.Properties == nil {
			dst.Properties = make(map[string]*Schema, len(src.Properties))
		}
		for k, v := range src.Properties {
			dst.Properties[k] = v
		}
	}
	for _, r := range src.Required {
		if !dst.IsRequired(r) {
			dst.Required = append(dst.Required, r)
		}
	}
	if src.Items != nil {
		dst.Items = src.Items
	}
	if len(src.PrefixItems) > 0 {
		dst.PrefixItems = src.PrefixItems
	}
	if len(src.AnyOf) > 0 {
		dst.AnyOf = src.AnyOf
	}
	if len(src.OneOf) > 0 {
		dst.OneOf = src.OneOf
	}
	mergeInt(&dst.MinItems, src.MinItems)
	mergeInt(&dst.MaxItems, src.MaxItems)
	mergeInt(&dst.MinLength, src.MinLength)
	mergeInt(&dst.MaxLength, src.MaxLength)
	mergeFloat(&dst.Minimum, src.Minimum)
	mergeFloat(&dst.Maximum, src.Maximum)
	mergeFloat(&dst.ExclusiveMinimum, src.ExclusiveMinimum)
	mergeFloat(&dst.ExclusiveMaximum, src.ExclusiveMaximum)
	mergeFloat(&dst.MultipleOf, src.MultipleOf)
	if src.UniqueItems {
		dst.UniqueItems = true
	}
}

func mergeInt(dst **int, src *int) {
	if src != nil {
		*dst = src
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}
