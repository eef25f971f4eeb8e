package jsonschema

import "strings"

// expandRefs returns root with local $refs ("#/$defs/x", "#/definitions/x")
// expanded. Schemas without references are returned as-is; otherwise the
// result is a copy and root is left untouched. Cyclic and non-local
// references stay unexpanded.
func expandRefs(root *Schema) *Schema {
	if root == nil || !containsRef(root, make(map[*Schema]bool)) {
		return root
	}
	defs := make(map[string]*Schema, len(root.Defs)+len(root.Definitions))
	for k, v := range root.Definitions {
		defs["#/definitions/"+k] = v
	}
	for k, v := range root.Defs {
		defs["#/$defs/"+k] = v
	}
	return expandNode(root, defs, make(map[string]bool))
}

func containsRef(s *Schema, seen map[*Schema]bool) bool {
	if s == nil || seen[s] {
		return false
	}
	seen[s] = true
	if s.Ref != "" {
		return true
	}
	for _, child := range children(s) {
		if containsRef(child, seen) {
			return true
		}
	}
	return false
}

func children(s *Schema) []*Schema {
	out := make([]*Schema, 0, len(s.Properties)+len(s.PrefixItems)+len(s.AllOf)+len(s.AnyOf)+len(s.OneOf)+1)
	for _, p := range s.Properties {
		out = append(out, p)
	}
	if s.Items != nil {
		out = append(out, s.Items)
	}
	out = append(out, s.PrefixItems...)
	out = append(out, s.AllOf...)
	out = append(out, s.AnyOf...)
	out = append(out, s.OneOf...)
	return out
}

func expandNode(s *Schema, defs map[string]*Schema, visiting map[string]bool) *Schema {
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		ref := strings.TrimSpace(s.Ref)
		base, ok := defs[ref]
		if !ok || visiting[ref] {
			return s
		}
		visiting[ref] = true
		resolved := expandNode(base, defs, visiting)
		delete(visiting, ref)

		out := *resolved
		// explicit annotations next to $ref win over the referenced node
		if s.Title != "" {
			out.Title = s.Title
		}
		if s.Description != "" {
			out.Description = s.Description
		}
		if s.HasDefault() {
			out.SetDefault(s.Default)
		}
		return &out
	}

	out := *s
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, p := range s.Properties {
			out.Properties[k] = expandNode(p, defs, visiting)
		}
	}
	out.Items = expandNode(s.Items, defs, visiting)
	out.PrefixItems = expandList(s.PrefixItems, defs, visiting)
	out.AllOf = expandList(s.AllOf, defs, visiting)
	out.AnyOf = expandList(s.AnyOf, defs, visiting)
	out.OneOf = expandList(s.OneOf, defs, visiting)
	return &out
}

func expandList(list []*Schema, defs map[string]*Schema, visiting map[string]bool) []*Schema {
	if list == nil {
		return nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		out[i] = expandNode(s, defs, visiting)
	}
	return out
}
