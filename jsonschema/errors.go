package jsonschema

import (
	"fmt"
	"strings"
)

// SchemaError reports a schema the analyzers cannot derive from. Path is the
// property path of the offending node (empty for the root).
type SchemaError struct {
	Path []string
	Msg  string
}

func (e *SchemaError) Error() string {
	if len(e.Path) == 0 {
		return "jsonschema: " + e.Msg
	}
	return fmt.Sprintf("jsonschema: [%s] %s", strings.Join(e.Path, "."), e.Msg)
}

func schemaErrorf(path []string, format string, args ...any) error {
	return &SchemaError{Path: append([]string(nil), path...), Msg: fmt.Sprintf(format, args...)}
}

// childPath returns path+key without aliasing path's backing array.
func childPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}
