package formadapt

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported by the adapter validators.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
	CodeCustom        = "custom"
)

// ErrNilAdapter is returned when a nil adapter is mapped.
var ErrNilAdapter = errors.New("formadapt: nil adapter")

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path" yaml:"path"` // JSON Pointer (for example: /items/2/price).
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	// Params carries structured parameters (e.g., {"min":1}) taken from the
	// underlying library when available.
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// KeywordCode maps a JSON Schema keyword to an issue code.
func KeywordCode(keyword string) string {
	switch keyword {
	case "type":
		return CodeInvalidType
	case "required", "dependentRequired":
		return CodeRequired
	case "minimum", "exclusiveMinimum", "minProperties":
		return CodeTooSmall
	case "maximum", "exclusiveMaximum", "maxProperties":
		return CodeTooBig
	case "minLength", "minItems":
		return CodeTooShort
	case "maxLength", "maxItems":
		return CodeTooLong
	case "pattern":
		return CodePattern
	case "enum", "const":
		return CodeInvalidEnum
	case "format":
		return CodeInvalidFormat
	default:
		return CodeCustom
	}
}
