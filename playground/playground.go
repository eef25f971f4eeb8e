// Package playground adapts github.com/go-playground/validator struct
// validation. The JSON Schema is reflected from the struct with
// github.com/invopop/jsonschema and completed from its validate tags.
package playground

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	invopop "github.com/invopop/jsonschema"

	formadapt "github.com/reoring/formadapt"
	js "github.com/reoring/formadapt/jsonschema"
)

// ErrNotStruct is returned when the adapter type is not a struct.
var ErrNotStruct = errors.New("playground: adapter type must be a struct")

// Adapter builds an adapter for struct type T.
func Adapter[T any](opts ...formadapt.Option[T]) (*formadapt.Adapter[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, typ)
	}
	schema, err := Schema(typ)
	if err != nil {
		return nil, err
	}
	v := New()
	a := &formadapt.Adapter[T]{
		Library:         formadapt.LibraryPlayground,
		Validator:       v,
		JSONSchema:      schema,
		CustomValidator: customValidator[T](v),
	}
	return a.Apply(opts...), nil
}

// New returns a validator reporting JSON field names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		key := fieldKey(sf)
		if key == "-" {
			return ""
		}
		return key
	})
	return v
}

// Schema reflects the JSON Schema of struct type typ.
func Schema(typ reflect.Type) (*js.Schema, error) {
	r := &invopop.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s, err := js.FromValue(r.ReflectFromType(typ))
	if err != nil {
		return nil, fmt.Errorf("playground: reflecting %s: %w", typ, err)
	}
	applyValidateTags(s, typ)
	return s, nil
}

// fieldKey resolves the external key of a struct field: json tag name, then
// field name; "-" disables the field.
func fieldKey(sf reflect.StructField) string {
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

func customValidator[T any](v *validator.Validate) formadapt.CustomValidator[T] {
	return func(ctx context.Context, data any) (formadapt.ValidationResult[T], error) {
		var res formadapt.ValidationResult[T]
		val, err := decode[T](data)
		if err != nil {
			res.Issues = formadapt.Issues{{Path: "/", Code: formadapt.CodeParseError, Message: err.Error()}}
			return res, nil
		}
		if err := v.StructCtx(ctx, &val); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return res, err
			}
			res.Issues = toIssues(verrs)
			return res, nil
		}
		res.Success = true
		res.Data = val
		return res, nil
	}
}

func decode[T any](data any) (T, error) {
	switch t := data.(type) {
	case T:
		return t, nil
	case *T:
		if t != nil {
			return *t, nil
		}
	}
	var out T
	var raw []byte
	switch t := data.(type) {
	case []byte:
		raw = t
	case json.RawMessage:
		raw = t
	default:
		b, err := json.Marshal(data)
		if err != nil {
			return out, err
		}
		raw = b
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func toIssues(verrs validator.ValidationErrors) formadapt.Issues {
	out := make(formadapt.Issues, 0, len(verrs))
	for _, fe := range verrs {
		iss := formadapt.Issue{
			Path:    namespacePointer(fe.Namespace()),
			Code:    issueCode(fe),
			Message: fe.Error(),
		}
		if p := fe.Param(); p != "" {
			iss.Params = map[string]any{fe.Tag(): p}
		}
		out = append(out, iss)
	}
	return out
}

// namespacePointer turns "User.items[2].price" into "/items/2/price".
func namespacePointer(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	} else {
		return "/"
	}
	var b strings.Builder
	for _, seg := range strings.Split(ns, ".") {
		for {
			open := strings.IndexByte(seg, '[')
			if open < 0 {
				break
			}
			end := strings.IndexByte(seg[open:], ']')
			if end < 0 {
				break
			}
			if open > 0 {
				b.WriteString("/" + seg[:open])
			}
			b.WriteString("/" + seg[open+1:open+end])
			seg = seg[open+end+1:]
		}
		if seg != "" {
			b.WriteString("/" + seg)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func issueCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return formadapt.CodeRequired
	case "min", "gte", "gt":
		if isLengthKind(fe.Kind()) {
			return formadapt.CodeTooShort
		}
		return formadapt.CodeTooSmall
	case "max", "lte", "lt":
		if isLengthKind(fe.Kind()) {
			return formadapt.CodeTooLong
		}
		return formadapt.CodeTooBig
	case "len":
		return formadapt.CodeTooShort
	case "oneof":
		return formadapt.CodeInvalidEnum
	case "email", "url", "uri", "uuid", "datetime":
		return formadapt.CodeInvalidFormat
	default:
		return formadapt.CodeCustom
	}
}

func isLengthKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
