// Package kaptinlin adapts schemas compiled by github.com/kaptinlin/jsonschema.
package kaptinlin

import (
	"context"
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	kjs "github.com/kaptinlin/jsonschema"

	formadapt "github.com/reoring/formadapt"
	js "github.com/reoring/formadapt/jsonschema"
)

// ErrNilSchema is returned when no schema is given.
var ErrNilSchema = errors.New("kaptinlin: nil schema")

// applicators only summarize failures of nested evaluations.
var applicators = map[string]bool{
	"properties":           true,
	"patternProperties":    true,
	"additionalProperties": true,
	"items":                true,
	"prefixItems":          true,
	"contains":             true,
	"allOf":                true,
	"anyOf":                true,
	"oneOf":                true,
	"not":                  true,
	"$ref":                 true,
	"$dynamicRef":          true,
	"dependentSchemas":     true,
	"if":                   true,
	"then":                 true,
	"else":                 true,
}

// Adapter compiles schema and builds an adapter validating against it.
func Adapter[T any](schema *js.Schema, opts ...formadapt.Option[T]) (*formadapt.Adapter[T], error) {
	compiled, err := Compile(schema)
	if err != nil {
		return nil, err
	}
	a := &formadapt.Adapter[T]{
		Library:         formadapt.LibraryKaptinlin,
		Validator:       compiled,
		JSONSchema:      schema,
		CustomValidator: customValidator[T](compiled),
	}
	return a.Apply(opts...), nil
}

// Compile compiles schema with a fresh compiler.
func Compile(schema *js.Schema) (*kjs.Schema, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("kaptinlin: marshal schema: %w", err)
	}
	compiled, err := kjs.NewCompiler().Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("kaptinlin: compile schema: %w", err)
	}
	return compiled, nil
}

func customValidator[T any](compiled *kjs.Schema) formadapt.CustomValidator[T] {
	return func(_ context.Context, data any) (formadapt.ValidationResult[T], error) {
		var res formadapt.ValidationResult[T]
		instance, err := toInstance(data)
		if err != nil {
			res.Issues = formadapt.Issues{{Path: "/", Code: formadapt.CodeParseError, Message: err.Error()}}
			return res, nil
		}
		result := compiled.Validate(instance)
		if !result.Valid {
			res.Issues = collectIssues(result, nil)
			if len(res.Issues) == 0 {
				res.Issues = formadapt.Issues{{Path: "/", Code: formadapt.CodeCustom, Message: "value does not match the schema"}}
			}
			return res, nil
		}
		out, err := convert[T](instance)
		if err != nil {
			res.Issues = formadapt.Issues{{Path: "/", Code: formadapt.CodeInvalidType, Message: err.Error()}}
			return res, nil
		}
		res.Success = true
		res.Data = out
		return res, nil
	}
}

// toInstance decodes JSON bytes or normalizes Go values to their JSON form.
func toInstance(data any) (any, error) {
	var raw []byte
	switch t := data.(type) {
	case []byte:
		raw = t
	case json.RawMessage:
		raw = t
	case string, float64, bool, nil, map[string]any, []any:
		return t, nil
	default:
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func convert[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}

// collectIssues flattens the evaluation tree, reporting applicator errors
// only when no nested result explains them.
func collectIssues(r *kjs.EvaluationResult, out formadapt.Issues) formadapt.Issues {
	if r == nil || r.Valid {
		return out
	}
	nested := false
	for _, d := range r.Details {
		if d != nil && !d.Valid {
			nested = true
			out = collectIssues(d, out)
		}
	}
	keywords := make([]string, 0, len(r.Errors))
	for kw := range r.Errors {
		if nested && applicators[kw] {
			continue
		}
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	path := r.InstanceLocation
	if path == "" {
		path = "/"
	}
	for _, kw := range keywords {
		out = append(out, formadapt.Issue{
			Path:    path,
			Code:    formadapt.KeywordCode(kw),
			Message: r.Errors[kw].Error(),
		})
	}
	return out
}
