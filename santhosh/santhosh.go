// Package santhosh adapts schemas compiled by
// github.com/santhosh-tekuri/jsonschema.
package santhosh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	sjs "github.com/santhosh-tekuri/jsonschema/v5"

	formadapt "github.com/reoring/formadapt"
	js "github.com/reoring/formadapt/jsonschema"
)

// ResourceURL is the in-memory location schemas are compiled under.
const ResourceURL = "mem:formadapt"

// ErrNilSchema is returned when no schema is given.
var ErrNilSchema = errors.New("santhosh: nil schema")

// Adapter compiles schema and builds an adapter validating against it.
func Adapter[T any](schema *js.Schema, opts ...formadapt.Option[T]) (*formadapt.Adapter[T], error) {
	compiled, err := Compile(schema)
	if err != nil {
		return nil, err
	}
	a := &formadapt.Adapter[T]{
		Library:         formadapt.LibrarySanthosh,
		Validator:       compiled,
		JSONSchema:      schema,
		CustomValidator: customValidator[T](compiled),
	}
	return a.Apply(opts...), nil
}

// Compile compiles schema under ResourceURL.
func Compile(schema *js.Schema) (*sjs.Schema, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("santhosh: marshal schema: %w", err)
	}
	compiled, err := sjs.CompileString(ResourceURL, string(raw))
	if err != nil {
		return nil, fmt.Errorf("santhosh: compile schema: %w", err)
	}
	return compiled, nil
}

func customValidator[T any](compiled *sjs.Schema) formadapt.CustomValidator[T] {
	return func(_ context.Context, data any) (formadapt.ValidationResult[T], error) {
		var res formadapt.ValidationResult[T]
		raw, err := toJSON(data)
		if err != nil {
			res.Issues = formadapt.Issues{{Path: "/", Code: formadapt.CodeParseError, Message: err.Error()}}
			return res, nil
		}
		instance, err := decodeInstance(raw)
		if err != nil {
			res.Issues = formadapt.Issues{{Path: "/", Code: formadapt.CodeParseError, Message: err.Error()}}
			return res, nil
		}
		if err := compiled.Validate(instance); err != nil {
			var verr *sjs.ValidationError
			if !errors.As(err, &verr) {
				return res, err
			}
			res.Issues = leafIssues(verr, nil)
			return res, nil
		}
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			res.Issues = formadapt.Issues{{Path: "/", Code: formadapt.CodeInvalidType, Message: err.Error()}}
			return res, nil
		}
		res.Success = true
		res.Data = out
		return res, nil
	}
}

func toJSON(data any) ([]byte, error) {
	switch t := data.(type) {
	case []byte:
		if !json.Valid(t) {
			return nil, errors.New("invalid JSON input")
		}
		return t, nil
	case json.RawMessage:
		return toJSON([]byte(t))
	default:
		return json.Marshal(data)
	}
}

// decodeInstance decodes raw keeping numbers as json.Number, as the
// validator expects.
func decodeInstance(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// namedSubschemas are keywords whose next location segment names a
// subschema rather than a keyword.
var namedSubschemas = map[string]bool{
	"properties":        true,
	"patternProperties": true,
	"dependentSchemas":  true,
	"$defs":             true,
	"definitions":       true,
}

// keywordOf returns the keyword that failed at a keyword location such as
// "/properties/age/minimum". It returns "" when the location ends at a
// subschema, as for a false schema under properties or a tuple index.
func keywordOf(loc string) string {
	segs := strings.Split(strings.TrimPrefix(loc, "/"), "/")
	last := ""
	for i := 0; i < len(segs); i++ {
		last = segs[i]
		if i+1 >= len(segs) {
			break
		}
		next := segs[i+1]
		if _, err := strconv.Atoi(next); namedSubschemas[last] || err == nil {
			// skip the subschema name or index
			i++
			last = ""
		}
	}
	return last
}

// leafIssues reports the causes at the bottom of the error tree.
func leafIssues(e *sjs.ValidationError, out formadapt.Issues) formadapt.Issues {
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			out = leafIssues(c, out)
		}
		return out
	}
	path := e.InstanceLocation
	if path == "" {
		path = "/"
	}
	code := formadapt.CodeCustom
	if kw := keywordOf(e.KeywordLocation); kw != "" {
		code = formadapt.KeywordCode(kw)
	}
	return append(out, formadapt.Issue{
		Path:    path,
		Code:    code,
		Message: e.Message,
	})
}
