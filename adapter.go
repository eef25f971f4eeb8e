package formadapt

import (
	"context"

	js "github.com/reoring/formadapt/jsonschema"
)

// Library identifies the validation library an Adapter was built from.
type Library string

const (
	LibraryPlayground Library = "go-playground" // github.com/go-playground/validator
	LibraryKaptinlin  Library = "kaptinlin"     // github.com/kaptinlin/jsonschema
	LibrarySanthosh   Library = "santhosh"      // github.com/santhosh-tekuri/jsonschema
	LibraryUnknown    Library = "unknown"
)

// Libraries lists the libraries with a dedicated integration.
var Libraries = []Library{LibraryPlayground, LibraryKaptinlin, LibrarySanthosh}

// Known reports whether l has a dedicated integration.
func (l Library) Known() bool {
	for _, k := range Libraries {
		if l == k {
			return true
		}
	}
	return false
}

// ValidationResult is the outcome of validating one input.
type ValidationResult[T any] struct {
	Success bool
	Data    T
	Issues  Issues
}

// CustomValidator validates raw input in place of the library's own entry
// point. The returned error is reserved for failures to run validation at
// all; rejected input is reported through ValidationResult.Issues.
//
// A CustomValidator must not capture the *Adapter it is attached to, or the
// adapter will never be released from the normalization cache.
type CustomValidator[T any] func(ctx context.Context, data any) (ValidationResult[T], error)

// Adapter describes one schema of one validation library in the shape the
// form layer consumes. Adapters are compared by identity: two adapters with
// equal fields are still mapped independently.
type Adapter[T any] struct {
	Library Library
	// Validator is the library-specific handle; it is opaque to this package.
	Validator any
	// JSONSchema describes the validated output and is required.
	JSONSchema      *js.Schema
	CustomValidator CustomValidator[T]
	// Defaults and Constraints are derived from JSONSchema when nil.
	Defaults    *T
	Constraints js.InputConstraints
}

// Mapped is an Adapter with every derived field populated.
type Mapped[T any] struct {
	Adapter[T]
	Objects js.ObjectShape
}

// Option configures an Adapter at construction time.
type Option[T any] func(*Adapter[T])

// WithDefaults supplies defaults instead of deriving them from the schema.
func WithDefaults[T any](v *T) Option[T] {
	return func(a *Adapter[T]) { a.Defaults = v }
}

// WithConstraints supplies constraints instead of deriving them from the
// schema.
func WithConstraints[T any](c js.InputConstraints) Option[T] {
	return func(a *Adapter[T]) { a.Constraints = c }
}

// WithCustomValidator attaches a custom validation function.
func WithCustomValidator[T any](fn CustomValidator[T]) Option[T] {
	return func(a *Adapter[T]) { a.CustomValidator = fn }
}

// Apply runs opts against a.
func (a *Adapter[T]) Apply(opts ...Option[T]) *Adapter[T] {
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Unknown builds an adapter for a validation library without a dedicated
// integration.
func Unknown[T any](validator any, schema *js.Schema, opts ...Option[T]) *Adapter[T] {
	a := &Adapter[T]{Library: LibraryUnknown, Validator: validator, JSONSchema: schema}
	return a.Apply(opts...)
}
