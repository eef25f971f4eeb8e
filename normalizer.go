package formadapt

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	js "github.com/reoring/formadapt/jsonschema"
)

// Derivers are the JSON Schema analyzers used to enrich adapters.
type Derivers struct {
	Constraints func(*js.Schema) (js.InputConstraints, error)
	Defaults    func(*js.Schema) (any, error)
	Shape       func(*js.Schema) (js.ObjectShape, error)
}

// DefaultDerivers returns the analyzers of the jsonschema package.
func DefaultDerivers() Derivers {
	return Derivers{
		Constraints: js.Constraints,
		Defaults:    js.DefaultValues,
		Shape:       js.ObjectShapeOf,
	}
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithDerivers replaces the analyzers; nil fields keep the defaults.
func WithDerivers(d Derivers) NormalizerOption {
	return func(n *Normalizer) {
		if d.Constraints != nil {
			n.derive.Constraints = d.Constraints
		}
		if d.Defaults != nil {
			n.derive.Defaults = d.Defaults
		}
		if d.Shape != nil {
			n.derive.Shape = d.Shape
		}
	}
}

// Normalizer maps adapters and memoizes the result per adapter identity.
// Entries are keyed by weak pointers and dropped once their adapter is
// garbage collected, so the cache never keeps an adapter alive.
type Normalizer struct {
	derive Derivers

	mu      sync.Mutex
	entries map[any]any // weak.Pointer[Adapter[T]] -> *Mapped[T]
	flight  singleflight.Group
}

// NewNormalizer returns an empty Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{derive: DefaultDerivers(), entries: make(map[any]any)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Len reports the number of cached adapters.
func (n *Normalizer) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

var defaultNormalizer = NewNormalizer()

// MapAdapter returns the enriched form of a using the process-wide cache.
// Repeated calls with the same adapter return the same *Mapped.
func MapAdapter[T any](a *Adapter[T]) (*Mapped[T], error) {
	return Map(defaultNormalizer, a)
}

// Map returns the enriched form of a, deriving it on first use. Errors of the
// analyzers are returned unchanged and nothing is cached for them.
func Map[T any](n *Normalizer, a *Adapter[T]) (*Mapped[T], error) {
	if a == nil {
		return nil, ErrNilAdapter
	}
	key := weak.Make(a)
	if m, ok := lookup[T](n, key); ok {
		return m, nil
	}
	// the adapter is alive for the whole call, so its address is a unique
	// flight key
	v, err, _ := n.flight.Do(fmt.Sprintf("%p", a), func() (any, error) {
		if m, ok := lookup[T](n, key); ok {
			return m, nil
		}
		m, err := enrich(n.derive, a)
		if err != nil {
			return nil, err
		}
		return store(n, a, key, m), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Mapped[T]), nil
}

func lookup[T any](n *Normalizer, key weak.Pointer[Adapter[T]]) (*Mapped[T], bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.entries[key]
	if !ok {
		return nil, false
	}
	return v.(*Mapped[T]), true
}

// store inserts m unless an entry already exists, returning the cached one.
func store[T any](n *Normalizer, a *Adapter[T], key weak.Pointer[Adapter[T]], m *Mapped[T]) *Mapped[T] {
	n.mu.Lock()
	defer n.mu.Unlock()
	if v, ok := n.entries[key]; ok {
		return v.(*Mapped[T])
	}
	n.entries[key] = m
	runtime.AddCleanup(a, n.evict, any(key))
	return m
}

func (n *Normalizer) evict(key any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, key)
}

// enrich builds the Mapped form of a. Pre-supplied defaults and constraints
// are reused as-is; the object shape is always derived.
func enrich[T any](d Derivers, a *Adapter[T]) (*Mapped[T], error) {
	constraints := a.Constraints
	if constraints == nil {
		c, err := d.Constraints(a.JSONSchema)
		if err != nil {
			return nil, err
		}
		constraints = c
	}

	defaults := a.Defaults
	if defaults == nil {
		raw, err := d.Defaults(a.JSONSchema)
		if err != nil {
			return nil, err
		}
		defaults, err = convertDefaults[T](raw)
		if err != nil {
			return nil, err
		}
	}

	objects, err := d.Shape(a.JSONSchema)
	if err != nil {
		return nil, err
	}

	m := &Mapped[T]{Adapter: *a, Objects: objects}
	m.Constraints = constraints
	m.Defaults = defaults
	return m, nil
}

// convertDefaults turns the analyzer output into T, going through JSON when
// the types differ.
func convertDefaults[T any](raw any) (*T, error) {
	if v, ok := raw.(T); ok {
		return &v, nil
	}
	out := new(T)
	if raw == nil {
		return out, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("formadapt: encoding defaults: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("formadapt: converting defaults to %T: %w", *out, err)
	}
	return out, nil
}
