package factory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// Exported error categories returned by this package, usable with
// errors.Is.
//   - ErrTypeNotFound: the requested type name has no registered builder.
//   - ErrNilBuilder: Register was called with a nil builder function.
//   - ErrDuplicateType: the type name is already registered.
var (
	ErrTypeNotFound  = errors.New("type not found")
	ErrNilBuilder    = errors.New("nil builder")
	ErrDuplicateType = errors.New("type already registered")
)

// Param describes one constructor parameter: its name and, when HasDefault
// is set, the value used when the argument map does not supply one.
// HasDefault marks Default as usable even when Default itself is nil.
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Required returns a Param without a default value.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional returns a Param carrying a declared default value.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Builder constructs a value of type T from the positional argument list
// resolved by Build.
type Builder[T any] func(args []any) (T, error)

type entry[T any] struct {
	params  []Param
	builder Builder[T]
}

// Registry stores builders and their parameter tables keyed by type name.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]entry[T])}
}

// Register adds a builder for the given type name together with its ordered
// parameter table. A nil or empty table describes a constructor without
// parameters.
func (r *Registry[T]) Register(name string, params []Param, b Builder[T]) error {
	if b == nil {
		return fmt.Errorf("%w: %s", ErrNilBuilder, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.entries[name] = entry[T]{params: params, builder: b}
	return nil
}

// Build instantiates the named type from a map of named arguments.
// Parameters are filled in declaration order: the value from args under the
// parameter's name, else the declared default. Filling stops at the first
// parameter that has neither, and later parameters are never filled even
// when args contains them; this mirrors fixed-arity positional
// construction. Errors returned by the builder propagate unchanged.
func (r *Registry[T]) Build(name string, args map[string]any) (T, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}

	positional := make([]any, 0, len(e.params))
	for _, p := range e.params {
		if v, supplied := args[p.Name]; supplied {
			positional = append(positional, v)
			continue
		}
		if p.HasDefault {
			positional = append(positional, p.Default)
			continue
		}
		break
	}
	return e.builder(positional)
}

// Decode fills out the provided struct from an argument map using json
// tags. Builders whose type takes a single settings struct can use it to
// convert a map argument.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}
