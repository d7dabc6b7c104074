package resource

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/meshstack/meshstack/suggest"
)

// A Registry maps type names, such as aws_ecs_cluster, to the definition
// structs that declare them. The zero value is an empty registry, safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// A NotSupportedError is returned for type names that are not registered.
// Suggestion holds a close registered name, if there is one.
type NotSupportedError struct {
	Type       string
	Suggestion string
}

func (e NotSupportedError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("resource type %q not supported", e.Type)
	}
	return fmt.Sprintf("resource type %q not supported, did you mean %q?", e.Type, e.Suggestion)
}

// Register adds the type of def under def.Type(). Registering the same
// struct twice is a no-op.
//
// Panics if def is not a pointer to a struct, or if the name is already
// taken by another struct.
func (r *Registry) Register(def Definition) {
	t := reflect.TypeOf(def)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("register %T: definition must be a pointer to a struct", def))
	}
	name := def.Type()

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.types[name]; ok && prev != t.Elem() {
		panic(fmt.Sprintf("register %T: %s already registered by %s", def, name, prev))
	}
	if r.types == nil {
		r.types = map[string]reflect.Type{}
	}
	r.types[name] = t.Elem()
}

// Type returns the struct type registered as typename, or nil.
func (r *Registry) Type(typename string) reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[typename]
}

// New returns a pointer to a new zero definition of typename.
func (r *Registry) New(typename string) (Definition, error) {
	t := r.Type(typename)
	if t == nil {
		return nil, NotSupportedError{Type: typename, Suggestion: r.SuggestType(typename)}
	}
	return reflect.New(t).Interface().(Definition), nil
}

// Typenames returns the registered type names in lexical order.
func (r *Registry) Typenames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// SuggestType returns the registered name closest to typename, or an empty
// string if none is close.
func (r *Registry) SuggestType(typename string) string {
	return suggest.String(typename, r.Typenames())
}
