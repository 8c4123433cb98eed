package introspect

import (
	"fmt"
	"reflect"
)

// ObjectFactory is the instantiation collaborator used by data-binding code
// to create bare instances of resolved types.
type ObjectFactory interface {
	// Create builds a new instance of t through its default construction
	// path. For struct and scalar kinds the result is a pointer to a fresh
	// zero value; collection kinds yield an empty, ready-to-use value.
	Create(t reflect.Type) (any, error)

	// IsCollection reports whether instances of t hold a group of other
	// values.
	IsCollection(t reflect.Type) bool
}

// DefaultObjectFactory creates instances through the registry's resolved
// default constructors, special-casing collection kinds that need make
// semantics rather than zero values.
type DefaultObjectFactory struct {
	registry *Registry
}

// NewObjectFactory creates an object factory over the given registry.
func NewObjectFactory(r *Registry) *DefaultObjectFactory {
	return &DefaultObjectFactory{registry: r}
}

func (f *DefaultObjectFactory) Create(t reflect.Type) (any, error) {
	t = baseType(t)
	if t == nil {
		return nil, fmt.Errorf("cannot instantiate nil type")
	}
	switch t.Kind() {
	case reflect.Map:
		return reflect.MakeMap(t).Interface(), nil
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface(), nil
	}
	tm, err := f.registry.MetadataFor(t)
	if err != nil {
		return nil, err
	}
	ctor, err := tm.DefaultConstructor()
	if err != nil {
		return nil, err
	}
	return ctor(), nil
}

func (f *DefaultObjectFactory) IsCollection(t reflect.Type) bool {
	t = baseType(t)
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
