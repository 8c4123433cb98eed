package introspect

import "errors"

// Common introspection error types
var (
	// ErrInvalidAccessorName is returned when a method name does not follow
	// the Is/Get/Set accessor naming convention
	ErrInvalidAccessorName = errors.New("method name is not a recognized accessor")

	// ErrNoGetter is returned when a property has no readable accessor
	ErrNoGetter = errors.New("no getter for property")

	// ErrNoSetter is returned when a property has no writable accessor
	ErrNoSetter = errors.New("no setter for property")

	// ErrAmbiguousProperty is returned when invoking an accessor whose
	// conflict resolution found two or more incompatible candidates
	ErrAmbiguousProperty = errors.New("ambiguous property")

	// ErrNoDefaultConstructor is returned when a type has no zero-argument
	// construction path
	ErrNoDefaultConstructor = errors.New("no default constructor")

	// ErrNotReadable is returned when Get is called on a write-only accessor
	ErrNotReadable = errors.New("accessor is not readable")

	// ErrNotWritable is returned when Set is called on a read-only accessor
	ErrNotWritable = errors.New("accessor is not writable")

	// ErrNilTarget is returned when an accessor is invoked on a nil target
	ErrNilTarget = errors.New("nil target")
)
