package introspect

import (
	"fmt"
	"reflect"
)

// Invoker reads or writes one property on one instance of the owning type.
// Invokers are created during metadata construction, are immutable, carry no
// instance state, and are safe to share across goroutines.
//
// Only one direction is meaningful per invoker: getters return ErrNotReadable
// from Set and setters return ErrNotWritable from Get. The ambiguous variant
// fails in both directions with its precomputed diagnostic.
type Invoker interface {
	// Get reads the property from target.
	Get(target any) (any, error)

	// Set writes value to the property on target. Writes require target to
	// be a pointer so the mutation is visible to the caller.
	Set(target any, value any) error

	// Type returns the declared property type for this direction.
	Type() reflect.Type

	// kind keeps the variant set closed: method-backed, field-backed and
	// ambiguous are the only shapes that occur.
	kind() accessorKind
}

type accessorKind string

const (
	kindMethod    accessorKind = "method"
	kindField     accessorKind = "field"
	kindAmbiguous accessorKind = "ambiguous"
)

// methodInvoker invokes a resolved accessor method bound to a target
// instance.
type methodInvoker struct {
	method Method
	setter bool
}

func (mi *methodInvoker) kind() accessorKind { return kindMethod }

func (mi *methodInvoker) Type() reflect.Type {
	if mi.setter {
		return normalizeType(mi.method.Params[0])
	}
	return normalizeType(mi.method.Results[0])
}

func (mi *methodInvoker) Get(target any) (any, error) {
	if mi.setter {
		return nil, fmt.Errorf("%w: %s is a setter", ErrNotReadable, mi.method.Name)
	}
	out, err := mi.invoke(target, nil, false)
	if err != nil {
		return nil, err
	}
	if len(out) > 1 {
		if err := trailingError(mi.method.Results, out); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

func (mi *methodInvoker) Set(target any, value any) error {
	if !mi.setter {
		return fmt.Errorf("%w: %s is a getter", ErrNotWritable, mi.method.Name)
	}
	val, err := coerceValue(value, mi.method.Params[0])
	if err != nil {
		return fmt.Errorf("%s: %w", mi.method.Name, err)
	}
	out, err := mi.invoke(target, []reflect.Value{val}, true)
	if err != nil {
		return err
	}
	return trailingError(mi.method.Results, out)
}

func (mi *methodInvoker) invoke(target any, args []reflect.Value, forWrite bool) ([]reflect.Value, error) {
	recv, err := mi.receiver(target, forWrite)
	if err != nil {
		return nil, err
	}
	var out []reflect.Value
	err = safeCall(func() error {
		if mi.method.Func.IsValid() {
			out = mi.method.Func.Call(append([]reflect.Value{recv}, args...))
			return nil
		}
		// Interface-declared method: dispatch dynamically through the
		// receiver value.
		fn := recv.MethodByName(mi.method.Name)
		if !fn.IsValid() && recv.CanAddr() {
			fn = recv.Addr().MethodByName(mi.method.Name)
		}
		if !fn.IsValid() {
			return fmt.Errorf("method %s not found on %s", mi.method.Name, recv.Type())
		}
		out = fn.Call(args)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// receiver resolves the value the accessor method is invoked on, navigating
// to the declaring embedded ancestor when necessary.
func (mi *methodInvoker) receiver(target any, forWrite bool) (reflect.Value, error) {
	base, err := targetValue(target, forWrite)
	if err != nil {
		return reflect.Value{}, err
	}
	if len(mi.method.Path) > 0 {
		base, err = fieldByIndex(base, mi.method.Path, forWrite)
		if err != nil {
			return reflect.Value{}, err
		}
		base = bypassVisibility(base)
	}
	if !mi.method.Func.IsValid() {
		return base, nil
	}
	want := mi.method.Func.Type().In(0)
	switch {
	case base.Type() == want:
		if base.Kind() == reflect.Pointer && base.IsNil() {
			return reflect.Value{}, ErrNilTarget
		}
		return base, nil
	case want.Kind() == reflect.Pointer && base.Type() == want.Elem():
		if base.CanAddr() {
			return base.Addr(), nil
		}
		if forWrite {
			return reflect.Value{}, fmt.Errorf("target of type %s must be a pointer to be written through", base.Type())
		}
		return addressableCopy(base).Addr(), nil
	case base.Kind() == reflect.Pointer && base.Type().Elem() == want:
		if base.IsNil() {
			return reflect.Value{}, ErrNilTarget
		}
		return base.Elem(), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot invoke %s on %s", mi.method.Name, base.Type())
}

// trailingError surfaces a non-nil error returned as the accessor's last
// result.
func trailingError(results []reflect.Type, out []reflect.Value) error {
	n := len(out)
	if n == 0 || n > len(results) || !isErrorResult(results[n-1]) {
		return nil
	}
	if out[n-1].IsNil() {
		return nil
	}
	return out[n-1].Interface().(error)
}

// fieldInvoker reads or writes a struct field directly, bypassing any
// accessor logic the type defines and, for unexported fields, visibility
// rules. It mirrors the type's raw field, not its encapsulated behavior.
type fieldInvoker struct {
	field  Field
	setter bool
}

func (fi *fieldInvoker) kind() accessorKind { return kindField }

func (fi *fieldInvoker) Type() reflect.Type { return normalizeType(fi.field.Type) }

func (fi *fieldInvoker) Get(target any) (any, error) {
	if fi.setter {
		return nil, fmt.Errorf("%w: field %s accessor is write-only", ErrNotReadable, fi.field.Name)
	}
	base, err := targetValue(target, false)
	if err != nil {
		return nil, err
	}
	f, err := fieldByIndex(base, fi.field.Index, false)
	if err != nil {
		return nil, err
	}
	return bypassVisibility(f).Interface(), nil
}

func (fi *fieldInvoker) Set(target any, value any) error {
	if !fi.setter {
		return fmt.Errorf("%w: field %s accessor is read-only", ErrNotWritable, fi.field.Name)
	}
	base, err := targetValue(target, true)
	if err != nil {
		return err
	}
	f, err := fieldByIndex(base, fi.field.Index, true)
	if err != nil {
		return err
	}
	f = bypassVisibility(f)
	val, err := coerceValue(value, f.Type())
	if err != nil {
		return fmt.Errorf("field %s: %w", fi.field.Name, err)
	}
	return safeCall(func() error {
		f.Set(val)
		return nil
	})
}

// ambiguousInvoker is the sentinel for a property whose conflict resolution
// found incompatible candidates. It carries the diagnostic computed at build
// time and fails on any invocation, so a type with one ambiguous property
// stays otherwise usable.
type ambiguousInvoker struct {
	typ     reflect.Type
	message string
}

func (ai *ambiguousInvoker) kind() accessorKind { return kindAmbiguous }

func (ai *ambiguousInvoker) Type() reflect.Type { return normalizeType(ai.typ) }

func (ai *ambiguousInvoker) Get(any) (any, error) {
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousProperty, ai.message)
}

func (ai *ambiguousInvoker) Set(any, any) error {
	return fmt.Errorf("%w: %s", ErrAmbiguousProperty, ai.message)
}
