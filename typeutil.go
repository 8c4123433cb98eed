package introspect

import (
	"fmt"
	"reflect"
	"unsafe"
)

var (
	anyType   = reflect.TypeOf((*any)(nil)).Elem()
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// normalizeType collapses an indeterminate type to the universal top type.
func normalizeType(t reflect.Type) reflect.Type {
	if t == nil {
		return anyType
	}
	return t
}

// baseType unwraps pointer types down to the pointed-to type.
func baseType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// isErrorResult reports whether t is the error interface type.
func isErrorResult(t reflect.Type) bool {
	return t == errorType
}

// targetValue resolves the concrete value behind target, unwrapping pointers.
// When forWrite is set the value must be reachable through a pointer so
// mutations are visible to the caller; for reads a non-addressable value is
// replaced by an addressable copy.
func targetValue(target any, forWrite bool) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, ErrNilTarget
	}
	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, ErrNilTarget
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, ErrNilTarget
	}
	if !v.CanAddr() {
		if forWrite {
			return reflect.Value{}, fmt.Errorf("target of type %s must be a pointer to be written through", v.Type())
		}
		v = addressableCopy(v)
	}
	return v, nil
}

// addressableCopy returns an addressable copy of v.
func addressableCopy(v reflect.Value) reflect.Value {
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// bypassVisibility returns a read-write view of v even when v was obtained
// through an unexported member. v must be addressable.
func bypassVisibility(v reflect.Value) reflect.Value {
	if v.CanInterface() && v.CanSet() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// fieldByIndex navigates an index path the way reflect.Value.FieldByIndex
// does, except that nil embedded pointers are allocated on the way down when
// alloc is set instead of panicking, and are reported as errors otherwise.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 {
			if v.Kind() == reflect.Pointer {
				if v.IsNil() {
					if !alloc {
						return reflect.Value{}, fmt.Errorf("nil embedded pointer %s", v.Type())
					}
					p := bypassVisibility(v)
					p.Set(reflect.New(v.Type().Elem()))
					v = p
				}
				v = v.Elem()
			}
		}
		v = v.Field(x)
	}
	return v, nil
}

// coerceValue adapts value to the wanted type: nil becomes the zero value for
// nilable kinds, assignable values pass through, and convertible values are
// converted. Anything else is an error.
func coerceValue(value any, want reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot assign nil to %s", want)
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", v.Type(), want)
}

// safeCall runs fn and converts reflection panics into errors.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reflection call panicked: %v", r)
		}
	}()
	return fn()
}
