package meta

import (
	"fmt"
	"reflect"
)

// valueFor converts v to a reflect.Value of type t for assignment or as a call
// argument. nil becomes the zero value of nillable types. Values that are not
// assignable are converted when reflect allows it, except integer to string (which
// yields a rune, not digits) and slice to array (which panics on short slices).
func valueFor(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: cannot use nil as %s", ErrArgument, t)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	// Pointer to the wanted type: dereference like a setter would.
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Type().Elem().AssignableTo(t) {
		return rv.Elem(), nil
	}

	if convertible(rv.Type(), t) {
		return rv.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrArgument, rv.Type(), t)
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String && isInteger(from.Kind()) {
		return false
	}
	if from.Kind() == reflect.Slice && (to.Kind() == reflect.Array || to.Kind() == reflect.Pointer) {
		return false
	}
	return true
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// as asserts a boxed result to V. A nil result yields V's zero value when V can
// hold nil.
func as[V any](v any, what string) (V, error) {
	if typed, ok := v.(V); ok {
		return typed, nil
	}

	var zero V
	if v == nil && nillable(reflect.TypeFor[V]()) {
		return zero, nil
	}
	return zero, fmt.Errorf("%w: %s is %T, not %s", ErrArgument, what, v, reflect.TypeFor[V]())
}
