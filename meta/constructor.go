package meta

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Constructor wraps a function that builds a value of one type.
type Constructor struct {
	member
	fn     reflect.Value
	typ    reflect.Type
	params func() []Parameter
}

// NewConstructor wraps fn, which must return T, *T, (T, error) or (*T, error).
func NewConstructor(fn any) (*Constructor, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: constructor", ErrNilArgument)
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: constructor must be a func, got %T", ErrArgument, fn)
	}
	if rv.IsNil() {
		return nil, fmt.Errorf("%w: constructor", ErrNilArgument)
	}

	ft := rv.Type()
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("%w: constructor %s must return T or (T, error)", ErrArgument, ft)
	}
	if ft.Out(0) == errorType {
		return nil, fmt.Errorf("%w: constructor %s returns no value", ErrArgument, ft)
	}

	typ := normalize(ft.Out(0))
	return &Constructor{
		member: newMember(typ, funcName(rv), nil),
		fn:     rv,
		typ:    typ,
		params: sync.OnceValue(func() []Parameter {
			return parametersOf(ft, 0)
		}),
	}, nil
}

// Type returns the constructed type, with a returned *T reported as T.
func (c *Constructor) Type() reflect.Type {
	return c.typ
}

// ReturnType returns the declared first result, T or *T.
func (c *Constructor) ReturnType() reflect.Type {
	return c.fn.Type().Out(0)
}

// Func returns the wrapped function.
func (c *Constructor) Func() any {
	return c.fn.Interface()
}

// Parameters returns the constructor's parameters.
func (c *Constructor) Parameters() []Parameter {
	return c.params()
}

// Invoke calls the constructor with args. An error returned by the constructor is
// passed through unwrapped.
func (c *Constructor) Invoke(args ...any) (any, error) {
	in, err := callArgs(c.fn.Type(), 0, args)
	if err != nil {
		return nil, fmt.Errorf("constructor %s: %w", c.name, err)
	}

	results, err := splitResults(c.fn.Type(), c.fn.Call(in))
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Construct is the typed form of Constructor.Invoke. T may be the constructed type
// or a pointer to it, whichever the constructor returns.
func Construct[T any](c *Constructor, args ...any) (T, error) {
	var zero T

	v, err := c.Invoke(args...)
	if err != nil {
		return zero, err
	}
	if typed, ok := v.(T); ok || v == nil {
		return typed, nil
	}

	want := reflect.TypeFor[T]()
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Pointer && rv.Type().Elem() == want:
		if rv.IsNil() {
			return zero, fmt.Errorf("%w: constructor %s returned nil", ErrInvalidOperation, c.name)
		}
		return rv.Elem().Interface().(T), nil
	case want.Kind() == reflect.Pointer && rv.Type() == want.Elem():
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr.Interface().(T), nil
	}
	return as[T](v, "result of "+c.name)
}

// funcName is the package-qualified name of fn, without the import path directory.
func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return fn.Type().String()
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
