package meta

import (
	"fmt"
	"reflect"
	"sync"
)

// Method wraps one method of a type's pointer method set.
type Method struct {
	member
	method reflect.Method
	recv   reflect.Type
	value  reflect.Method // same method in the value method set, if declared there
	params func() []Parameter
}

// NewMethod wraps m, a method obtained from owner's (or *owner's) method set.
func NewMethod(owner reflect.Type, m reflect.Method) (*Method, error) {
	owner = normalize(owner)
	if owner == nil {
		return nil, fmt.Errorf("%w: method owner", ErrNilArgument)
	}
	if m.Name == "" || !m.Func.IsValid() {
		return nil, fmt.Errorf("%w: method of %s", ErrNilArgument, fullName(owner))
	}

	recv := m.Type.In(0)
	if recv != owner && normalize(recv) != owner {
		return nil, fmt.Errorf("%w: method %s has receiver %s, not %s", ErrArgument, m.Name, recv, fullName(owner))
	}

	fn := m.Type
	method := &Method{
		member: newMember(owner, m.Name, nil),
		method: m,
		recv:   recv,
		params: sync.OnceValue(func() []Parameter {
			return parametersOf(fn, 1)
		}),
	}
	if owner.Kind() != reflect.Pointer && owner.Kind() != reflect.Interface {
		if vm, ok := owner.MethodByName(m.Name); ok {
			method.value = vm
		}
	}
	return method, nil
}

// ReflectMethod returns the underlying descriptor.
func (m *Method) ReflectMethod() reflect.Method {
	return m.method
}

// ReturnType returns the first result type, or nil for methods without results.
func (m *Method) ReturnType() reflect.Type {
	if m.method.Type.NumOut() == 0 {
		return nil
	}
	return m.method.Type.Out(0)
}

// ReturnTypes returns every result type.
func (m *Method) ReturnTypes() []reflect.Type {
	out := make([]reflect.Type, m.method.Type.NumOut())
	for i := range out {
		out[i] = m.method.Type.Out(i)
	}
	return out
}

// Parameters returns the parameters, receiver excluded.
func (m *Method) Parameters() []Parameter {
	return m.params()
}

// IsVariadic reports whether the last parameter is variadic.
func (m *Method) IsVariadic() bool {
	return m.method.Type.IsVariadic()
}

// Call invokes the method on parent with args and returns its results. A trailing
// error result is not part of the slice; it is returned as the error.
//
// A nil parent calls the method on the receiver's zero value, which suits methods
// that never touch their receiver.
func (m *Method) Call(parent any, args ...any) ([]any, error) {
	fn, recv, err := m.bound(parent)
	if err != nil {
		return nil, err
	}

	in, err := callArgs(m.method.Type, 1, args)
	if err != nil {
		return nil, fmt.Errorf("method %s.%s: %w", fullName(m.owner), m.name, err)
	}

	out := fn.Call(append([]reflect.Value{recv}, in...))
	return splitResults(m.method.Type, out)
}

// Invoke is Call returning only the first result.
func (m *Method) Invoke(parent any, args ...any) (any, error) {
	results, err := m.Call(parent, args...)
	if len(results) == 0 {
		return nil, err
	}
	return results[0], err
}

// Invoke is the typed form of Method.Invoke.
func Invoke[R any](m *Method, parent any, args ...any) (R, error) {
	v, err := m.Invoke(parent, args...)
	if err != nil {
		var zero R
		return zero, err
	}
	return as[R](v, "result of "+m.name)
}

// bound picks the func and receiver to call. A nil parent becomes the zero value of
// the receiver the method is declared on, so value-receiver methods never see a nil
// pointer.
func (m *Method) bound(parent any) (reflect.Value, reflect.Value, error) {
	if parent == nil {
		if m.value.Func.IsValid() {
			return m.value.Func, reflect.Zero(m.value.Type.In(0)), nil
		}
		return m.method.Func, reflect.Zero(m.recv), nil
	}

	rv := reflect.ValueOf(parent)
	switch {
	case rv.Type() == m.recv:
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return reflect.Value{}, reflect.Value{}, fmt.Errorf("%w: parent of %s", ErrNilArgument, fullName(m.owner))
		}
		return m.method.Func, rv, nil
	case rv.Kind() == reflect.Pointer && rv.Type().Elem() == m.recv:
		if rv.IsNil() {
			return reflect.Value{}, reflect.Value{}, fmt.Errorf("%w: parent of %s", ErrNilArgument, fullName(m.owner))
		}
		return m.method.Func, rv.Elem(), nil
	case m.recv.Kind() == reflect.Pointer && rv.Type() == m.recv.Elem():
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return m.method.Func, ptr, nil
	}
	return reflect.Value{}, reflect.Value{}, fmt.Errorf("%w: parent must be %s, got %T", ErrArgument, fullName(m.owner), parent)
}
