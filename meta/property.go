package meta

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

// Property wraps a Go accessor pair: a getter X() V and/or a setter SetX(V), found in
// the method set of *owner.
//
// Value and SetValue call the accessor funcs resolved by NewProperty. The typed
// PropertyValue and SetPropertyValue bind the accessor to a func(P) V or func(P, V)
// on first use and keep it on the wrapper, so later calls skip reflect.Value.Call
// entirely.
type Property struct {
	member
	typ    reflect.Type
	getter string // method name, empty when there is none
	setter string

	// Method expressions on the method set type; the receiver is the first argument.
	getFunc reflect.Value
	setFunc reflect.Value

	get atomic.Pointer[delegate]
	set atomic.Pointer[delegate]
}

// delegate boxes a typed accessor func. Concurrent first calls may bind twice; the
// last store wins and both delegates are equivalent.
type delegate struct {
	fn any
}

// NewProperty resolves the property name on owner.
func NewProperty(owner reflect.Type, name string) (*Property, error) {
	owner = normalize(owner)
	if owner == nil {
		return nil, fmt.Errorf("%w: property owner", ErrNilArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: property name on %s", ErrNilArgument, fullName(owner))
	}

	ms := methodSet(owner)
	if ms == nil {
		return nil, noAccessorError(owner, name)
	}

	p := &Property{member: newMember(owner, name, nil)}

	if m, ok := ms.MethodByName(name); ok && isGetter(m) {
		p.getter = m.Name
		p.getFunc = m.Func
		p.typ = m.Type.Out(0)
	}
	if m, ok := ms.MethodByName(setterName(name)); ok && isSetter(m) {
		if p.typ == nil || p.typ == m.Type.In(1) {
			p.setter = m.Name
			p.setFunc = m.Func
			p.typ = m.Type.In(1)
		}
	}

	if p.getter == "" && p.setter == "" {
		return nil, noAccessorError(owner, name)
	}
	return p, nil
}

// Type returns the property's value type.
func (p *Property) Type() reflect.Type {
	return p.typ
}

// CanRead reports whether the property has a getter.
func (p *Property) CanRead() bool {
	return p.getter != ""
}

// CanWrite reports whether the property has a setter.
func (p *Property) CanWrite() bool {
	return p.setter != ""
}

// Value calls the getter on parent, a value of the owner type or a pointer to one.
// PropertyValue skips the reflective call when the types are known.
func (p *Property) Value(parent any) (any, error) {
	if p.getter == "" {
		return nil, noAccessorError(p.owner, p.name)
	}

	recv, err := receiver(parent, p.owner)
	if err != nil {
		return nil, err
	}
	return p.getFunc.Call([]reflect.Value{recv})[0].Interface(), nil
}

// SetValue calls the setter on parent, which must be a pointer to the owner type.
func (p *Property) SetValue(parent any, value any) error {
	if p.setter == "" {
		return noAccessorError(p.owner, p.name)
	}

	if parent != nil && reflect.TypeOf(parent) == p.owner && p.owner.Kind() != reflect.Pointer {
		return fmt.Errorf("%w: parent must be *%s to be written", ErrArgument, shortName(p.owner))
	}
	recv, err := receiver(parent, p.owner)
	if err != nil {
		return err
	}

	v, err := valueFor(value, p.typ)
	if err != nil {
		return fmt.Errorf("property %s.%s: %w", fullName(p.owner), p.name, err)
	}
	p.setFunc.Call([]reflect.Value{recv, v})
	return nil
}

// PropertyValue reads the property through a cached func(P) V delegate. P is the
// receiver type the getter is declared on: T for value receivers, *T for pointer
// receivers.
func PropertyValue[P, V any](p *Property, parent P) (V, error) {
	fn, err := bindGetter[P, V](p)
	if err != nil {
		var zero V
		return zero, err
	}
	return fn(parent), nil
}

// SetPropertyValue writes the property through a cached func(P, V) delegate.
func SetPropertyValue[P, V any](p *Property, parent P, value V) error {
	fn, err := bindSetter[P, V](p)
	if err != nil {
		return err
	}
	fn(parent, value)
	return nil
}

func bindGetter[P, V any](p *Property) (func(P) V, error) {
	if d := p.get.Load(); d != nil {
		if fn, ok := d.fn.(func(P) V); ok {
			return fn, nil
		}
	}

	if p.getter == "" {
		return nil, noAccessorError(p.owner, p.name)
	}
	fn, err := bind[func(P) V](p, reflect.TypeFor[P](), p.getter)
	if err != nil {
		return nil, err
	}
	p.get.Store(&delegate{fn: fn})
	return fn, nil
}

func bindSetter[P, V any](p *Property) (func(P, V), error) {
	if d := p.set.Load(); d != nil {
		if fn, ok := d.fn.(func(P, V)); ok {
			return fn, nil
		}
	}

	if p.setter == "" {
		return nil, noAccessorError(p.owner, p.name)
	}
	fn, err := bind[func(P, V)](p, reflect.TypeFor[P](), p.setter)
	if err != nil {
		return nil, err
	}
	p.set.Store(&delegate{fn: fn})
	return fn, nil
}

// bind turns the method expression recv.method into F. It fails with
// ErrInvalidOperation when recv's method set lacks the accessor, and with ErrArgument
// when the accessor cannot be expressed as F.
func bind[F any](p *Property, recv reflect.Type, method string) (F, error) {
	var zero F

	if normalize(recv) != p.owner {
		return zero, fmt.Errorf("%w: property %s.%s cannot bind to receiver %s",
			ErrArgument, fullName(p.owner), p.name, recv)
	}

	m, ok := recv.MethodByName(method)
	if !ok {
		return zero, fmt.Errorf("%w: property %s.%s has no accessor %s on %s",
			ErrInvalidOperation, fullName(p.owner), p.name, method, recv)
	}
	if !m.Func.IsValid() {
		return zero, fmt.Errorf("%w: accessor %s of %s is not bound to a concrete method",
			ErrArgument, method, recv)
	}

	fn, ok := m.Func.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("%w: accessor %s has type %s, not %s",
			ErrArgument, method, m.Func.Type(), reflect.TypeFor[F]())
	}
	return fn, nil
}

func noAccessorError(owner reflect.Type, name string) error {
	return fmt.Errorf("%w: property %s.%s has no accessor", ErrInvalidOperation, fullName(owner), name)
}

func setterName(property string) string {
	return "Set" + property
}

// isGetter matches X() V. m comes from a concrete method set, so In(0) is the receiver.
func isGetter(m reflect.Method) bool {
	return m.Type.NumIn() == 1 && m.Type.NumOut() == 1
}

// isSetter matches SetX(V).
func isSetter(m reflect.Method) bool {
	return len(m.Name) > len("Set") && strings.HasPrefix(m.Name, "Set") &&
		m.Type.NumIn() == 2 && m.Type.NumOut() == 0 && !m.Type.IsVariadic()
}

// receiver resolves parent to a value of methodSet(owner). Non-pointer parents are
// copied.
func receiver(parent any, owner reflect.Type) (reflect.Value, error) {
	if parent == nil {
		return reflect.Value{}, fmt.Errorf("%w: parent of %s", ErrNilArgument, fullName(owner))
	}

	rv := reflect.ValueOf(parent)
	switch {
	case rv.Type() == owner && owner.Kind() == reflect.Pointer:
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: parent of %s", ErrNilArgument, fullName(owner))
		}
		return rv, nil
	case rv.Type() == owner:
		ptr := reflect.New(owner)
		ptr.Elem().Set(rv)
		return ptr, nil
	case rv.Kind() == reflect.Pointer && rv.Type().Elem() == owner:
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: parent of %s", ErrNilArgument, fullName(owner))
		}
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("%w: parent must be %s, got %T", ErrArgument, fullName(owner), parent)
}

// methodSet is the type whose method set is enumerated for owner: *owner, or owner
// itself when it is already an unnamed pointer. Interfaces have no callable methods
// and yield nil.
func methodSet(owner reflect.Type) reflect.Type {
	switch owner.Kind() {
	case reflect.Interface:
		return nil
	case reflect.Pointer:
		return owner
	}
	return reflect.PointerTo(owner)
}
