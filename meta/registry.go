package meta

import (
	"fmt"
	"reflect"
	"sync"
)

// Go has neither declared constructors nor attributes, so both are registered at
// init time and looked up when a Type builds its member sets. Registrations made
// after a type was cached become visible once its entry expires.

type constructorRegistry struct {
	mu     sync.RWMutex
	byType map[reflect.Type][]*Constructor
}

var constructors = &constructorRegistry{byType: make(map[reflect.Type][]*Constructor)}

// RegisterConstructor records fn as a constructor of the type it returns. fn must
// return T, *T, (T, error) or (*T, error).
//
//	func init() {
//	    meta.MustRegisterConstructor(NewOrder)
//	}
func RegisterConstructor(fn any) error {
	c, err := NewConstructor(fn)
	if err != nil {
		return err
	}

	constructors.mu.Lock()
	defer constructors.mu.Unlock()
	constructors.byType[c.Type()] = append(constructors.byType[c.Type()], c)
	return nil
}

// MustRegisterConstructor is RegisterConstructor for init functions; it panics on error.
func MustRegisterConstructor(fn any) {
	if err := RegisterConstructor(fn); err != nil {
		panic(err)
	}
}

func (r *constructorRegistry) lookup(t reflect.Type) []*Constructor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Constructor{}, r.byType[t]...)
}

type memberKey struct {
	owner  reflect.Type
	member string // empty for the type itself
}

type annotationRegistry struct {
	mu    sync.RWMutex
	items map[memberKey][]any
}

var annotations = &annotationRegistry{items: make(map[memberKey][]any)}

// Annotate attaches attrs to type T.
func Annotate[T any](attrs ...any) {
	annotations.add(memberKey{owner: normalize(reflect.TypeFor[T]())}, attrs)
}

// AnnotateMember attaches attrs to the field, property, method or constructor of T
// named member.
func AnnotateMember[T any](member string, attrs ...any) {
	annotations.add(memberKey{owner: normalize(reflect.TypeFor[T]()), member: member}, attrs)
}

// AnnotateType is the reflect.Type form of Annotate and AnnotateMember; an empty
// member annotates the type itself.
func AnnotateType(t reflect.Type, member string, attrs ...any) error {
	if t == nil {
		return fmt.Errorf("%w: annotated type", ErrNilArgument)
	}
	annotations.add(memberKey{owner: normalize(t), member: member}, attrs)
	return nil
}

func (r *annotationRegistry) add(key memberKey, attrs []any) {
	if len(attrs) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = append(r.items[key], attrs...)
}

// lookup returns the annotations of owner's member followed by those inherited from
// embedded structs, depth first in field order.
func (r *annotationRegistry) lookup(owner reflect.Type, member string) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []any{}
	visited := make(map[reflect.Type]bool)

	var walk func(t reflect.Type)
	walk = func(t reflect.Type) {
		if visited[t] {
			return
		}
		visited[t] = true

		out = append(out, r.items[memberKey{owner: t, member: member}]...)

		if t.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}
			if embedded := normalize(f.Type); embedded.Kind() == reflect.Struct {
				walk(embedded)
			}
		}
	}
	walk(owner)

	return out
}
