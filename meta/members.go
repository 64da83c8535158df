package meta

import (
	"reflect"
	"strings"
)

// Member set builders. Each takes a possibly nil type and never returns nil.

func buildConstructors(t reflect.Type) *Collection[*Constructor] {
	if t == nil {
		return newCollection[*Constructor](nil)
	}
	return newCollection(constructors.lookup(t))
}

func buildFields(t reflect.Type) *Dictionary[*Field] {
	if t == nil || t.Kind() != reflect.Struct {
		return newDictionary[*Field](nil, fieldName)
	}

	var fields []*Field
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		f, err := NewField(t, sf)
		if err != nil {
			continue
		}
		fields = append(fields, f)
	}
	return newDictionary(fields, fieldName)
}

func buildProperties(t reflect.Type) *Dictionary[*Property] {
	ms := methodSetOf(t)
	if ms == nil {
		return newDictionary[*Property](nil, propertyName)
	}

	seen := make(map[string]bool)
	var props []*Property
	for i := 0; i < ms.NumMethod(); i++ {
		m := ms.Method(i)

		var name string
		switch {
		case isGetter(m):
			name = m.Name
		case isSetter(m):
			name = strings.TrimPrefix(m.Name, "Set")
		default:
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		p, err := NewProperty(t, name)
		if err != nil {
			continue
		}
		props = append(props, p)
	}
	return newDictionary(props, propertyName)
}

func buildMethods(t reflect.Type) *Collection[*Method] {
	ms := methodSetOf(t)
	if ms == nil {
		return newCollection[*Method](nil)
	}

	methods := make([]*Method, 0, ms.NumMethod())
	for i := 0; i < ms.NumMethod(); i++ {
		m, err := NewMethod(t, ms.Method(i))
		if err != nil {
			continue
		}
		methods = append(methods, m)
	}
	return newCollection(methods)
}

func methodSetOf(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	return methodSet(t)
}

func fieldName(f *Field) string       { return f.Name() }
func propertyName(p *Property) string { return p.Name() }
