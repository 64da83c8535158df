package meta

import (
	"iter"
	"reflect"
)

// Attributes is the fixed set of annotations attached to a type or member, in
// declaration order. Field attributes also carry the field's parsed struct tags.
type Attributes struct {
	items []any
	tags  []Tag
}

var emptyAttributes = &Attributes{items: []any{}}

// NewAttributes wraps a list of annotation values. A nil list yields an empty set.
func NewAttributes(items []any) *Attributes {
	return &Attributes{items: append([]any{}, items...)}
}

func newMemberAttributes(owner reflect.Type, member string, tags []Tag) *Attributes {
	if owner == nil {
		return emptyAttributes
	}
	return &Attributes{
		items: annotations.lookup(owner, member),
		tags:  tags,
	}
}

// Len returns the number of annotations.
func (a *Attributes) Len() int {
	return len(a.items)
}

// All iterates the annotations in order.
func (a *Attributes) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i, v := range a.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Slice returns a copy of the annotations.
func (a *Attributes) Slice() []any {
	return append([]any{}, a.items...)
}

// OfType returns the first annotation whose dynamic type is exactly kind, or nil.
// No assignability or interface matching is applied.
func (a *Attributes) OfType(kind reflect.Type) any {
	if kind == nil {
		return nil
	}
	for _, v := range a.items {
		if reflect.TypeOf(v) == kind {
			return v
		}
	}
	return nil
}

// OfTypeAll returns every annotation whose dynamic type is exactly kind. The result
// is never nil.
func (a *Attributes) OfTypeAll(kind reflect.Type) []any {
	out := []any{}
	if kind == nil {
		return out
	}
	for _, v := range a.items {
		if reflect.TypeOf(v) == kind {
			out = append(out, v)
		}
	}
	return out
}

// Tags returns the parsed struct tags. Only field attributes have tags.
func (a *Attributes) Tags() []Tag {
	return append([]Tag{}, a.tags...)
}

// Tag returns the struct tag with the given key.
func (a *Attributes) Tag(key string) (Tag, bool) {
	for _, t := range a.tags {
		if t.Key == key {
			return t, true
		}
	}
	return Tag{}, false
}

// AttributeOf returns the first annotation of type A.
//
// For a concrete A this is the exact-type match of OfType. For an interface A the
// first annotation implementing it is returned.
func AttributeOf[A any](a *Attributes) (A, bool) {
	for _, v := range a.items {
		if attr, ok := v.(A); ok {
			return attr, true
		}
	}
	var zero A
	return zero, false
}

// AttributesOf returns every annotation of type A, never nil.
func AttributesOf[A any](a *Attributes) []A {
	out := []A{}
	for _, v := range a.items {
		if attr, ok := v.(A); ok {
			out = append(out, attr)
		}
	}
	return out
}
