package meta

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Collection is a fixed, ordered list of members.
type Collection[E any] struct {
	items []E
}

func newCollection[E any](items []E) *Collection[E] {
	if items == nil {
		items = []E{}
	}
	return &Collection[E]{items: items}
}

// Len returns the number of members.
func (c *Collection[E]) Len() int {
	return len(c.items)
}

// At returns the i-th member. It panics if i is out of range, like a slice index.
func (c *Collection[E]) At(i int) E {
	return c.items[i]
}

// All iterates the members in order.
func (c *Collection[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, item := range c.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Slice returns a copy of the members.
func (c *Collection[E]) Slice() []E {
	return slices.Clone(c.items)
}

// Dictionary is a fixed set of members keyed by name. Iteration is in key order.
type Dictionary[E any] struct {
	items map[string]E
	keys  []string
}

// newDictionary keys items by name; a later item replaces an earlier one with the
// same name.
func newDictionary[E any](items []E, name func(E) string) *Dictionary[E] {
	d := &Dictionary[E]{items: make(map[string]E, len(items))}
	for _, item := range items {
		d.items[name(item)] = item
	}

	d.keys = make([]string, 0, len(d.items))
	for k := range d.items {
		d.keys = append(d.keys, k)
	}
	sort.Strings(d.keys)
	return d
}

// Len returns the number of members.
func (d *Dictionary[E]) Len() int {
	return len(d.items)
}

// Get returns the member named key, or ErrKeyNotFound.
func (d *Dictionary[E]) Get(key string) (E, error) {
	item, ok := d.items[key]
	if !ok {
		return item, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return item, nil
}

// Lookup returns the member named key and whether it exists.
func (d *Dictionary[E]) Lookup(key string) (E, bool) {
	item, ok := d.items[key]
	return item, ok
}

// Contains reports whether a member named key exists.
func (d *Dictionary[E]) Contains(key string) bool {
	_, ok := d.items[key]
	return ok
}

// Keys returns the member names in sorted order.
func (d *Dictionary[E]) Keys() []string {
	return slices.Clone(d.keys)
}

// Values returns the members in key order.
func (d *Dictionary[E]) Values() []E {
	out := make([]E, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, d.items[k])
	}
	return out
}

// All iterates name/member pairs in key order.
func (d *Dictionary[E]) All() iter.Seq2[string, E] {
	return func(yield func(string, E) bool) {
		for _, k := range d.keys {
			if !yield(k, d.items[k]) {
				return
			}
		}
	}
}
