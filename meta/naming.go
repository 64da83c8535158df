package meta

import (
	"fmt"
	"reflect"
	"strings"

	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// normalize maps a pointer to a named type onto the named type itself, so *User and
// User share one cache entry.
func normalize(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer && t.Elem().Name() != "" {
		return t.Elem()
	}
	return t
}

// fullName is the preferred cache key of t: import path plus name for named types,
// the type literal otherwise. Function-local types can share it.
func fullName(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func shortName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// count renders "1 field" or "3 fields".
func count(n int, noun string) string {
	return pluralizeClient.Pluralize(noun, n, true)
}

// Describe returns a one-line summary of the cached type, building every member set
// it has not built yet.
//
//	example.com/shop.Order: 1 constructor, 4 fields, 2 properties, 6 methods, 0 attributes
func Describe(t *Type) string {
	if t == nil {
		return "<nil>"
	}

	parts := []string{
		count(t.Constructors().Len(), "constructor"),
		count(t.Fields().Len(), "field"),
		count(t.Properties().Len(), "property"),
		count(t.Methods().Len(), "method"),
		count(t.Attributes().Len(), "attribute"),
	}
	return fmt.Sprintf("%s: %s", t.FullName(), strings.Join(parts, ", "))
}
