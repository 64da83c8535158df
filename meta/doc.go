// Package meta caches reflection metadata of Go types.
//
// A Cache maps a type to a *Type whose member sets (constructors, fields,
// properties, methods and attributes) are enumerated once on first access and
// shared by every caller until the entry expires:
//
//	t, err := meta.For[Order](meta.Default())
//	if err != nil {
//	    return err
//	}
//	total, _ := t.Properties().Get("Total")
//	v, err := meta.PropertyValue[*Order, int64](total, order)
//
// Go has no declared constructors or attributes. Constructors are functions
// registered with RegisterConstructor; attributes are arbitrary values attached
// with Annotate or AnnotateMember. Properties follow the accessor convention: a
// getter X() V and/or a setter SetX(V).
package meta
