package meta

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Type is the cached metadata of one Go type. Each member set is built on first
// access, exactly once, and the same instance is returned afterwards.
//
// Types are produced by Cache; there is no exported constructor.
type Type struct {
	typ      reflect.Type
	fullName string
	name     string
	id       ulid.ULID

	constructors func() *Collection[*Constructor]
	attributes   func() *Attributes
	properties   func() *Dictionary[*Property]
	fields       func() *Dictionary[*Field]
	methods      func() *Collection[*Method]
}

func newType(t reflect.Type, logger *zap.Logger) (*Type, error) {
	t = normalize(t)
	if t == nil {
		return nil, fmt.Errorf("%w: type", ErrNilArgument)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ct := &Type{
		typ:      t,
		fullName: fullName(t),
		name:     shortName(t),
		id:       typeIDs.next(time.Now()),
	}

	log := logger.With(zap.String("type", ct.fullName))
	ct.constructors = lazy(log, "constructors", func() *Collection[*Constructor] { return buildConstructors(t) }, (*Collection[*Constructor]).Len)
	ct.attributes = lazy(log, "attributes", func() *Attributes { return newMemberAttributes(t, "", nil) }, (*Attributes).Len)
	ct.properties = lazy(log, "properties", func() *Dictionary[*Property] { return buildProperties(t) }, (*Dictionary[*Property]).Len)
	ct.fields = lazy(log, "fields", func() *Dictionary[*Field] { return buildFields(t) }, (*Dictionary[*Field]).Len)
	ct.methods = lazy(log, "methods", func() *Collection[*Method] { return buildMethods(t) }, (*Collection[*Method]).Len)

	return ct, nil
}

func lazy[T any](log *zap.Logger, kind string, build func() T, size func(T) int) func() T {
	return sync.OnceValue(func() T {
		v := build()
		log.Debug("member set built", zap.String("kind", kind), zap.Int("count", size(v)))
		return v
	})
}

// ReflectType returns the described type. Pointers to named types are cached under
// the named type, so this is never *T for a named T.
func (t *Type) ReflectType() reflect.Type {
	return t.typ
}

// FullName returns the import path qualified name. It is the cache key of the type
// unless another type with the same name was cached first.
func (t *Type) FullName() string {
	return t.fullName
}

// Name returns the unqualified type name.
func (t *Type) Name() string {
	return t.name
}

// ID identifies this entry. A type rebuilt after expiry gets a new ID.
func (t *Type) ID() ulid.ULID {
	return t.id
}

// String returns the full name.
func (t *Type) String() string {
	return t.fullName
}

// Constructors returns the registered constructors, in registration order.
func (t *Type) Constructors() *Collection[*Constructor] {
	return t.constructors()
}

// Attributes returns the annotations of the type, including those of embedded structs.
func (t *Type) Attributes() *Attributes {
	return t.attributes()
}

// Properties returns the accessor properties keyed by name.
func (t *Type) Properties() *Dictionary[*Property] {
	return t.properties()
}

// Fields returns the exported fields, promoted ones included, keyed by name.
func (t *Type) Fields() *Dictionary[*Field] {
	return t.fields()
}

// Methods returns the methods of the pointer method set, sorted by name.
func (t *Type) Methods() *Collection[*Method] {
	return t.methods()
}
