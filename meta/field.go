package meta

import (
	"fmt"
	"reflect"
)

// Field wraps one struct field. Reads and writes go through reflect on every call
// using the stored index path; nothing else is cached.
type Field struct {
	member
	field    reflect.StructField
	readonly bool
}

// NewField wraps sf, a field of the struct type owner.
func NewField(owner reflect.Type, sf reflect.StructField) (*Field, error) {
	owner = normalize(owner)
	if owner == nil {
		return nil, fmt.Errorf("%w: field owner", ErrNilArgument)
	}
	if sf.Name == "" || len(sf.Index) == 0 || sf.Type == nil {
		return nil, fmt.Errorf("%w: struct field of %s", ErrNilArgument, fullName(owner))
	}
	if owner.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrArgument, fullName(owner))
	}

	// Malformed tags keep the pairs before the error, as reflect.StructTag.Get does.
	tags, _ := defaultTagParser.Parse(sf.Tag)

	f := &Field{
		member: newMember(owner, sf.Name, func() []Tag { return tags }),
		field:  sf,
	}
	for _, t := range tags {
		if t.Key == TagKey && t.HasOption("readonly") {
			f.readonly = true
		}
	}
	return f, nil
}

// Type returns the field's value type.
func (f *Field) Type() reflect.Type {
	return f.field.Type
}

// Index returns the index path of the field, as for reflect.Value.FieldByIndex.
func (f *Field) Index() []int {
	return append([]int{}, f.field.Index...)
}

// StructField returns the underlying descriptor.
func (f *Field) StructField() reflect.StructField {
	return f.field
}

// IsExported reports whether the field is exported.
func (f *Field) IsExported() bool {
	return f.field.IsExported()
}

// IsReadOnly reports whether the field is tagged reflcache:"readonly".
func (f *Field) IsReadOnly() bool {
	return f.readonly
}

// CanWrite reports whether SetValue can succeed: the field is exported and not
// tagged read-only.
func (f *Field) CanWrite() bool {
	return f.field.IsExported() && !f.readonly
}

// Value returns the field value of parent, a struct of the owner type or a pointer
// to one.
func (f *Field) Value(parent any) (any, error) {
	if !f.field.IsExported() {
		return nil, fmt.Errorf("%w: field %s.%s is unexported", ErrInvalidOperation, fullName(f.owner), f.name)
	}

	sv, err := structValue(parent, f.owner, false)
	if err != nil {
		return nil, err
	}

	fv, err := sv.FieldByIndexErr(f.field.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s.%s: %v", ErrInvalidOperation, fullName(f.owner), f.name, err)
	}
	return fv.Interface(), nil
}

// SetValue assigns value to the field of parent, which must be a pointer to the owner
// struct. Values are converted to the field type when reflect allows it.
func (f *Field) SetValue(parent any, value any) error {
	if !f.CanWrite() {
		return fmt.Errorf("%w: field %s.%s is read-only", ErrInvalidOperation, fullName(f.owner), f.name)
	}

	sv, err := structValue(parent, f.owner, true)
	if err != nil {
		return err
	}

	fv, err := sv.FieldByIndexErr(f.field.Index)
	if err != nil {
		return fmt.Errorf("%w: field %s.%s: %v", ErrInvalidOperation, fullName(f.owner), f.name, err)
	}

	v, err := valueFor(value, f.field.Type)
	if err != nil {
		return fmt.Errorf("field %s.%s: %w", fullName(f.owner), f.name, err)
	}
	fv.Set(v)
	return nil
}

// FieldValue is the typed form of Field.Value.
func FieldValue[V any](f *Field, parent any) (V, error) {
	v, err := f.Value(parent)
	if err != nil {
		var zero V
		return zero, err
	}
	return as[V](v, "field "+f.name)
}

// SetFieldValue is the typed form of Field.SetValue.
func SetFieldValue[V any](f *Field, parent any, value V) error {
	return f.SetValue(parent, value)
}

// structValue resolves parent to the owner struct value. With addressable set,
// parent must be a non-nil pointer so the result can be assigned to.
func structValue(parent any, owner reflect.Type, addressable bool) (reflect.Value, error) {
	if parent == nil {
		return reflect.Value{}, fmt.Errorf("%w: parent of %s", ErrNilArgument, fullName(owner))
	}

	rv := reflect.ValueOf(parent)
	isPtr := rv.Kind() == reflect.Pointer
	if isPtr {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: parent of %s", ErrNilArgument, fullName(owner))
		}
		rv = rv.Elem()
	}

	if rv.Type() != owner {
		return reflect.Value{}, fmt.Errorf("%w: parent must be %s, got %T", ErrArgument, fullName(owner), parent)
	}
	if addressable && !isPtr {
		return reflect.Value{}, fmt.Errorf("%w: parent must be *%s to be written", ErrArgument, owner.Name())
	}
	return rv, nil
}
