package meta

import (
	"reflect"
	"sync"
)

// member holds what every wrapper shares: the declaring type, the member name and
// the lazily built annotation set.
type member struct {
	owner reflect.Type
	name  string
	attrs func() *Attributes
}

func newMember(owner reflect.Type, name string, tags func() []Tag) member {
	return member{
		owner: owner,
		name:  name,
		attrs: sync.OnceValue(func() *Attributes {
			var parsed []Tag
			if tags != nil {
				parsed = tags()
			}
			return newMemberAttributes(owner, name, parsed)
		}),
	}
}

// Name returns the member name.
func (m *member) Name() string {
	return m.name
}

// DeclaringType returns the type the member was resolved on.
func (m *member) DeclaringType() reflect.Type {
	return m.owner
}

// Attributes returns the annotations of the member, including those inherited from
// embedded structs.
func (m *member) Attributes() *Attributes {
	return m.attrs()
}

// Parameter describes one parameter of a method or constructor.
type Parameter struct {
	Position int
	Type     reflect.Type
	Variadic bool // last parameter of a variadic func; Type is the slice type
}

func parametersOf(fn reflect.Type, skip int) []Parameter {
	params := make([]Parameter, 0, fn.NumIn()-skip)
	for i := skip; i < fn.NumIn(); i++ {
		params = append(params, Parameter{
			Position: i - skip,
			Type:     fn.In(i),
			Variadic: fn.IsVariadic() && i == fn.NumIn()-1,
		})
	}
	return params
}

// callArgs converts args to the parameter types of fn, starting at parameter skip.
func callArgs(fn reflect.Type, skip int, args []any) ([]reflect.Value, error) {
	fixed := fn.NumIn() - skip
	if fn.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, argCountError(fixed, len(args), true)
		}
	} else if len(args) != fixed {
		return nil, argCountError(fixed, len(args), false)
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = fn.In(skip + i)
		} else {
			want = fn.In(fn.NumIn() - 1).Elem()
		}

		v, err := valueFor(arg, want)
		if err != nil {
			return nil, argError(i, err)
		}
		in = append(in, v)
	}
	return in, nil
}

var errorType = reflect.TypeFor[error]()

// splitResults boxes call results, peeling off a trailing error.
func splitResults(fn reflect.Type, out []reflect.Value) ([]any, error) {
	n := len(out)
	var err error
	if n > 0 && fn.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		n--
	}

	results := make([]any, n)
	for i := 0; i < n; i++ {
		results[i] = out[i].Interface()
	}
	return results, err
}
