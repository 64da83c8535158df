package meta

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named struct {
	name  string
	value int
}

func namedKey(n named) string { return n.name }

func TestCollection(t *testing.T) {
	c := newCollection([]string{"b", "a", "c"})

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "a", c.At(1))
	assert.Equal(t, []string{"b", "a", "c"}, c.Slice())
	assert.Panics(t, func() { c.At(3) })

	var order []string
	for i, v := range c.All() {
		order = append(order, v)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []string{"b", "a"}, order)

	s := c.Slice()
	s[0] = "z"
	assert.Equal(t, "b", c.At(0))
}

func TestCollection_NilSource(t *testing.T) {
	c := newCollection[int](nil)

	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
	assert.NotNil(t, c.Slice())
	for range c.All() {
		t.Fatal("empty collection yielded")
	}
}

func TestDictionary(t *testing.T) {
	d := newDictionary([]named{{"b", 2}, {"a", 1}, {"c", 3}}, namedKey)

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"a", "b", "c"}, d.Keys())
	assert.Equal(t, []named{{"a", 1}, {"b", 2}, {"c", 3}}, d.Values())
	assert.True(t, d.Contains("b"))
	assert.False(t, d.Contains("z"))

	got, err := d.Get("c")
	require.NoError(t, err)
	assert.Equal(t, 3, got.value)

	_, err = d.Get("z")
	require.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), `"z"`)

	v, ok := d.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v.value)

	_, ok = d.Lookup("z")
	assert.False(t, ok)

	var keys []string
	for k := range d.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestDictionary_LastWriteWins(t *testing.T) {
	d := newDictionary([]named{{"a", 1}, {"a", 2}}, namedKey)

	assert.Equal(t, 1, d.Len())
	v, _ := d.Lookup("a")
	assert.Equal(t, 2, v.value)
}

func TestDictionary_NilSource(t *testing.T) {
	d := newDictionary[named](nil, namedKey)

	assert.Equal(t, 0, d.Len())
	assert.NotNil(t, d.Keys())
	assert.NotNil(t, d.Values())
}

func TestBuilders_NilType(t *testing.T) {
	assert.Equal(t, 0, buildConstructors(nil).Len())
	assert.Equal(t, 0, buildFields(nil).Len())
	assert.Equal(t, 0, buildProperties(nil).Len())
	assert.Equal(t, 0, buildMethods(nil).Len())
	assert.Equal(t, 0, newMemberAttributes(nil, "", nil).Len())
}

func TestNewType_Nil(t *testing.T) {
	_, err := newType(nil, nil)
	assert.ErrorIs(t, err, ErrNilArgument)
}

func TestNormalizeAndFullName(t *testing.T) {
	type local struct{}

	tests := []struct {
		name     string
		typ      reflect.Type
		wantType reflect.Type
		wantName string
	}{
		{"Named", reflect.TypeFor[named](), reflect.TypeFor[named](), reflect.TypeFor[named]().PkgPath() + ".named"},
		{"PointerToNamed", reflect.TypeFor[*named](), reflect.TypeFor[named](), reflect.TypeFor[named]().PkgPath() + ".named"},
		{"Builtin", reflect.TypeFor[int](), reflect.TypeFor[int](), "int"},
		{"Slice", reflect.TypeFor[[]string](), reflect.TypeFor[[]string](), "[]string"},
		{"PointerToUnnamed", reflect.TypeFor[*[]int](), reflect.TypeFor[*[]int](), "*[]int"},
		{"Local", reflect.TypeFor[local](), reflect.TypeFor[local](), reflect.TypeFor[local]().PkgPath() + ".local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.typ)
			assert.Equal(t, tt.wantType, got)
			assert.Equal(t, tt.wantName, fullName(got))
		})
	}

	assert.Nil(t, normalize(nil))
}
