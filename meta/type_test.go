package meta_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/reflcache/meta"
)

func newTestCache(t *testing.T, opts ...meta.Option) *meta.Cache {
	t.Helper()
	c, err := meta.New(opts...)
	require.NoError(t, err)
	return c
}

// =========================================================================
// End-to-end
// =========================================================================

func TestType_EndToEnd(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Sample](c)
	require.NoError(t, err)

	// Constructors
	require.Equal(t, 1, ct.Constructors().Len())
	params := ct.Constructors().At(0).Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, reflect.TypeFor[int](), params[0].Type)

	// Properties
	assert.Equal(t, []string{"Name"}, ct.Properties().Keys())
	name, err := ct.Properties().Get("Name")
	require.NoError(t, err)
	label, ok := meta.AttributeOf[Label](name.Attributes())
	require.True(t, ok)
	assert.Equal(t, "display name", label.Text)

	// Fields
	assert.Equal(t, []string{"Value"}, ct.Fields().Keys())

	// Methods
	var process *meta.Method
	for _, m := range ct.Methods().All() {
		if m.Name() == "Process" {
			process = m
		}
	}
	require.NotNil(t, process)

	got, err := process.Invoke(nil, 42)
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestType_Identity(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Sample](c)
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeFor[Sample](), ct.ReflectType())
	assert.Equal(t, "Sample", ct.Name())
	assert.Equal(t, reflect.TypeFor[Sample]().PkgPath()+".Sample", ct.FullName())
	assert.Equal(t, ct.FullName(), ct.String())
	assert.NotZero(t, ct.ID())
}

func TestType_PointerSharesEntry(t *testing.T) {
	c := newTestCache(t)

	byValue, err := meta.For[Sample](c)
	require.NoError(t, err)
	byPointer, err := meta.For[*Sample](c)
	require.NoError(t, err)

	assert.Same(t, byValue, byPointer)
}

func TestType_UnnamedTypes(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[[]int](c)
	require.NoError(t, err)
	assert.Equal(t, "[]int", ct.FullName())
	assert.Equal(t, 0, ct.Fields().Len())
	assert.Equal(t, 0, ct.Constructors().Len())

	anon, err := meta.For[struct{ X, Y int }](c)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, anon.Fields().Keys())
}

func TestType_InterfaceHasNoMethods(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Describer](c)
	require.NoError(t, err)
	assert.Equal(t, 0, ct.Methods().Len())
	assert.Equal(t, 0, ct.Properties().Len())
}

// =========================================================================
// Member Sets
// =========================================================================

func TestType_ConstructorsMatchRegistration(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Account](c)
	require.NoError(t, err)

	registered := []any{NewAccount, OpenAccount}
	require.Equal(t, len(registered), ct.Constructors().Len())

	for i, fn := range registered {
		ctor := ct.Constructors().At(i)
		ft := reflect.TypeOf(fn)

		require.Len(t, ctor.Parameters(), ft.NumIn())
		for j, p := range ctor.Parameters() {
			assert.Equal(t, j, p.Position)
			assert.Equal(t, ft.In(j), p.Type)
		}
		assert.Equal(t, reflect.TypeFor[Account](), ctor.Type())
	}
}

func TestType_EmptyStruct(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Empty](c)
	require.NoError(t, err)

	fields := ct.Fields()
	require.NotNil(t, fields)
	assert.Equal(t, 0, fields.Len())
	assert.Empty(t, fields.Keys())

	_, err = fields.Get("anything")
	assert.ErrorIs(t, err, meta.ErrKeyNotFound)

	_, ok := fields.Lookup("anything")
	assert.False(t, ok)

	assert.NotNil(t, ct.Constructors())
	assert.NotNil(t, ct.Properties())
	assert.NotNil(t, ct.Methods())
	assert.NotNil(t, ct.Attributes())
	assert.Equal(t, 0, ct.Attributes().Len())
}

func TestType_AccountMembers(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Account](c)
	require.NoError(t, err)

	assert.Equal(t, []string{"Audit", "Balance", "CreatedBy", "Owner"}, ct.Fields().Keys())
	assert.Equal(t, []string{"ID", "Limit", "Pin"}, ct.Properties().Keys())

	var methods []string
	for _, m := range ct.Methods().All() {
		methods = append(methods, m.Name())
	}
	assert.Equal(t, []string{"Deposit", "ID", "Limit", "SetLimit", "SetPin", "Tags"}, methods)
}

func TestType_AttributesIncludeEmbedded(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Account](c)
	require.NoError(t, err)

	attrs := ct.Attributes().Slice()
	require.Len(t, attrs, 3)
	assert.Equal(t, Entity{Table: "accounts"}, attrs[0])
	assert.Equal(t, Doc("bank account"), attrs[1])
	assert.Equal(t, Tracked{}, attrs[2])
}

func TestType_SubCachesBuiltOnce(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Account](c)
	require.NoError(t, err)

	assert.Same(t, ct.Fields(), ct.Fields())
	assert.Same(t, ct.Properties(), ct.Properties())
	assert.Same(t, ct.Methods(), ct.Methods())
	assert.Same(t, ct.Constructors(), ct.Constructors())
	assert.Same(t, ct.Attributes(), ct.Attributes())
}

func TestType_ConcurrentSubCacheAccess(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Account](c)
	require.NoError(t, err)

	const goroutines = 32

	var wg sync.WaitGroup
	start := make(chan struct{})
	fields := make([]*meta.Dictionary[*meta.Field], goroutines)
	methods := make([]*meta.Collection[*meta.Method], goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			fields[i] = ct.Fields()
			methods[i] = ct.Methods()
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, fields[0], fields[i])
		assert.Same(t, methods[0], methods[i])
	}
}

func TestDescribe(t *testing.T) {
	c := newTestCache(t)

	ct, err := meta.For[Sample](c)
	require.NoError(t, err)

	want := ct.FullName() + ": 1 constructor, 1 field, 1 property, 3 methods, 0 attributes"
	assert.Equal(t, want, meta.Describe(ct))
	assert.Equal(t, "<nil>", meta.Describe(nil))
}
