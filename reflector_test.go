package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fixtures ---

type account struct {
	userName string
	age      int
}

func (a *account) GetUserName() string  { return a.userName }
func (a *account) SetUserName(v string) { a.userName = v }
func (a *account) GetAge() int          { return a.age }

type boolGet struct{}

func (boolGet) GetActive() bool { return false }

type boolIs struct{}

func (boolIs) IsActive() bool { return true }

type flags struct {
	boolGet
	boolIs
}

type ambInt struct{}

func (ambInt) GetValue() int32 { return 7 }

type ambStr struct{}

func (ambStr) GetValue() string { return "s" }

type ambiguousGetters struct {
	ambInt
	ambStr
}

type thingBase struct{}

func (thingBase) GetThing() any { return "base" }

type thingDerived struct {
	thingBase
}

func (thingDerived) GetThing() string { return "derived" }

type widgetBase struct {
	count int64
}

func (w *widgetBase) GetCount() int64  { return w.count }
func (w *widgetBase) SetCount(v int64) { w.count = v }

type widgetAlt struct{}

func (widgetAlt) SetCount(v int) {}

type widget struct {
	widgetBase
	widgetAlt
}

type sinkAny struct{}

func (sinkAny) SetData(v any) {}

type sinkStr struct{}

func (sinkStr) SetData(v string) {}

type sink struct {
	sinkAny
	sinkStr
}

type payInt struct{}

func (payInt) SetPayload(v int32) {}

type payStr struct{}

func (payStr) SetPayload(v string) {}

type payload struct {
	payInt
	payStr
}

type counter struct {
	count int
}

func (c *counter) SetCount(v int) { c.count = v }

type tagged struct {
	Locked  string `introspect:"readonly"`
	Secret  string `introspect:"-"`
	Name    string
	_hidden int
}

type person struct {
	Record
	name string
	age  int
}

func (p person) Name() string { return p.name }
func (p person) Age() int     { return p.age }

type named interface {
	GetName() string
}

type holder struct {
	named
}

type namedImpl struct{ name string }

func (n namedImpl) GetName() string { return n.name }

type baseRec struct {
	Label string
}

type derivedPtr struct {
	*baseRec
}

type vault struct {
	secretCode string
}

type fallible struct {
	fail bool
}

func (f *fallible) GetRemote() (string, error) {
	if f.fail {
		return "", errors.New("remote unavailable")
	}
	return "ok", nil
}

type celsius float64

func (c celsius) GetFahrenheit() float64 { return float64(c)*1.8 + 32 }

func metaFor(t *testing.T, v any) *TypeMetadata {
	t.Helper()
	tm, err := NewRegistry().MetadataOf(v)
	require.NoError(t, err)
	return tm
}

// --- tests ---

func TestPropertyDiscovery(t *testing.T) {
	tm := metaFor(t, &account{})

	assert.ElementsMatch(t, []string{"userName", "age"}, tm.ReadablePropertyNames())
	assert.ElementsMatch(t, []string{"userName", "age"}, tm.WritablePropertyNames())

	// every readable property resolves a getter and a non-nil declared type
	for _, name := range tm.ReadablePropertyNames() {
		inv, err := tm.GetInvoker(name)
		require.NoError(t, err)
		require.NotNil(t, inv)
		typ, err := tm.GetterType(name)
		require.NoError(t, err)
		require.NotNil(t, typ)
	}
}

func TestPropertyNotFound(t *testing.T) {
	tm := metaFor(t, &account{})

	_, err := tm.GetInvoker("missing")
	assert.ErrorIs(t, err, ErrNoGetter)

	_, err = tm.SetInvoker("missing")
	assert.ErrorIs(t, err, ErrNoSetter)

	_, err = tm.GetterType("missing")
	assert.ErrorIs(t, err, ErrNoGetter)

	_, err = tm.SetterType("missing")
	assert.ErrorIs(t, err, ErrNoSetter)

	assert.False(t, tm.HasGetter("missing"))
	assert.False(t, tm.HasSetter("missing"))
}

func TestBooleanAccessorPreference(t *testing.T) {
	tm := metaFor(t, flags{})

	typ, err := tm.GetterType("active")
	require.NoError(t, err)
	assert.Equal(t, reflect.Bool, typ.Kind())

	inv, err := tm.GetInvoker("active")
	require.NoError(t, err)
	got, err := inv.Get(flags{})
	require.NoError(t, err)
	assert.Equal(t, true, got) // the Is-prefixed accessor wins
}

func TestAmbiguousGetter(t *testing.T) {
	// construction must not fail; only invoking the bad accessor does
	tm := metaFor(t, ambiguousGetters{})

	require.True(t, tm.HasGetter("value"))
	inv, err := tm.GetInvoker("value")
	require.NoError(t, err)

	_, err = inv.Get(ambiguousGetters{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousProperty)
	assert.Contains(t, err.Error(), "value")

	// the declared type still resolves to the first candidate
	typ, err := tm.GetterType("value")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(int32(0)), typ)
}

func TestMoreSpecificGetterWins(t *testing.T) {
	tm := metaFor(t, thingDerived{})

	typ, err := tm.GetterType("thing")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), typ)

	inv, err := tm.GetInvoker("thing")
	require.NoError(t, err)
	got, err := inv.Get(thingDerived{})
	require.NoError(t, err)
	assert.Equal(t, "derived", got)
}

func TestSetterMatchingGetterTypeWins(t *testing.T) {
	tm := metaFor(t, &widget{})

	typ, err := tm.SetterType("count")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(int64(0)), typ)

	w := &widget{}
	setter, err := tm.SetInvoker("count")
	require.NoError(t, err)
	require.NoError(t, setter.Set(w, int64(42)))

	getter, err := tm.GetInvoker("count")
	require.NoError(t, err)
	got, err := getter.Get(w)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestNarrowerSetterWins(t *testing.T) {
	tm := metaFor(t, sink{})

	typ, err := tm.SetterType("data")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), typ)
}

func TestAmbiguousSetterKeepsBestEffortType(t *testing.T) {
	tm := metaFor(t, payload{})

	// the property stays writable in name, fails on use
	require.True(t, tm.HasSetter("payload"))
	setter, err := tm.SetInvoker("payload")
	require.NoError(t, err)
	err = setter.Set(&payload{}, int32(1))
	assert.ErrorIs(t, err, ErrAmbiguousProperty)

	// type lookups keep working with the first ambiguous pair's type
	typ, err := tm.SetterType("payload")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(int32(0)), typ)
}

func TestFieldFallbackForSetterOnlyMethod(t *testing.T) {
	tm := metaFor(t, &counter{})

	assert.Equal(t, []string{"count"}, tm.WritablePropertyNames())
	assert.Equal(t, []string{"count"}, tm.ReadablePropertyNames())

	c := &counter{}
	setter, err := tm.SetInvoker("count")
	require.NoError(t, err)
	require.NoError(t, setter.Set(c, 5))

	// the read side mirrors the raw field
	getter, err := tm.GetInvoker("count")
	require.NoError(t, err)
	got, err := getter.Get(c)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestTaggedFields(t *testing.T) {
	tm := metaFor(t, &tagged{})

	// readonly fields are readable but never settable
	assert.True(t, tm.HasGetter("locked"))
	assert.False(t, tm.HasSetter("locked"))

	// excluded and reserved-prefix members are not properties at all
	for _, name := range []string{"secret", "_hidden"} {
		assert.False(t, tm.HasGetter(name), name)
		assert.False(t, tm.HasSetter(name), name)
	}

	assert.True(t, tm.HasSetter("name"))
}

func TestRecordType(t *testing.T) {
	tm := metaFor(t, person{name: "ada", age: 36})

	assert.ElementsMatch(t, []string{"Name", "Age"}, tm.ReadablePropertyNames())
	assert.Empty(t, tm.WritablePropertyNames())

	// no field fallback runs for records
	assert.False(t, tm.HasGetter("name"))
	assert.False(t, tm.HasSetter("Name"))

	inv, err := tm.GetInvoker("Name")
	require.NoError(t, err)
	got, err := inv.Get(person{name: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada", got)

	canonical, ok := tm.FindPropertyName("NAME")
	require.True(t, ok)
	assert.Equal(t, "Name", canonical)
}

func TestCaseInsensitiveLookup(t *testing.T) {
	tm := metaFor(t, &account{})

	for _, query := range []string{"USERNAME", "UserName", "username"} {
		canonical, ok := tm.FindPropertyName(query)
		require.True(t, ok, query)
		assert.Equal(t, "userName", canonical)
	}

	_, ok := tm.FindPropertyName("nothere")
	assert.False(t, ok)
}

func TestEmbeddedInterfaceAccessor(t *testing.T) {
	tm := metaFor(t, holder{})

	require.True(t, tm.HasGetter("name"))
	inv, err := tm.GetInvoker("name")
	require.NoError(t, err)

	got, err := inv.Get(holder{named: namedImpl{name: "nell"}})
	require.NoError(t, err)
	assert.Equal(t, "nell", got)

	// a nil embedded interface fails on invocation, not on build
	_, err = inv.Get(holder{})
	assert.Error(t, err)
}

func TestEmbeddedPointerAncestor(t *testing.T) {
	tm := metaFor(t, &derivedPtr{})

	require.True(t, tm.HasSetter("label"))
	setter, err := tm.SetInvoker("label")
	require.NoError(t, err)

	// writing allocates the nil embedded pointer on the way down
	d := &derivedPtr{}
	require.NoError(t, setter.Set(d, "tagged"))
	require.NotNil(t, d.baseRec)
	assert.Equal(t, "tagged", d.Label)

	// reading through a nil embedded pointer is an error
	getter, err := tm.GetInvoker("label")
	require.NoError(t, err)
	_, err = getter.Get(&derivedPtr{})
	assert.Error(t, err)
}

func TestUnexportedFieldAccess(t *testing.T) {
	r := NewRegistry()
	require.True(t, r.CanBypassVisibility())

	tm, err := r.MetadataOf(&vault{})
	require.NoError(t, err)

	v := &vault{}
	setter, err := tm.SetInvoker("secretCode")
	require.NoError(t, err)
	require.NoError(t, setter.Set(v, "0000"))
	assert.Equal(t, "0000", v.secretCode)

	getter, err := tm.GetInvoker("secretCode")
	require.NoError(t, err)
	got, err := getter.Get(v)
	require.NoError(t, err)
	assert.Equal(t, "0000", got)
}

func TestGetterWithTrailingError(t *testing.T) {
	tm := metaFor(t, &fallible{})

	inv, err := tm.GetInvoker("remote")
	require.NoError(t, err)

	got, err := inv.Get(&fallible{})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	_, err = inv.Get(&fallible{fail: true})
	require.EqualError(t, err, "remote unavailable")
}

func TestNonStructOwner(t *testing.T) {
	tm := metaFor(t, celsius(100))

	assert.Equal(t, []string{"fahrenheit"}, tm.ReadablePropertyNames())
	inv, err := tm.GetInvoker("fahrenheit")
	require.NoError(t, err)
	got, err := inv.Get(celsius(100))
	require.NoError(t, err)
	assert.Equal(t, float64(212), got)
}

func TestDefaultConstructor(t *testing.T) {
	tm := metaFor(t, &account{})
	require.True(t, tm.HasDefaultConstructor())
	ctor, err := tm.DefaultConstructor()
	require.NoError(t, err)
	created, ok := ctor().(*account)
	require.True(t, ok)
	assert.NotNil(t, created)

	itm, err := NewRegistry().MetadataFor(reflect.TypeOf((*fmt.Stringer)(nil)).Elem())
	require.NoError(t, err)
	assert.False(t, itm.HasDefaultConstructor())
	_, err = itm.DefaultConstructor()
	assert.ErrorIs(t, err, ErrNoDefaultConstructor)
}

func TestPointerTypeResolvesToElement(t *testing.T) {
	r := NewRegistry()
	byPtr, err := r.MetadataFor(reflect.TypeOf(&account{}))
	require.NoError(t, err)
	byVal, err := r.MetadataFor(reflect.TypeOf(account{}))
	require.NoError(t, err)
	assert.Same(t, byPtr, byVal)
}
