package validate

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordforge/field"
	"recordforge/options"
	"recordforge/record"
	"recordforge/typexpr"
)

func TestCompile_None(t *testing.T) {
	fn := MustCompile(typexpr.None(), Options{})

	v, err := fn(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = fn(1)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindType, verr.Kind)
}

func TestCompile_AnyPassesThrough(t *testing.T) {
	fn := MustCompile(typexpr.Any(), Options{})

	v, err := fn("anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", v)
}

func TestCompile_ConcreteStrict(t *testing.T) {
	fn := MustCompile(typexpr.Of[int](), Options{})

	v, err := fn(1)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = fn(1.5)
	require.Error(t, err)

	_, err = fn("1")
	require.Error(t, err)
}

func TestCompile_ConcreteCoercion(t *testing.T) {
	opts := Options{Coerce: options.CoerceAll}
	fn := MustCompile(typexpr.Of[int](), opts)

	v, err := fn(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = fn("42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = fn("not a number")
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindCoercion, verr.Kind)

	boolFn := MustCompile(typexpr.Of[bool](), opts)

	v, err = boolFn("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestCompile_ConvertNamedTypes(t *testing.T) {
	type userID int64

	fn := MustCompile(typexpr.Of[userID](), Options{Coerce: options.CoerceConvert})

	v, err := fn(int64(5))
	require.NoError(t, err)
	assert.Equal(t, userID(5), v)
}

func TestCompile_Literal(t *testing.T) {
	fn := MustCompile(typexpr.Literal("on", "off"), Options{})

	v, err := fn("on")
	require.NoError(t, err)
	assert.Equal(t, "on", v)

	_, err = fn("maybe")
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindMember, verr.Kind)
}

func TestCompile_EnumMemberCoercion(t *testing.T) {
	members := map[string]any{"red": 1, "green": 2}

	strict := MustCompile(typexpr.EnumOf(members), Options{})

	v, err := strict(2)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = strict("red")
	require.Error(t, err)

	loose := MustCompile(typexpr.EnumOf(members), Options{Coerce: options.CoerceEnumMember})

	// Lookup by name first, then by value.
	v, err = loose("red")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = loose("blue")
	require.Error(t, err)
}

func TestCompile_UnionScenario(t *testing.T) {
	cfg := record.DefaultConfig()
	cfg.Name = "UnionHolder"

	schema := record.MustNew(struct {
		A any
	}{}, cfg)

	union := typexpr.Union(typexpr.Of[int](), typexpr.Of[string]())

	f, ok := schema.Field("A")
	require.True(t, ok)
	f.Type = union

	require.NoError(t, Apply(schema, Options{}))

	_, err := schema.New(1)
	assert.NoError(t, err)

	_, err = schema.New("x")
	assert.NoError(t, err)

	_, err = schema.New(1.5)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindUnion, verr.Kind)
	assert.Equal(t, []string{"A"}, verr.Path)
}

func TestCompile_UnionStrictRejectsCoercibleValues(t *testing.T) {
	fn := MustCompile(typexpr.Union(typexpr.Of[int](), typexpr.Of[string]()), Options{})

	_, err := fn(1.5)
	require.Error(t, err)

	loose := MustCompile(typexpr.Union(typexpr.Of[int](), typexpr.Of[string]()),
		Options{Coerce: options.CoerceAll})

	v, err := loose(1.5)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestCompile_Optional(t *testing.T) {
	fn := MustCompile(typexpr.Optional(typexpr.Of[string]()), Options{})

	v, err := fn(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = fn("s")
	require.NoError(t, err)
	assert.Equal(t, "s", v)
}

func TestCompile_VariadicTupleScenario(t *testing.T) {
	fn := MustCompile(typexpr.Variadic(typexpr.Of[int]()), Options{})

	v, err := fn(Tuple{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Tuple{1, 2, 3}, v)

	// Wrong container with coercion disabled.
	_, err = fn([]any{1, 2, 3})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindType, verr.Kind)

	loose := MustCompile(typexpr.Variadic(typexpr.Of[int]()), Options{Coerce: options.CoerceContainer})

	v, err = loose([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, Tuple{1, 2}, v)
}

func TestCompile_FixedTupleArity(t *testing.T) {
	fn := MustCompile(typexpr.TupleOf(typexpr.Of[int](), typexpr.Of[string]()), Options{})

	v, err := fn(Tuple{1, "a"})
	require.NoError(t, err)
	assert.Equal(t, Tuple{1, "a"}, v)

	_, err = fn(Tuple{1})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindLength, verr.Kind)

	_, err = fn(Tuple{1, "a", "b"})
	assert.Error(t, err)

	_, err = fn(Tuple{1, 2})
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"1"}, verr.Path)
}

func TestCompile_SeqRebuildsTypedContainer(t *testing.T) {
	fn := MustCompile(typexpr.SeqOf(typexpr.Of[int](), reflect.TypeOf([]int{})), Options{})

	v, err := fn([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	_, err = fn("text")
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindContainer, verr.Kind)

	_, err = fn([]any{1, "x"})
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"1"}, verr.Path)
}

func TestCompile_SetDeduplicates(t *testing.T) {
	fn := MustCompile(typexpr.SetOf(typexpr.Of[int]()), Options{})

	v, err := fn([]int{1, 2, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, v)
}

func TestCompile_MapValidatesKeysAndValues(t *testing.T) {
	fn := MustCompile(
		typexpr.MapOf(typexpr.Of[string](), typexpr.Of[int](), reflect.TypeOf(map[string]int{})),
		Options{})

	v, err := fn(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, v)

	_, err = fn(map[string]any{"a": "x"})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"a"}, verr.Path)

	_, err = fn([]int{1})
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindContainer, verr.Kind)
}

func TestCompile_AnnotatedRunsPreBasePost(t *testing.T) {
	var trace []string

	pre := func(v any) (any, error) {
		trace = append(trace, "pre")
		return v, nil
	}
	post := func(v any) (any, error) {
		trace = append(trace, "post")

		if v.(int) < 0 {
			return nil, fmt.Errorf("must be non-negative")
		}

		return v, nil
	}

	fn := MustCompile(typexpr.Annotated(typexpr.Of[int](),
		[]typexpr.ValidatorFunc{pre}, []typexpr.ValidatorFunc{post}), Options{})

	v, err := fn(3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, []string{"pre", "post"}, trace)

	_, err = fn(-1)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindUser, verr.Kind)
}

func TestCompile_Subtype(t *testing.T) {
	fn := MustCompile(typexpr.SubtypeOf(reflect.TypeOf((*error)(nil)).Elem()), Options{})

	v, err := fn(reflect.TypeOf(&Error{}))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(&Error{}), v)

	_, err = fn(reflect.TypeOf(0))
	require.Error(t, err)

	_, err = fn("not a type")
	require.Error(t, err)
}

func TestCompile_RecordCoercion(t *testing.T) {
	type inner struct {
		X int
		Y int `default:"2"`
	}

	cfg := record.DefaultConfig()
	cfg.Name = "CoercedInner"

	schema := record.MustNew(inner{}, cfg)

	strict := MustCompile(typexpr.Record(schema), Options{})

	inst, err := schema.New(1)
	require.NoError(t, err)

	v, err := strict(inst)
	require.NoError(t, err)
	assert.Same(t, inst, v)

	_, err = strict(map[string]any{"X": 1})
	require.Error(t, err)

	loose := MustCompile(typexpr.Record(schema), Options{Coerce: options.CoerceRecord})

	v, err = loose(map[string]any{"X": 5})
	require.NoError(t, err)

	x, _ := v.(*record.Instance).FieldValue("X")
	assert.Equal(t, 5, x)

	v, err = loose([]any{7, 8})
	require.NoError(t, err)

	y, _ := v.(*record.Instance).FieldValue("Y")
	assert.Equal(t, 8, y)
}

func TestCompile_RefResolvesLazily(t *testing.T) {
	fn := MustCompile(typexpr.Ref("LazyTarget"), Options{Coerce: options.CoerceRecord})

	cfg := record.DefaultConfig()
	cfg.Name = "LazyTarget"

	schema := record.MustNew(struct{ V int }{}, cfg)

	v, err := fn(map[string]any{"V": 1})
	require.NoError(t, err)
	assert.Same(t, schema, v.(*record.Instance).Schema())
}

func TestCompile_RefFailureIsHard(t *testing.T) {
	fn := MustCompile(typexpr.Ref("NeverDefined"), Options{})

	_, err := fn(1)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindUnknown, verr.Kind)

	// Memoized: still failing on later calls.
	_, err = fn(1)
	assert.Error(t, err)
}

func TestCompile_SelfReferentialSchema(t *testing.T) {
	type node struct {
		V    int
		Next any
	}

	cfg := record.DefaultConfig()
	cfg.Name = "ListNode"
	cfg.Fields = []*field.Spec{
		field.New("Next",
			field.Typed(typexpr.Optional(typexpr.Ref("ListNode"))),
			field.Default(nil)),
	}

	schema, err := record.New(node{}, cfg)
	require.NoError(t, err)
	require.NoError(t, Apply(schema, Options{Coerce: options.CoerceRecord}))

	inst, err := schema.NewKw(record.Kwargs{
		"V":    1,
		"Next": map[string]any{"V": 2, "Next": nil},
	})
	require.NoError(t, err)

	next, _ := inst.FieldValue("Next")
	require.IsType(t, &record.Instance{}, next)

	v, _ := next.(*record.Instance).FieldValue("V")
	assert.Equal(t, 2, v)
}

func TestRegister_ChainRunsBeforeBuiltin(t *testing.T) {
	type port int

	Register(reflect.TypeOf(port(0)), func(v any) (any, error) {
		p, ok := v.(port)
		if !ok {
			return v, nil
		}

		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("port out of range")
		}

		return p, nil
	})

	fn := MustCompile(typexpr.Of[port](), Options{})

	v, err := fn(port(80))
	require.NoError(t, err)
	assert.Equal(t, port(80), v)

	_, err = fn(port(0))
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindUser, verr.Kind)
}

func TestApply_Idempotent(t *testing.T) {
	type counted struct {
		N int
	}

	cfg := record.DefaultConfig()
	cfg.Name = "Counted"

	schema := record.MustNew(counted{}, cfg)

	require.NoError(t, Apply(schema, Options{}))
	require.NoError(t, Apply(schema, Options{}))

	inst, err := schema.New(1)
	require.NoError(t, err)

	n, _ := inst.FieldValue("N")
	assert.Equal(t, 1, n)

	_, err = schema.New("nope")
	assert.Error(t, err)
}

func TestApply_ComposesUserValidator(t *testing.T) {
	type bounded struct {
		N int
	}

	cfg := record.DefaultConfig()
	cfg.Name = "Bounded"
	cfg.Fields = []*field.Spec{
		field.New("N", field.Validate(func(v any) (any, error) {
			if v.(int) > 10 {
				return nil, fmt.Errorf("too large")
			}

			return v, nil
		})),
	}

	schema := record.MustNew(bounded{}, cfg)
	require.NoError(t, Apply(schema, Options{}))

	_, err := schema.New(5)
	assert.NoError(t, err)

	_, err = schema.New(11)
	assert.Error(t, err)

	_, err = schema.New("x")
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindType, verr.Kind)
}
