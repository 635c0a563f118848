package resolve

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordforge/field"
	"recordforge/internal/diagnostic"
)

type plain struct {
	A int
	B string  `default:"x"`
	C float64 `default:"2.5" rename:"c_val" alias:"cv|cval"`
	d int
}

func TestTableOf_ParsesDeclarations(t *testing.T) {
	diags := &diagnostic.Diagnostics{}

	tbl, err := TableOf(reflect.TypeOf(plain{}), diags)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, tbl.Order)

	b := tbl.Fields["B"]
	require.NotNil(t, b)
	assert.True(t, b.HasDefault)
	assert.Equal(t, "x", b.Default)

	c := tbl.Fields["C"]
	require.NotNil(t, c)
	assert.Equal(t, 2.5, c.Default)
	assert.Equal(t, "c_val", c.RenameTo())
	assert.Equal(t, []string{"cv", "cval"}, c.AliasNames())

	// The unexported field is reported, not resolved.
	require.Len(t, diags.Infos, 1)
	assert.Equal(t, "unexported_field", diags.Infos[0].Code)
}

func TestTableOf_CachesPerType(t *testing.T) {
	diags := &diagnostic.Diagnostics{}

	first, err := TableOf(reflect.TypeOf(plain{}), diags)
	require.NoError(t, err)

	second, err := TableOf(reflect.TypeOf(plain{}), diags)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestTableOf_RejectsNonStruct(t *testing.T) {
	_, err := TableOf(reflect.TypeOf(42), &diagnostic.Diagnostics{})
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, CodeNotStruct, rerr.Code)
}

func TestTableOf_BadDefaultLiteral(t *testing.T) {
	type bad struct {
		A int `default:"not-a-number"`
	}

	_, err := TableOf(reflect.TypeOf(bad{}), &diagnostic.Diagnostics{})
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, CodeBadDefault, rerr.Code)
}

func TestTableOf_UnknownTagOptionWarns(t *testing.T) {
	type odd struct {
		A int `record:"nosuchoption"`
	}

	diags := &diagnostic.Diagnostics{}

	_, err := TableOf(reflect.TypeOf(odd{}), diags)
	require.NoError(t, err)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "unknown_tag_option", diags.Warnings[0].Code)
}

type root struct {
	A int
	B string `default:"b"`
}

type middle struct {
	root
	C int `default:"3"`
}

type leaf struct {
	middle
	A int `default:"10"` // override keeps position 0
	D int `default:"4"`
}

func TestFlatten_MergeOrderAndOverride(t *testing.T) {
	diags := &diagnostic.Diagnostics{}

	tbl, err := TableOf(reflect.TypeOf(leaf{}), diags)
	require.NoError(t, err)

	fields, err := Flatten(tbl, nil, nil, true)
	require.NoError(t, err)

	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"A", "B", "C", "D"}, names)
	assert.Equal(t, 10, fields[0].Default)

	for i, f := range fields {
		assert.Equal(t, i, f.Index)
	}
}

func TestFlatten_OrderingInvariantCheckedAfterFullMerge(t *testing.T) {
	// B gains a default at the root; the leaf's required D then follows a
	// defaulted field in the merged order.
	type sloppy struct {
		root
		D int
	}

	tbl, err := TableOf(reflect.TypeOf(sloppy{}), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	_, err = Flatten(tbl, nil, nil, true)
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, CodeOrderConflict, rerr.Code)
	assert.Equal(t, "D", rerr.Field)

	// Keyword-only ordering mode lifts the constraint entirely.
	_, err = Flatten(tbl, nil, nil, false)
	assert.NoError(t, err)
}

func TestFlatten_CancellationRemovesAncestorField(t *testing.T) {
	type trimmed struct {
		root
		B struct{} `record:"-"`
	}

	tbl, err := TableOf(reflect.TypeOf(trimmed{}), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	fields, err := Flatten(tbl, nil, nil, true)
	require.NoError(t, err)

	require.Len(t, fields, 1)
	assert.Equal(t, "A", fields[0].Name)

	// The cached ancestor table is untouched.
	parent, err := TableOf(reflect.TypeOf(root{}), &diagnostic.Diagnostics{})
	require.NoError(t, err)
	assert.Contains(t, parent.Fields, "B")
}

func TestFlatten_OverridesAdoptDeclaredNameAndType(t *testing.T) {
	tbl, err := TableOf(reflect.TypeOf(root{}), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	overrides := map[string]*field.Spec{
		"A": field.New("A", field.KwOnly()),
	}

	fields, err := Flatten(tbl, overrides, nil, true)
	require.NoError(t, err)

	a := fields[0]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, reflect.TypeOf(0), a.GoType)
	assert.True(t, a.KwOnly)
}

func TestFlatten_OverrideKeepsDeclaredDefault(t *testing.T) {
	tbl, err := TableOf(reflect.TypeOf(root{}), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	overrides := map[string]*field.Spec{
		"B": field.New("B", field.NoRepr()),
	}

	fields, err := Flatten(tbl, overrides, nil, true)
	require.NoError(t, err)

	b := fields[1]
	assert.False(t, b.Repr)
	assert.True(t, b.HasDefault)
	assert.Equal(t, "b", b.Default)
}

func TestFlatten_InitOnlyFactoryRejected(t *testing.T) {
	type hooked struct {
		Seed int `record:"initonly"`
	}

	tbl, err := TableOf(reflect.TypeOf(hooked{}), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	overrides := map[string]*field.Spec{
		"Seed": field.New("Seed", field.InitOnly(), field.WithFactory(func() any { return 1 })),
	}

	_, err = Flatten(tbl, overrides, nil, true)
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, CodeInitOnlyFactory, rerr.Code)
}

func TestFlatten_FactoryRunsPerField(t *testing.T) {
	tbl, err := TableOf(reflect.TypeOf(root{}), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	fields, err := Flatten(tbl, nil, func(s *field.Spec) *field.Spec {
		s.Repr = false
		return s
	}, true)
	require.NoError(t, err)

	for _, f := range fields {
		assert.False(t, f.Repr)
	}
}
