package serde

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordforge/field"
	"recordforge/internal/resolve"
	"recordforge/record"
	"recordforge/typexpr"
)

type user struct {
	ID    int
	Email string `rename:"email" alias:"mail|e_mail"`
	Note  string `default:""`
}

func userSchema(t *testing.T) *record.Schema {
	t.Helper()

	cfg := record.DefaultConfig()
	cfg.Name = "User"

	schema, err := record.New(user{}, cfg)
	require.NoError(t, err)

	return schema
}

func TestToMap_RenamesKeys(t *testing.T) {
	schema := userSchema(t)

	inst, err := schema.New(1, "a@b.c", "hi")
	require.NoError(t, err)

	m, err := ToMap(inst, Unlimited)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ID": 1, "email": "a@b.c", "Note": "hi"}, m)
}

func TestFromMap_AcceptsRenameNameAndAliases(t *testing.T) {
	schema := userSchema(t)

	for _, key := range []string{"email", "Email", "mail", "e_mail"} {
		inst, err := FromMap(schema, map[string]any{"ID": 1, key: "a@b.c"}, false)
		require.NoError(t, err, key)

		v, _ := inst.FieldValue("Email")
		assert.Equal(t, "a@b.c", v)
	}
}

func TestFromMap_UnknownKeySuggestsClosest(t *testing.T) {
	schema := userSchema(t)

	_, err := FromMap(schema, map[string]any{"ID": 1, "emial": "a@b.c"}, false)
	require.Error(t, err)

	var uerr *UnknownKeyError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "emial", uerr.Key)
	assert.Equal(t, "email", uerr.Suggestion)

	inst, err := FromMap(schema, map[string]any{"ID": 1, "email": "a@b.c", "junk": 0}, true)
	require.NoError(t, err)
	assert.False(t, inst.Has("junk"))
}

func TestRoundTrip_MapPreservesEquality(t *testing.T) {
	schema := userSchema(t)

	orig, err := schema.New(7, "x@y.z", "note")
	require.NoError(t, err)

	m, err := ToMap(orig, Unlimited)
	require.NoError(t, err)

	back, err := FromMap(schema, m, false)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
}

func TestToMap_SkipRules(t *testing.T) {
	type audited struct {
		Name   string
		Secret string `default:"s3cr3t"`
		Count  int    `default:"0"`
		State  string `default:"idle"`
	}

	cfg := record.DefaultConfig()
	cfg.Name = "Audited"
	cfg.Fields = []*field.Spec{
		field.New("Secret", field.Skip(), field.Default("s3cr3t")),
		field.New("Count", field.SkipIfFalse(), field.Default(0)),
		field.New("State", field.SkipIfDefault(), field.Default("idle")),
	}

	schema, err := record.New(audited{}, cfg)
	require.NoError(t, err)

	inst, err := schema.New("n")
	require.NoError(t, err)

	m, err := ToMap(inst, Unlimited)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "n"}, m)

	inst, err = schema.New("n", "other", 2, "busy")
	require.NoError(t, err)

	m, err = ToMap(inst, Unlimited)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "n", "Count": 2, "State": "busy"}, m)
}

func TestToMap_SkipIfPredicate(t *testing.T) {
	type doc struct {
		Title string
		Draft string `default:""`
	}

	cfg := record.DefaultConfig()
	cfg.Name = "Doc"
	cfg.Fields = []*field.Spec{
		field.New("Draft",
			field.SkipIf(func(v any) bool { return v == "wip" }),
			field.Default("")),
	}

	schema, err := record.New(doc{}, cfg)
	require.NoError(t, err)

	inst, err := schema.New("t", "wip")
	require.NoError(t, err)

	m, err := ToMap(inst, Unlimited)
	require.NoError(t, err)
	assert.NotContains(t, m, "Draft")
}

func TestCheckRules_Conflicts(t *testing.T) {
	collide := []*field.Spec{
		field.New("A", field.Rename("k")),
		field.New("B", field.Rename("k")),
	}

	err := CheckRules(collide)
	require.Error(t, err)

	var rerr *resolve.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, resolve.CodeRenameCollision, rerr.Code)

	conflicted := []*field.Spec{
		field.New("A", field.Skip(), field.SkipIfFalse()),
	}

	err = CheckRules(conflicted)
	require.Error(t, err)
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, resolve.CodeSkipConflict, rerr.Code)
}

func TestFromSeq_BackfillOrder(t *testing.T) {
	type row struct {
		A int
		B int `default:"20"`
		C int `default:"30"`
		D int `default:"40"`
	}

	cfg := record.DefaultConfig()
	cfg.Name = "Row"
	cfg.Fields = []*field.Spec{
		// B carries a skip rule, so it back-fills after C and D.
		field.New("B", field.SkipIfFalse(), field.Default(20)),
	}

	schema, err := record.New(row{}, cfg)
	require.NoError(t, err)

	// One value: only the required A.
	inst, err := FromSeq(schema, []any{1})
	require.NoError(t, err)
	assertValues(t, inst, map[string]any{"A": 1, "B": 20, "C": 30, "D": 40})

	// Three values: A, then C and D; the skip-ruled B keeps its default.
	inst, err = FromSeq(schema, []any{1, 2, 3})
	require.NoError(t, err)
	assertValues(t, inst, map[string]any{"A": 1, "B": 20, "C": 2, "D": 3})

	// Full sequence reaches B last.
	inst, err = FromSeq(schema, []any{1, 2, 3, 4})
	require.NoError(t, err)
	assertValues(t, inst, map[string]any{"A": 1, "B": 4, "C": 2, "D": 3})

	_, err = FromSeq(schema, []any{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, record.ErrTooManyArgs)
}

func assertValues(t *testing.T, inst *record.Instance, want map[string]any) {
	t.Helper()

	for name, expected := range want {
		v, ok := inst.FieldValue(name)
		require.True(t, ok, name)
		assert.Equal(t, expected, v, name)
	}
}

func TestFromValue_DispatchesOnShape(t *testing.T) {
	schema := userSchema(t)

	inst, err := FromValue(schema, map[string]any{"ID": 1, "email": "a@b.c"})
	require.NoError(t, err)

	same, err := FromValue(schema, inst)
	require.NoError(t, err)
	assert.Same(t, inst, same)

	inst, err = FromValue(schema, []any{2, "b@c.d"})
	require.NoError(t, err)

	v, _ := inst.FieldValue("ID")
	assert.Equal(t, 2, v)
}

type address struct {
	City string
	Zip  string `default:""`
}

type person struct {
	Name string
	Home any
}

func nestedSchemas(t *testing.T) (*record.Schema, *record.Schema) {
	t.Helper()

	acfg := record.DefaultConfig()
	acfg.Name = "Address"

	addr, err := record.New(address{}, acfg)
	require.NoError(t, err)

	pcfg := record.DefaultConfig()
	pcfg.Name = "Person"
	pcfg.Fields = []*field.Spec{
		field.New("Home", field.Typed(typexpr.Record(addr))),
	}

	pers, err := record.New(person{}, pcfg)
	require.NoError(t, err)

	return pers, addr
}

func TestToMap_NestedInstancesFlatten(t *testing.T) {
	pers, addr := nestedSchemas(t)

	home, err := addr.New("Berlin", "10115")
	require.NoError(t, err)

	inst, err := pers.New("Ada", home)
	require.NoError(t, err)

	m, err := ToMap(inst, Unlimited)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"Name": "Ada",
		"Home": map[string]any{"City": "Berlin", "Zip": "10115"},
	}, m)

	// Depth 1 keeps the nested instance embedded.
	m, err = ToMap(inst, 1)
	require.NoError(t, err)
	assert.Same(t, home, m["Home"])
}

func TestFromMap_LiftsNestedMappings(t *testing.T) {
	pers, addr := nestedSchemas(t)

	inst, err := FromMap(pers, map[string]any{
		"Name": "Ada",
		"Home": map[string]any{"City": "Berlin"},
	}, false)
	require.NoError(t, err)

	home, _ := inst.FieldValue("Home")
	require.IsType(t, &record.Instance{}, home)
	assert.Same(t, addr, home.(*record.Instance).Schema())
}

func TestJSONRoundTrip(t *testing.T) {
	schema := userSchema(t)

	inst, err := schema.New(1, "a@b.c", "n")
	require.NoError(t, err)

	data, err := MarshalJSON(inst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"email":"a@b.c"`)

	back, err := UnmarshalJSON(schema, data)
	require.NoError(t, err)

	v, _ := back.FieldValue("Email")
	assert.Equal(t, "a@b.c", v)
}

func TestYAMLRoundTrip(t *testing.T) {
	schema := userSchema(t)

	inst, err := schema.New(1, "a@b.c", "n")
	require.NoError(t, err)

	data, err := MarshalYAML(inst)
	require.NoError(t, err)

	back, err := UnmarshalYAML(schema, data)
	require.NoError(t, err)

	v, _ := back.FieldValue("Email")
	assert.Equal(t, "a@b.c", v)
}

func TestTOMLRoundTrip(t *testing.T) {
	schema := userSchema(t)

	inst, err := schema.New(1, "a@b.c", "n")
	require.NoError(t, err)

	data, err := MarshalTOML(inst)
	require.NoError(t, err)

	back, err := UnmarshalTOML(schema, data)
	require.NoError(t, err)

	v, _ := back.FieldValue("Email")
	assert.Equal(t, "a@b.c", v)
}

func TestXMLRoundTrip(t *testing.T) {
	type label struct {
		Name string
		Tags []any `record:"nohash"`
	}

	cfg := record.DefaultConfig()
	cfg.Name = "Label"

	schema, err := record.New(label{}, cfg)
	require.NoError(t, err)

	inst, err := schema.New("box", []any{"red", "blue"})
	require.NoError(t, err)

	data, err := MarshalXML(inst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Label>")
	assert.Contains(t, string(data), "<Tags>red</Tags>")

	back, err := UnmarshalXML(schema, data)
	require.NoError(t, err)

	name, _ := back.FieldValue("Name")
	assert.Equal(t, "box", name)

	tags, _ := back.FieldValue("Tags")
	assert.Equal(t, []any{"red", "blue"}, tags)
}
