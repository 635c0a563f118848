// Package validate compiles declared field types into validator functions
// and wires them into record constructors. Validators check shape, walk
// nested containers, and optionally coerce inputs into the declared type.
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"recordforge/internal/synth"
	"recordforge/options"
	"recordforge/record"
	"recordforge/typexpr"
)

// Options configures validator compilation.
type Options struct {
	// Coerce selects the coercion families validators may attempt when a
	// value is not already an instance of its declared type.
	Coerce options.CoerceEnum
}

// Compile builds a validator for a type expression. Compilation is eager
// for every shape except deferred references, which resolve lazily and
// memoize on first use.
func Compile(x *typexpr.Expr, opts Options) (typexpr.ValidatorFunc, error) {
	if x == nil {
		return nil, fmt.Errorf("cannot compile validator for nil type expression")
	}

	switch x.Kind {
	case typexpr.KindNone:
		return compileNone(), nil
	case typexpr.KindAny:
		return func(v any) (any, error) { return v, nil }, nil
	case typexpr.KindConcrete:
		return compileConcrete(x.Type, opts), nil
	case typexpr.KindLiteral:
		return compileLiteral(x), nil
	case typexpr.KindEnum:
		return compileEnum(x, opts), nil
	case typexpr.KindUnion:
		return compileUnion(x, opts)
	case typexpr.KindTuple:
		return compileTuple(x, opts)
	case typexpr.KindSeq:
		return compileSeq(x, opts)
	case typexpr.KindSet:
		return compileSet(x, opts)
	case typexpr.KindMap:
		return compileMap(x, opts)
	case typexpr.KindRef:
		return compileRef(x, opts), nil
	case typexpr.KindAnnotated:
		return compileAnnotated(x, opts)
	case typexpr.KindSubtype:
		return compileSubtype(x), nil
	case typexpr.KindRecord:
		schema, ok := x.Schema.(*record.Schema)
		if !ok {
			return nil, fmt.Errorf("record expression holds %T, not a schema", x.Schema)
		}

		return compileRecord(schema, opts), nil
	default:
		return nil, fmt.Errorf("cannot compile validator for %s expression", x.Kind)
	}
}

// MustCompile is Compile, panicking on error.
func MustCompile(x *typexpr.Expr, opts Options) typexpr.ValidatorFunc {
	fn, err := Compile(x, opts)
	if err != nil {
		panic(err)
	}

	return fn
}

func compileNone() typexpr.ValidatorFunc {
	return func(v any) (any, error) {
		if v != nil {
			return nil, newError(KindType, "none", v, "value is not nil")
		}

		return nil, nil
	}
}

// compileConcrete checks plain Go types. Registered per-type validator
// chains run first, in registration order; the builtin check follows.
func compileConcrete(t reflect.Type, opts Options) typexpr.ValidatorFunc {
	return func(v any) (any, error) {
		for _, fn := range chainFor(t) {
			checked, err := fn(v)
			if err != nil {
				if _, structured := err.(*Error); structured {
					return nil, err
				}

				return nil, newError(KindUser, t.String(), v, "%v", err)
			}

			v = checked
		}

		return coerceConcrete(t, v, opts.Coerce)
	}
}

func coerceConcrete(t reflect.Type, v any, co options.CoerceEnum) (any, error) {
	if v == nil {
		return nil, newError(KindType, t.String(), v, "value is nil")
	}

	rv := reflect.ValueOf(v)
	if rv.Type() == t || rv.Type().AssignableTo(t) {
		return v, nil
	}

	src, dst := rv.Type().Kind(), t.Kind()

	switch {
	case co.Has(options.CoerceNumber) && isNumeric(src) && isNumeric(dst):
		return rv.Convert(t).Interface(), nil

	case co.Has(options.CoerceTextNumber) && src == reflect.String && isNumeric(dst):
		return parseNumeric(t, rv.String(), v)

	case co.Has(options.CoerceTextNumber) && isNumeric(src) && dst == reflect.String:
		return reflect.ValueOf(fmt.Sprintf("%v", v)).Convert(t).Interface(), nil

	case co.Has(options.CoerceTextBool) && src == reflect.String && dst == reflect.Bool:
		b, err := strconv.ParseBool(rv.String())
		if err != nil {
			return nil, newError(KindCoercion, t.String(), v, "not a boolean text: %v", err)
		}

		return b, nil

	case co.Has(options.CoerceTextBool) && src == reflect.Bool && dst == reflect.String:
		return strconv.FormatBool(rv.Bool()), nil

	case co.Has(options.CoerceConvert) && rv.Type().ConvertibleTo(t) &&
		!(src == reflect.String && isNumeric(dst)) && !(isNumeric(src) && dst == reflect.String):
		return rv.Convert(t).Interface(), nil
	}

	return nil, newError(KindType, t.String(), v, "value is not an instance")
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func parseNumeric(t reflect.Type, s string, orig any) (any, error) {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, newError(KindCoercion, t.String(), orig, "not a number text: %v", err)
		}

		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, newError(KindCoercion, t.String(), orig, "not a number text: %v", err)
		}

		return reflect.ValueOf(n).Convert(t).Interface(), nil
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, newError(KindCoercion, t.String(), orig, "not a number text: %v", err)
		}

		return reflect.ValueOf(n).Convert(t).Interface(), nil
	}
}

func compileLiteral(x *typexpr.Expr) typexpr.ValidatorFunc {
	expected := x.String()

	return func(v any) (any, error) {
		for _, lit := range x.Literals {
			if synth.ValueEqual(v, lit) {
				return lit, nil
			}
		}

		return nil, newError(KindMember, expected, v, "value is not an accepted literal")
	}
}

// compileEnum accepts member values; with member coercion enabled, lookup
// goes by member name first, then by value.
func compileEnum(x *typexpr.Expr, opts Options) typexpr.ValidatorFunc {
	expected := x.String()

	return func(v any) (any, error) {
		for _, member := range x.Members {
			if v == member {
				return member, nil
			}
		}

		if !opts.Coerce.Has(options.CoerceEnumMember) {
			return nil, newError(KindMember, expected, v, "value is not an enum member")
		}

		if name, ok := v.(string); ok {
			if member, found := x.Members[name]; found {
				return member, nil
			}
		}

		for _, member := range x.Members {
			if synth.ValueEqual(v, member) {
				return member, nil
			}
		}

		return nil, newError(KindMember, expected, v, "no member with this name or value")
	}
}

// compileUnion tries alternatives in declared order. Values that already
// satisfy a non-composite alternative pass unchanged; with coercion
// disabled, anything else fails immediately rather than attempting
// ambiguous cross-alternative coercion.
func compileUnion(x *typexpr.Expr, opts Options) (typexpr.ValidatorFunc, error) {
	expected := x.String()

	alts := make([]typexpr.ValidatorFunc, 0, len(x.Items))
	for _, item := range x.Items {
		fn, err := Compile(item, opts)
		if err != nil {
			return nil, err
		}

		alts = append(alts, fn)
	}

	return func(v any) (any, error) {
		for _, item := range x.Items {
			if !item.Composite() && instanceOf(item, v) {
				return v, nil
			}
		}

		if opts.Coerce == options.CoerceNone {
			for i, item := range x.Items {
				if !item.Composite() {
					continue
				}

				if checked, err := alts[i](v); err == nil {
					return checked, nil
				}
			}

			return nil, newError(KindUnion, expected, v, "value matches no alternative")
		}

		for _, fn := range alts {
			if checked, err := fn(v); err == nil {
				return checked, nil
			}
		}

		return nil, newError(KindUnion, expected, v, "no alternative accepted the value")
	}, nil
}

// instanceOf is the strict membership check used by union fast paths.
func instanceOf(x *typexpr.Expr, v any) bool {
	switch x.Kind {
	case typexpr.KindNone:
		return v == nil
	case typexpr.KindAny:
		return true
	case typexpr.KindConcrete:
		if v == nil {
			return false
		}

		rt := reflect.TypeOf(v)

		return rt == x.Type || rt.AssignableTo(x.Type)
	case typexpr.KindLiteral:
		for _, lit := range x.Literals {
			if synth.ValueEqual(v, lit) {
				return true
			}
		}

		return false
	case typexpr.KindEnum:
		for _, member := range x.Members {
			if v == member {
				return true
			}
		}

		return false
	case typexpr.KindSubtype:
		t, ok := v.(reflect.Type)
		return ok && subtypeOf(t, x.Type)
	default:
		return false
	}
}

func compileTuple(x *typexpr.Expr, opts Options) (typexpr.ValidatorFunc, error) {
	expected := x.String()

	items := make([]typexpr.ValidatorFunc, 0, len(x.Items))
	for _, item := range x.Items {
		fn, err := Compile(item, opts)
		if err != nil {
			return nil, err
		}

		items = append(items, fn)
	}

	fixed := len(items)
	if x.Variadic {
		fixed--
	}

	return func(v any) (any, error) {
		elems, ok := v.(Tuple)
		if !ok {
			if !opts.Coerce.Has(options.CoerceContainer) {
				return nil, newError(KindType, expected, v, "value is not a tuple")
			}

			elems, ok = asTuple(v)
			if !ok {
				return nil, newError(KindContainer, expected, v, "value is not a sequence")
			}
		}

		if len(elems) < fixed || (!x.Variadic && len(elems) > fixed) {
			return nil, newError(KindLength, expected, v,
				"expected %d positions, got %d", fixed, len(elems))
		}

		out := make(Tuple, len(elems))

		for i, elem := range elems {
			fn := items[len(items)-1]
			if i < fixed {
				fn = items[i]
			}

			checked, err := fn(elem)
			if err != nil {
				return nil, pushPath(err, strconv.Itoa(i))
			}

			out[i] = checked
		}

		return out, nil
	}, nil
}

func asTuple(v any) (Tuple, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}

	out := make(Tuple, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

func compileSeq(x *typexpr.Expr, opts Options) (typexpr.ValidatorFunc, error) {
	expected := x.String()

	elemFn, err := Compile(x.Elem, opts)
	if err != nil {
		return nil, err
	}

	return func(v any) (any, error) {
		elems, ok := iterate(v)
		if !ok {
			return nil, newError(KindContainer, expected, v, "value is not a non-text sequence")
		}

		out := make([]any, len(elems))

		for i, elem := range elems {
			checked, err := elemFn(elem)
			if err != nil {
				return nil, pushPath(err, strconv.Itoa(i))
			}

			out[i] = checked
		}

		return rebuildSeq(x.Type, out), nil
	}, nil
}

func compileSet(x *typexpr.Expr, opts Options) (typexpr.ValidatorFunc, error) {
	expected := x.String()

	elemFn, err := Compile(x.Elem, opts)
	if err != nil {
		return nil, err
	}

	return func(v any) (any, error) {
		elems, ok := iterate(v)
		if !ok {
			return nil, newError(KindContainer, expected, v, "value is not a non-text sequence")
		}

		out := make([]any, 0, len(elems))

		for i, elem := range elems {
			checked, err := elemFn(elem)
			if err != nil {
				return nil, pushPath(err, strconv.Itoa(i))
			}

			if !containsValue(out, checked) {
				out = append(out, checked)
			}
		}

		return out, nil
	}, nil
}

func containsValue(values []any, v any) bool {
	for _, existing := range values {
		if synth.ValueEqual(existing, v) {
			return true
		}
	}

	return false
}

// iterate materializes a sequence value. Strings and byte slices do not
// count as sequences.
func iterate(v any) ([]any, bool) {
	if t, ok := v.(Tuple); ok {
		return t, true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}

		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}

		return out, true
	default:
		return nil, false
	}
}

// rebuildSeq reassembles validated elements into the declared container
// type when every element fits it, generic []any otherwise.
func rebuildSeq(t reflect.Type, elems []any) any {
	if t == nil || t.Kind() != reflect.Slice {
		return elems
	}

	out := reflect.MakeSlice(t, len(elems), len(elems))

	for i, elem := range elems {
		ev := reflect.ValueOf(elem)
		if !ev.IsValid() || !ev.Type().AssignableTo(t.Elem()) {
			return elems
		}

		out.Index(i).Set(ev)
	}

	return out.Interface()
}

func compileMap(x *typexpr.Expr, opts Options) (typexpr.ValidatorFunc, error) {
	expected := x.String()

	keyFn, err := Compile(x.Key, opts)
	if err != nil {
		return nil, err
	}

	valFn, err := Compile(x.Elem, opts)
	if err != nil {
		return nil, err
	}

	return func(v any) (any, error) {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.Map {
			return nil, newError(KindContainer, expected, v, "value is not a mapping")
		}

		out := make(map[any]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			key, err := keyFn(iter.Key().Interface())
			if err != nil {
				return nil, pushPath(err, fmt.Sprintf("%v", iter.Key().Interface()))
			}

			val, err := valFn(iter.Value().Interface())
			if err != nil {
				return nil, pushPath(err, fmt.Sprintf("%v", iter.Key().Interface()))
			}

			out[key] = val
		}

		return rebuildMap(x.Type, out), nil
	}, nil
}

// rebuildMap reassembles validated entries into the declared mapping type
// when every entry fits it, generic map[any]any otherwise.
func rebuildMap(t reflect.Type, entries map[any]any) any {
	if t == nil || t.Kind() != reflect.Map {
		return entries
	}

	out := reflect.MakeMapWithSize(t, len(entries))

	for k, v := range entries {
		kv, vv := reflect.ValueOf(k), reflect.ValueOf(v)
		if !kv.IsValid() || !vv.IsValid() ||
			!kv.Type().AssignableTo(t.Key()) || !vv.Type().AssignableTo(t.Elem()) {
			return entries
		}

		out.SetMapIndex(kv, vv)
	}

	return out.Interface()
}

// compileRef defers schema lookup until the validator first runs, then
// memoizes. A failed lookup at first use is a hard error on every call.
func compileRef(x *typexpr.Expr, opts Options) typexpr.ValidatorFunc {
	var (
		once sync.Once
		fn   typexpr.ValidatorFunc
		fail error
	)

	return func(v any) (any, error) {
		once.Do(func() {
			schema, ok := record.Lookup(x.Name)
			if !ok {
				fail = newError(KindUnknown, "ref("+x.Name+")", nil,
					"no schema registered under %q", x.Name)
				return
			}

			fn = compileRecord(schema, opts)
		})

		if fail != nil {
			return nil, fail
		}

		return fn(v)
	}
}

func compileAnnotated(x *typexpr.Expr, opts Options) (typexpr.ValidatorFunc, error) {
	base, err := Compile(x.Base, opts)
	if err != nil {
		return nil, err
	}

	steps := make([]typexpr.ValidatorFunc, 0, len(x.Pre)+1+len(x.Post))
	steps = append(steps, x.Pre...)
	steps = append(steps, base)
	steps = append(steps, x.Post...)

	expected := x.String()

	return func(v any) (any, error) {
		for _, step := range steps {
			checked, err := step(v)
			if err != nil {
				if _, structured := err.(*Error); structured {
					return nil, err
				}

				return nil, newError(KindUser, expected, v, "%v", err)
			}

			v = checked
		}

		return v, nil
	}, nil
}

func compileSubtype(x *typexpr.Expr) typexpr.ValidatorFunc {
	expected := x.String()

	return func(v any) (any, error) {
		t, ok := v.(reflect.Type)
		if !ok {
			return nil, newError(KindSubtype, expected, v, "value is not a type")
		}

		if !subtypeOf(t, x.Type) {
			return nil, newError(KindSubtype, expected, v, "%s is not a subtype of %s", t, x.Type)
		}

		return t, nil
	}
}

func subtypeOf(t, target reflect.Type) bool {
	if target.Kind() == reflect.Interface {
		return t.Implements(target) || reflect.PointerTo(t).Implements(target)
	}

	return t == target || t.AssignableTo(target)
}

// compileRecord accepts instances of the exact schema; with record
// coercion enabled, it constructs one from a mapping (keyword expansion),
// a sequence (positional expansion) or a scalar.
func compileRecord(schema *record.Schema, opts Options) typexpr.ValidatorFunc {
	expected := schema.Name()

	return func(v any) (any, error) {
		if inst, ok := v.(*record.Instance); ok {
			if inst.Schema() == schema {
				return inst, nil
			}

			return nil, newError(KindType, expected, v, "instance of %s", inst.QualName())
		}

		if !opts.Coerce.Has(options.CoerceRecord) {
			return nil, newError(KindType, expected, v, "value is not a record instance")
		}

		var (
			inst *record.Instance
			err  error
		)

		switch vv := v.(type) {
		case map[string]any:
			inst, err = schema.NewKw(record.Kwargs(vv))
		case []any:
			inst, err = schema.New(vv...)
		case Tuple:
			inst, err = schema.New(vv...)
		default:
			inst, err = schema.New(v)
		}

		if err != nil {
			if _, structured := err.(*Error); structured {
				return nil, err
			}

			return nil, newError(KindCoercion, expected, v, "%v", err)
		}

		return inst, nil
	}
}
