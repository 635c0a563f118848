package typexpr

import "reflect"

// None returns the null-type expression (accepts only nil).
func None() *Expr { return &Expr{Kind: KindNone} }

// Any returns the unconstrained expression.
func Any() *Expr { return &Expr{Kind: KindAny} }

// Concrete wraps a Go type as a plain instance-check expression.
func Concrete(t reflect.Type) *Expr { return &Expr{Kind: KindConcrete, Type: t} }

// Literal builds an expression accepting only the given values.
func Literal(values ...any) *Expr { return &Expr{Kind: KindLiteral, Literals: values} }

// EnumOf builds an enum expression from a member-name to value mapping.
func EnumOf(members map[string]any) *Expr { return &Expr{Kind: KindEnum, Members: members} }

// Union builds an expression accepting any of the given alternatives.
func Union(alts ...*Expr) *Expr { return &Expr{Kind: KindUnion, Items: alts} }

// Optional is shorthand for Union(x, None()).
func Optional(x *Expr) *Expr { return Union(x, None()) }

// TupleOf builds a fixed-length tuple expression.
func TupleOf(items ...*Expr) *Expr { return &Expr{Kind: KindTuple, Items: items} }

// Variadic builds a tuple expression whose last item validates every
// trailing position (the ellipsis form).
func Variadic(items ...*Expr) *Expr {
	return &Expr{Kind: KindTuple, Items: items, Variadic: true}
}

// SeqOf builds a homogeneous sequence expression. The optional container
// type controls how validated values are rebuilt.
func SeqOf(elem *Expr, container ...reflect.Type) *Expr {
	x := &Expr{Kind: KindSeq, Elem: elem}
	if len(container) > 0 {
		x.Type = container[0]
	}

	return x
}

// SetOf builds a set expression: element-wise validation plus deduplication.
func SetOf(elem *Expr) *Expr { return &Expr{Kind: KindSet, Elem: elem} }

// MapOf builds a mapping expression. The optional container type controls
// how validated entries are rebuilt.
func MapOf(key, value *Expr, container ...reflect.Type) *Expr {
	x := &Expr{Kind: KindMap, Key: key, Elem: value}
	if len(container) > 0 {
		x.Type = container[0]
	}

	return x
}

// Ref builds a deferred reference to a named record schema. Resolution is
// lazy: the name is looked up the first time a compiled validator runs.
func Ref(name string) *Expr { return &Expr{Kind: KindRef, Name: name} }

// Annotated wraps a base expression with extra validators. Pre validators
// run before the base check, post validators after, each in declared order.
func Annotated(base *Expr, pre, post []ValidatorFunc) *Expr {
	return &Expr{Kind: KindAnnotated, Base: base, Pre: pre, Post: post}
}

// SubtypeOf builds an expression accepting reflect.Type values assignable
// to (or implementing) the target type.
func SubtypeOf(target reflect.Type) *Expr { return &Expr{Kind: KindSubtype, Type: target} }

// Record wraps an opaque schema handle as a nested-record expression.
func Record(schema any) *Expr { return &Expr{Kind: KindRecord, Schema: schema} }

// Of derives an expression from a Go type parameter.
func Of[T any]() *Expr {
	return FromReflect(reflect.TypeOf((*T)(nil)).Elem())
}

// FromReflect derives an expression from a reflected Go type. Pointers are
// unwrapped into Optional expressions, interfaces with no methods become
// Any, containers recurse into their element types and everything else is a
// plain concrete check.
func FromReflect(t reflect.Type) *Expr {
	if t == nil {
		return None()
	}

	switch t.Kind() {
	case reflect.Ptr:
		return Optional(FromReflect(t.Elem()))
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Any()
		}

		return Concrete(t)
	case reflect.Slice, reflect.Array:
		return SeqOf(FromReflect(t.Elem()), t)
	case reflect.Map:
		return MapOf(FromReflect(t.Key()), FromReflect(t.Elem()), t)
	default:
		return Concrete(t)
	}
}
