// Package typexpr models declared field types as a small closed AST.
//
// A type expression is either derived from a Go type via reflection
// (FromReflect, Of) or built explicitly for shapes Go's type system cannot
// express directly: unions, literal sets, enums, heterogeneous tuples and
// forward references to record schemas.
package typexpr

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidatorFunc checks (and possibly rewrites) a value. It is declared here
// so Annotated expressions can carry extra validators without depending on
// the validator compiler.
type ValidatorFunc func(value any) (any, error)

// Expr is one node of a type expression tree.
type Expr struct {
	Kind Kind

	// Type is the Go type for Concrete expressions, the container type hint
	// for Seq/Set/Map (may be nil for untyped containers) and the target for
	// Subtype expressions.
	Type reflect.Type

	// Key and Elem are the inner expressions for Map (key/value) and the
	// element expression for Seq and Set.
	Key  *Expr
	Elem *Expr

	// Items are the alternatives of a Union or the positions of a Tuple.
	Items []*Expr

	// Variadic marks a Tuple whose last item validates all trailing positions.
	Variadic bool

	// Literals are the accepted values of a Literal expression.
	Literals []any

	// Members maps member names to values for an Enum expression.
	Members map[string]any

	// Name is the referenced schema name for a Ref expression.
	Name string

	// Base plus Pre/Post validators make up an Annotated expression.
	Base *Expr
	Pre  []ValidatorFunc
	Post []ValidatorFunc

	// Schema is an opaque handle to a resolved record schema for Record
	// expressions. Kept as any to avoid a dependency cycle; the validator
	// compiler asserts the concrete type.
	Schema any
}

// String returns a compact human-readable form of the expression, used in
// validation error messages.
func (x *Expr) String() string {
	if x == nil {
		return "<nil>"
	}

	switch x.Kind {
	case KindNone:
		return "none"
	case KindAny:
		return "any"
	case KindConcrete:
		if x.Type == nil {
			return "concrete"
		}

		return x.Type.String()
	case KindLiteral:
		parts := make([]string, 0, len(x.Literals))
		for _, v := range x.Literals {
			parts = append(parts, fmt.Sprintf("%#v", v))
		}

		return "literal[" + strings.Join(parts, ", ") + "]"
	case KindEnum:
		return fmt.Sprintf("enum(%d members)", len(x.Members))
	case KindUnion:
		parts := make([]string, 0, len(x.Items))
		for _, it := range x.Items {
			parts = append(parts, it.String())
		}

		return "union[" + strings.Join(parts, " | ") + "]"
	case KindTuple:
		parts := make([]string, 0, len(x.Items))
		for _, it := range x.Items {
			parts = append(parts, it.String())
		}

		suffix := ""
		if x.Variadic {
			suffix = ", ..."
		}

		return "tuple[" + strings.Join(parts, ", ") + suffix + "]"
	case KindSeq:
		return "seq[" + x.Elem.String() + "]"
	case KindSet:
		return "set[" + x.Elem.String() + "]"
	case KindMap:
		return "map[" + x.Key.String() + "]" + x.Elem.String()
	case KindRef:
		return "ref(" + x.Name + ")"
	case KindAnnotated:
		return "annotated[" + x.Base.String() + "]"
	case KindSubtype:
		if x.Type == nil {
			return "subtype"
		}

		return "subtype[" + x.Type.String() + "]"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// Composite reports whether the expression requires structural validation
// rather than a plain instance check. Union fast paths only apply to
// non-composite alternatives.
func (x *Expr) Composite() bool {
	switch x.Kind {
	case KindUnion, KindTuple, KindSeq, KindSet, KindMap, KindAnnotated, KindRef, KindRecord:
		return true
	default:
		return false
	}
}
