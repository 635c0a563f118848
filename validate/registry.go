package validate

import (
	"reflect"
	"sync"

	"recordforge/typexpr"
)

// chains holds the process-wide per-type validator chains. Populated on
// first use, never evicted; registration order is execution order.
var (
	chainsMu sync.RWMutex
	chains   = map[reflect.Type][]typexpr.ValidatorFunc{}
)

// Register appends a validator to the process-wide chain for an exact
// type. Every validator compiled afterwards for that type runs the full
// chain in registration order before the builtin check.
func Register(t reflect.Type, fn typexpr.ValidatorFunc) {
	chainsMu.Lock()
	chains[t] = append(chains[t], fn)
	chainsMu.Unlock()
}

// RegisterFor is Register with the type taken from a type parameter.
func RegisterFor[T any](fn typexpr.ValidatorFunc) {
	Register(reflect.TypeOf((*T)(nil)).Elem(), fn)
}

func chainFor(t reflect.Type) []typexpr.ValidatorFunc {
	chainsMu.RLock()
	defer chainsMu.RUnlock()

	return chains[t]
}
