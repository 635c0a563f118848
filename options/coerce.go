// Package options holds shared enums configuring optional engine behavior.
package options

// CoerceEnum selects which coercion families the validator compiler may
// attempt when a value is not already an instance of its declared type.
type CoerceEnum int

const (
	CoerceNumber     CoerceEnum = 1 << iota // int, uint, float interconversion without textual forms
	CoerceTextNumber                        // int, uint, float <-> string: textual number representation
	CoerceTextBool                          // string <-> bool: true/false textual representation
	CoerceContainer                         // slice <-> tuple/set rebuilds, mapping container rebuilds
	CoerceEnumMember                        // enum lookup by member name, then by member value
	CoerceRecord                            // record construction from mapping, sequence or scalar
	CoerceConvert                           // reflect-convertible named types (e.g. type UserID int64)

	// CoerceAll enables every coercion family.
	CoerceAll = (1 << iota) - 1
	// CoerceNone disables coercion entirely: strict instance checks only.
	CoerceNone = 0
)

// Has reports whether the given family is enabled.
func (c CoerceEnum) Has(flag CoerceEnum) bool {
	return c&flag != 0
}
