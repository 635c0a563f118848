// Package synth compiles a resolved field list into the callable behaviors
// of a record schema: constructor, textual representation, equality and
// ordering comparators, hash function and storage layout.
//
// Synthesis happens once per schema; the produced closures are the
// "methods" attached to it. They operate on small Object/Store interfaces
// so the package stays independent of the instance representation.
package synth
