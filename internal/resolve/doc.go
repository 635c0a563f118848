// Package resolve walks a record prototype's embedded-struct chain, extracts
// per-level field declarations from struct fields and tags, and merges them
// into a single ordered, conflict-resolved field list.
//
// Per-type tables are cached process-wide; building a table is a pure
// function of the struct type, so concurrent first-time resolution is
// idempotent and safe to race.
package resolve
