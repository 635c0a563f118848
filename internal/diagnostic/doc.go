// Package diagnostic provides structured, non-fatal notices collected while
// resolving a record schema.
//
// Key capabilities:
//   - Unknown tag-option warnings
//   - Field override and cancellation notes
//   - Aggregation into a single error for strict consumers
package diagnostic
