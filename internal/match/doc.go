// Package match provides fuzzy identifier matching used to suggest the
// nearest field name when structural conversion meets an unknown key.
package match
