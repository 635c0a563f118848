package record

import "sync"

// registry maps schema names to built schemas, enabling forward and
// self-references to resolve lazily by name. First registration per name
// wins; rebuilding a schema under the same name keeps the original.
var registry sync.Map // string -> *Schema

// Lookup returns the schema registered under a name.
func Lookup(name string) (*Schema, bool) {
	s, ok := registry.Load(name)
	if !ok {
		return nil, false
	}

	return s.(*Schema), true
}

// Register puts a schema into the registry under an extra name, on top of
// the automatic registration performed by New.
func Register(name string, s *Schema) {
	registry.LoadOrStore(name, s)
}
