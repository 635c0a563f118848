// Package record is the entry point of the augmentation engine. A record
// schema is derived once from a Go struct prototype: struct fields and tags
// declare the fields, embedded structs form the inheritance chain. The
// schema carries the synthesized value-type behaviors (constructor, repr,
// equality, ordering, hashing, immutability guards, storage layout) and
// produces dynamic instances.
//
//	type Point struct {
//		X int
//		Y int `default:"3"`
//	}
//
//	schema := record.MustNew(Point{}, record.DefaultConfig())
//	p, err := schema.New(1)       // Point(X=1, Y=3)
//	q, err := schema.New(1, 2)    // Point(X=1, Y=2)
package record
