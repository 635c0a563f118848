package field

// Category classifies how a field participates in the record lifecycle.
type Category int

const (
	// CategoryStandard fields are stored on the instance.
	CategoryStandard Category = iota + 1
	// CategoryInitOnly fields are consumed by the constructor and forwarded
	// to the post-construction hook, never stored.
	CategoryInitOnly
)

// String returns a human-readable representation of the Category.
func (c Category) String() string {
	switch c {
	case CategoryStandard:
		return "standard"
	case CategoryInitOnly:
		return "init-only"
	default:
		return "unknown"
	}
}
