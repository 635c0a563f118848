package serde

import (
	"github.com/pelletier/go-toml/v2"

	"recordforge/record"
)

// MarshalTOML encodes an instance as a TOML document.
func MarshalTOML(inst *record.Instance) ([]byte, error) {
	m, err := ToMap(inst, Unlimited)
	if err != nil {
		return nil, err
	}

	return toml.Marshal(m)
}

// UnmarshalTOML decodes a TOML document into an instance of the schema.
func UnmarshalTOML(schema *record.Schema, data []byte) (*record.Instance, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return FromMap(schema, m, false)
}
