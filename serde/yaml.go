package serde

import (
	"gopkg.in/yaml.v3"

	"recordforge/record"
)

// MarshalYAML encodes an instance as a YAML document.
func MarshalYAML(inst *record.Instance) ([]byte, error) {
	m, err := ToMap(inst, Unlimited)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(m)
}

// UnmarshalYAML decodes a YAML document into an instance of the schema.
func UnmarshalYAML(schema *record.Schema, data []byte) (*record.Instance, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return FromMap(schema, m, false)
}
