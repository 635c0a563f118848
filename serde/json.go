package serde

import (
	"encoding/json"

	"recordforge/record"
)

// MarshalJSON encodes an instance as a JSON object.
func MarshalJSON(inst *record.Instance) ([]byte, error) {
	m, err := ToMap(inst, Unlimited)
	if err != nil {
		return nil, err
	}

	return json.Marshal(m)
}

// MarshalJSONIndent encodes an instance as indented JSON.
func MarshalJSONIndent(inst *record.Instance, prefix, indent string) ([]byte, error) {
	m, err := ToMap(inst, Unlimited)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(m, prefix, indent)
}

// UnmarshalJSON decodes a JSON object into an instance of the schema.
func UnmarshalJSON(schema *record.Schema, data []byte) (*record.Instance, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return FromMap(schema, m, false)
}
