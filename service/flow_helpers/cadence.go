package flow_helpers

import (
	"encoding/json"

	"github.com/onflow/cadence"
	c_json "github.com/onflow/cadence/encoding/json"
)

// EncodeValues encodes each value as JSON-CDC and returns them as a
// JSON array, the layout Flow tooling expects for arguments and event fields.
func EncodeValues(values []cadence.Value) ([]byte, error) {
	encoded := make([]json.RawMessage, len(values))
	for i, v := range values {
		b, err := c_json.Encode(v)
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}
	return json.Marshal(encoded)
}

// DecodeValues reverses EncodeValues.
func DecodeValues(data []byte) ([]cadence.Value, error) {
	raw := []json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	values := make([]cadence.Value, len(raw))
	for i, b := range raw {
		v, err := c_json.Decode(b)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
