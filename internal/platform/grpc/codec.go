package grpc

import (
	"encoding/json"
	"fmt"
)

// JSONCodecName is the content subtype used for JSON-coded backend calls.
const JSONCodecName = "json"

// JSONCodec encodes gRPC messages as JSON. Backend messages are plain Go
// structs with json tags.
type JSONCodec struct{}

// Marshal encodes v as JSON.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal decodes JSON data into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal %T: %w", v, err)
	}
	return nil
}

// Name returns the codec content subtype.
func (JSONCodec) Name() string { return JSONCodecName }
