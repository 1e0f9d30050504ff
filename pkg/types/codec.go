package types

import "encoding/json"

// Codec serializes override results and deserializes response payloads.
// Override-provided values go through Encode so the return path is uniform
// whether or not an override matched; Decode turns bytes from either path
// into the caller's requested type.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

// JSONCodec is the default Codec, backed by encoding/json.
type JSONCodec struct{}

// Encode marshals v to JSON.
func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals data into out. Empty data decodes into nothing, so
// minimal responses round-trip without error.
func (JSONCodec) Decode(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// DefaultCodec is used by descriptor constructors to encode payloads and by
// routers constructed without an explicit codec.
var DefaultCodec Codec = JSONCodec{}
