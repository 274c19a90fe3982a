package server

import "encoding/json"

// jsonCodec carries plain Go structs over Connect as JSON. It replaces the
// default protobuf JSON codec, so no generated message types are needed.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
