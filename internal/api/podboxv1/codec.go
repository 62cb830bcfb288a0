// Package podboxv1 defines the podbox.v1 RPC messages.
package podboxv1

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is the connect codec name used by podbox.v1 services.
const CodecName = "json"

// JSONCodec marshals podbox.v1 messages as plain JSON.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// WithCodec returns the connect option that installs JSONCodec on a
// handler or client.
func WithCodec() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
