// Package rpc holds the Connect plumbing shared by the marketplace services.
//
// Services exchange plain Go structs rather than generated protobuf messages,
// so the default protojson codec is replaced by one backed by encoding/json.
package rpc

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName matches the name of Connect's built-in JSON codec so that the
// "application/json" content type resolves to JSONCodec.
const CodecName = "json"

// JSONCodec is a connect.Codec for plain Go request and response structs.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(message any) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", message, err)
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, message); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", message, err)
	}
	return nil
}

// Procedure returns the Connect procedure path for method on service.
func Procedure(service, method string) string {
	return "/" + service + "/" + method
}

// ServicePath returns the mux prefix that routes every procedure of service.
func ServicePath(service string) string {
	return "/" + service + "/"
}

// HandlerOptions prepends the JSON codec to opts.
func HandlerOptions(opts ...connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

// ClientOptions prepends the JSON codec to opts. Connect clients send requests
// with the codec configured last, so callers should not pass another codec.
func ClientOptions(opts ...connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
}
