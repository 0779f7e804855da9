package server

import (
	"encoding/json"
	"fmt"

	"github.com/bufbuild/connect-go"
)

const codecName = "json"

// JSONCodec lets connect carry the plain message structs of this package. It replaces the
// protojson codec connect registers under the same name.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string {
	return codecName
}

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
		return fmt.Errorf("unmarshal %T: %w", message, err)
	}

	return nil
}

// WithJSON is the option handlers and clients of this package need.
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
