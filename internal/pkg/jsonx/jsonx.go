// Package jsonx routes JSON encoding through Sonic.
package jsonx

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.Config{
	EscapeHTML: false,
	UseInt64:   true,
}.Froze()

func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

// NewDecoder returns a streaming decoder reading from r.
func NewDecoder(r io.Reader) sonic.Decoder {
	return api.NewDecoder(r)
}

func NewEncoder(w io.Writer) sonic.Encoder {
	return api.NewEncoder(w)
}
