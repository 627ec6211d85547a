package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// StructuredResult is the opaque JSON value returned by the document-processing
// service. Numbers are kept as json.Number so nothing is lost on re-encoding.
type StructuredResult struct {
	Value any
}

// DecodeResult decodes exactly one JSON value from data
func DecodeResult(data []byte) (*StructuredResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid JSON body: trailing data after value")
	}

	return &StructuredResult{Value: v}, nil
}

// MarshalJSON encodes the wrapped value
func (r *StructuredResult) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Field returns a top-level object member, if the result is an object
func (r *StructuredResult) Field(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	obj, ok := r.Value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}
