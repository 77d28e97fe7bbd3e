// Package optional tracks whether a JSON field was supplied in a request body.
//
// A Field left out of the payload, or sent as null, stays unset. Any other value marks it set,
// including zero values such as "" or false.
package optional

import (
	"encoding/json"
	"fmt"
)

// Supplied is satisfied by every Field regardless of its type parameter.
type Supplied interface {
	IsSet() bool
	Any() any
}

type Field[T any] struct {
	Value T
	Set   bool
}

// Of returns a set field holding value.
func Of[T any](value T) Field[T] {
	return Field[T]{Value: value, Set: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T

		f.Value = zero
		f.Set = false

		return nil
	}

	if err := json.Unmarshal(data, &f.Value); err != nil {
		return fmt.Errorf("failed to decode optional field: %w", err)
	}

	f.Set = true

	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}

	return json.Marshal(f.Value) //nolint:wrapcheck
}

// Get returns the value and whether it was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

func (f Field[T]) IsSet() bool {
	return f.Set
}

func (f Field[T]) Any() any {
	return f.Value
}
