// Package optional distinguishes an absent JSON key from an explicit null.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is a tri-state field: absent (Set == false), null (Set && Ptr == nil)
// or a concrete value.
type Value[T any] struct {
	Set bool
	Ptr *T
}

// Of returns a Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Ptr: &v}
}

// Null returns a Value explicitly set to null.
func Null[T any]() Value[T] {
	return Value[T]{Set: true}
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Ptr = nil
		return nil
	}
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	v.Ptr = &t
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.Ptr == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*v.Ptr)
}
