package models

import "encoding/json"

// Field is the outcome of a strategy that may fail to resolve a value.
// The zero Field is unresolved.
type Field[T any] struct {
	Value T
	OK    bool
}

// Resolved wraps v as a resolved Field.
func Resolved[T any](v T) Field[T] {
	return Field[T]{Value: v, OK: true}
}

// Unresolved returns an unresolved Field.
func Unresolved[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it was resolved.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.OK
}

// Or returns the resolved value or def.
func (f Field[T]) Or(def T) T {
	if f.OK {
		return f.Value
	}
	return def
}

// MarshalJSON encodes an unresolved field as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.OK {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON treats null as unresolved.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Field[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Resolved(v)
	return nil
}
