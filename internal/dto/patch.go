package dto

import (
	"bytes"
	"encoding/json"
)

// Patch is an optional field of a partial update. The zero value leaves the
// stored value untouched; Set with a nil Value clears it.
type Patch[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

func Clear[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

func (p Patch[T]) Cleared() bool {
	return p.Set && p.Value == nil
}

// UnmarshalJSON is only called for keys present in the document, so an
// explicit null is a clear and a missing key stays unset.
func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}
