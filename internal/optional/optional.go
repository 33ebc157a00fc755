// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package optional

import "reflect"

// Optional is an explicit present/absent wrapper. It is used for
// configuration fields that may legitimately be omitted, where the zero
// value of the wrapped type is not a safe stand-in for "not supplied".
type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

// IsZero reports absence. It exists so that yaml omitempty skips absent
// fields when encoding.
func (self Optional[T]) IsZero() bool {
	return !self.present
}

func (self Optional[T]) Value() T {
	return self.value
}

// OrElse returns the wrapped value when present and def otherwise.
func (self Optional[T]) OrElse(def T) T {
	if self.present {
		return self.value
	}
	return def
}

func (self Optional[T]) Equal(other Optional[T]) bool {
	if self.present != other.present {
		return false
	}
	if !self.present {
		return true
	}
	return reflect.DeepEqual(self.value, other.value)
}

func (self Optional[T]) MarshalYAML() (interface{}, error) {
	if !self.present {
		return nil, nil
	}
	return self.value, nil
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
