// Package optional provides a small value-or-absent type.
//
// GEDCOM lookups distinguish "the child record is missing" from "the child
// record is present but empty". [Value] keeps that distinction explicit at
// every call site instead of folding absence into the zero value:
//
//	date := ev.Date.OrElse("<unknown>")
//	if place, ok := ev.Place.Get(); ok {
//	    ...
//	}
package optional

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Value holds either a T or nothing. The zero value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Some returns a present value.
func Some[T any](v T) Value[T] { return Value[T]{v: v, ok: true} }

// None returns an absent value.
func None[T any]() Value[T] { return Value[T]{} }

// FromPtr returns Some(*p) for a non-nil pointer and None otherwise.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// NonEmpty returns Some(s) unless s is empty.
func NonEmpty(s string) Value[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (o Value[T]) Get() (T, bool) { return o.v, o.ok }

// IsPresent reports whether a value is held.
func (o Value[T]) IsPresent() bool { return o.ok }

// OrElse returns the held value or def when absent.
func (o Value[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Value[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}

// Map applies fn to a present value.
func Map[T, U any](o Value[T], fn func(T) U) Value[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(fn(o.v))
}

// FlatMap applies fn to a present value and returns its result unchanged.
func FlatMap[T, U any](o Value[T], fn func(T) Value[U]) Value[U] {
	if !o.ok {
		return None[U]()
	}
	return fn(o.v)
}

// MarshalJSON encodes an absent value as null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// UnmarshalJSON decodes null as absent.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalYAML encodes an absent value as null.
func (o Value[T]) MarshalYAML() (any, error) {
	if !o.ok {
		return nil, nil
	}
	return o.v, nil
}

// UnmarshalYAML decodes null as absent.
func (o *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
