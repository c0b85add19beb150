// Package hydrate turns loosely typed frame payloads, such as values read back
// from a JSON trace, into the stack's payload type.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Frame identifies the payload being decoded.
type Frame struct {
	Stack string
	Depth int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s@%d", f.Stack, f.Depth)
}

// Option configures a Decoder.
type Option[T any] func(*Decoder[T])

// Strict rejects object payloads carrying fields T does not declare.
func Strict[T any]() Option[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// Using replaces the JSON conversion with fn.
func Using[T any](fn func(Frame, any) (T, error)) Option[T] {
	return func(d *Decoder[T]) {
		d.convert = fn
	}
}

// Validate runs fn on every decoded value. Validators may adjust the value in
// place; the first error aborts decoding.
func Validate[T any](fn func(Frame, *T) error) Option[T] {
	return func(d *Decoder[T]) {
		if fn != nil {
			d.validators = append(d.validators, fn)
		}
	}
}

// Decoder converts frame payloads into T.
type Decoder[T any] struct {
	strict     bool
	convert    func(Frame, any) (T, error)
	validators []func(Frame, *T) error
}

// New builds a decoder. Without Using, payloads that already hold a T are
// returned as is and anything else goes through a JSON round trip.
func New[T any](opts ...Option[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.convert == nil {
		d.convert = d.viaJSON
	}
	return d
}

// Decode converts payload into T.
func (d *Decoder[T]) Decode(frame Frame, payload any) (T, error) {
	var zero T
	value, err := d.convert(frame, payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: frame %s: %w", frame, err)
	}
	for _, validate := range d.validators {
		if err := validate(frame, &value); err != nil {
			return zero, fmt.Errorf("hydrate: frame %s: %w", frame, err)
		}
	}
	return value, nil
}

func (d *Decoder[T]) viaJSON(_ Frame, payload any) (T, error) {
	var out T
	if typed, ok := payload.(T); ok {
		return typed, nil
	}

	var raw []byte
	switch p := payload.(type) {
	case json.RawMessage:
		raw = p
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return out, err
		}
		raw = encoded
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if d.strict {
		dec.DisallowUnknownFields()
	}
	err := dec.Decode(&out)
	return out, err
}
