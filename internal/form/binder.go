package form

import (
	"context"
	"errors"
	"maps"
)

// Binder holds the editable state of one form. T must be a flat struct of
// value fields so that copies are independent.
//
// Edit never validates. Blur validates one field, Submit validates all of
// them and only then calls the submission handler. Reset returns to the
// values the binder was created with.
type Binder[T any] struct {
	schema  *Schema
	initial T
	values  T
	errors  map[string]string
}

// NewBinder creates a Binder bound to initial
func NewBinder[T any](schema *Schema, initial T) *Binder[T] {
	return &Binder[T]{
		schema:  schema,
		initial: initial,
		values:  initial,
		errors:  map[string]string{},
	}
}

func (b *Binder[T]) Values() T {
	return b.values
}

func (b *Binder[T]) Initial() T {
	return b.initial
}

// Errors returns the current per-field messages.
func (b *Binder[T]) Errors() map[string]string {
	return maps.Clone(b.errors)
}

// Edit applies fn to the current values without validating
func (b *Binder[T]) Edit(fn func(*T)) {
	fn(&b.values)
}

// Blur validates field and records or clears its message.
func (b *Binder[T]) Blur(field string) (string, error) {
	msg, err := b.schema.ValidateField(b.values, field)
	if err != nil {
		return "", err
	}

	if msg == "" {
		delete(b.errors, field)
	} else {
		b.errors[field] = msg
	}
	return msg, nil
}

// Submit validates every field. On failure it returns a *ValidationError and
// handler is not called.
func (b *Binder[T]) Submit(ctx context.Context, handler func(context.Context, T) error) error {
	if err := b.schema.Validate(b.values); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			b.errors = maps.Clone(ve.Fields)
		}
		return err
	}

	clear(b.errors)
	return handler(ctx, b.values)
}

// Reset restores the initial values and clears errors
func (b *Binder[T]) Reset() {
	b.values = b.initial
	clear(b.errors)
}
