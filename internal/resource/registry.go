package resource

import "fmt"

// Registry maps entity kinds to their wired value (typically a mounted
// controller). Lookups of unregistered kinds fail, which keeps "model not
// found" a startup fault instead of a per-request one.
type Registry[T any] struct {
	entries map[Kind]T
	order   []Kind
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[Kind]T)}
}

func (r *Registry[T]) Register(kind Kind, value T) {
	if _, exists := r.entries[kind]; !exists {
		r.order = append(r.order, kind)
	}

	r.entries[kind] = value
}

// ForKind returns the registered value, or ErrUnknownKind.
func (r *Registry[T]) ForKind(kind Kind) (T, error) {
	value, ok := r.entries[kind]

	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return value, nil
}

// Kinds returns the registered kinds in registration order.
func (r *Registry[T]) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}
