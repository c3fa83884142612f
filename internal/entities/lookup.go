package entities

// Lookup is the result of a read that tolerates absence. A missing row is a
// normal outcome, not an error.
type Lookup[T any] struct {
	Value *T
}

// Found wraps a located value.
func Found[T any](v *T) Lookup[T] {
	return Lookup[T]{Value: v}
}

// Missing is the not-found sentinel.
func Missing[T any]() Lookup[T] {
	return Lookup[T]{}
}

func (l Lookup[T]) Found() bool {
	return l.Value != nil
}

// Get returns the value and whether it was found.
func (l Lookup[T]) Get() (*T, bool) {
	return l.Value, l.Value != nil
}
