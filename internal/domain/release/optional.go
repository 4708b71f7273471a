package release

// Optional holds a value that may be absent.
// The zero value is an absent Optional.
type Optional[T any] struct {
	// value is meaningful only when set is true.
	value T
	// set reports whether value was provided.
	set bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{
		value: v,
		set:   true,
	}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was provided.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the held value or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.set {
		return fallback
	}

	return o.value
}
