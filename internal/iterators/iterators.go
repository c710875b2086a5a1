// Package iterators defines the pull iterator contract shared by chronokit
// sequences and some utilities around it.
package iterators

import "iter"

// Iterator is a pull iterator.
type Iterator[T any] interface {
	// Next returns true, if there is element and fills t.
	Next(t *T) bool
	// Err returns an error caused during iteration, if any.
	Err() error
	// Close closes iterator.
	Close() error
}

// ForEach calls given callback for each iterator element.
//
// NOTE: ForEach does not close iterator.
func ForEach[T any](i Iterator[T], cb func(T) error) error {
	var t T
	for i.Next(&t) {
		if err := cb(t); err != nil {
			return err
		}
	}
	return i.Err()
}

// Collect reads at most limit elements into a slice.
//
// Negative limit means no limit. Collect does not close iterator.
func Collect[T any](i Iterator[T], limit int) ([]T, error) {
	var (
		r []T
		t T
	)
	for limit < 0 || len(r) < limit {
		if !i.Next(&t) {
			break
		}
		r = append(r, t)
	}
	return r, i.Err()
}

// Seq adapts iterator to a range-over-func sequence.
//
// The sequence consumes the iterator. Iteration error, if any, is available
// via Err after the loop.
func Seq[T any](i Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		var t T
		for i.Next(&t) {
			if !yield(t) {
				return
			}
		}
	}
}

var _ Iterator[any] = (*EmptyIterator[any])(nil)

// EmptyIterator returns zero elements.
type EmptyIterator[T any] struct{}

// Empty creates new empty iterator.
func Empty[T any]() *EmptyIterator[T] {
	return &EmptyIterator[T]{}
}

// Next always returns false.
func (i *EmptyIterator[T]) Next(*T) bool { return false }

// Err always returns nil.
func (i *EmptyIterator[T]) Err() error { return nil }

// Close always returns nil.
func (i *EmptyIterator[T]) Close() error { return nil }

var _ Iterator[any] = (*SliceIterator[any])(nil)

// SliceIterator is a slice iterator.
type SliceIterator[T any] struct {
	data []T
	n    int
}

// Slice creates new SliceIterator from given values.
func Slice[T any](vals []T) *SliceIterator[T] {
	return &SliceIterator[T]{data: vals}
}

// Next returns true, if there is element and fills t.
func (i *SliceIterator[T]) Next(t *T) bool {
	if i.n >= len(i.data) {
		return false
	}
	*t = i.data[i.n]
	i.n++
	return true
}

// Err always returns nil.
func (i *SliceIterator[T]) Err() error { return nil }

// Close always returns nil.
func (i *SliceIterator[T]) Close() error { return nil }
