package apim

import (
	"context"
	"errors"
	"time"
)

// ItemIterator walks individual items pulled out of a paginated traversal.
// Next returns ErrNoMoreItems once the stream is exhausted; any other error
// is terminal.
type ItemIterator[T any] struct {
	next func() (T, error)
}

// NewItemIterator wraps a pull function in an ItemIterator.
func NewItemIterator[T any](next func() (T, error)) *ItemIterator[T] {
	return &ItemIterator[T]{next: next}
}

// SliceItems returns an iterator over a fixed slice.
func SliceItems[T any](items []T) *ItemIterator[T] {
	i := 0

	return NewItemIterator(func() (T, error) {
		var zero T

		if i >= len(items) {
			return zero, ErrNoMoreItems
		}

		item := items[i]
		i++

		return item, nil
	})
}

// Next returns the next item.
func (it *ItemIterator[T]) Next() (T, error) {
	return it.next()
}

// All drains the iterator and returns every remaining item.
func (it *ItemIterator[T]) All() ([]T, error) {
	var items []T

	for {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return items, nil
			}

			return nil, err
		}

		items = append(items, item)
	}
}

// ForEach applies fn to every remaining item, stopping at the first error
// returned by fn.
func (it *ItemIterator[T]) ForEach(fn func(T) error) error {
	for {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}
}

// FilterItems keeps only items satisfying keep, preserving order.
func FilterItems[T any](it *ItemIterator[T], keep func(T) bool) *ItemIterator[T] {
	return NewItemIterator(func() (T, error) {
		for {
			item, err := it.Next()
			if err != nil {
				return item, err
			}

			if keep(item) {
				return item, nil
			}
		}
	})
}

// MapItems transforms each item, preserving order.
func MapItems[T, U any](it *ItemIterator[T], fn func(T) U) *ItemIterator[U] {
	return NewItemIterator(func() (U, error) {
		var zero U

		item, err := it.Next()
		if err != nil {
			return zero, err
		}

		return fn(item), nil
	})
}

// Flatten turns a page traversal into an item stream, preserving fetch order.
// Pages are pulled lazily: the next page request is only issued once the
// previous page's items have all been consumed.
func Flatten[P, T any](pages *PageIterator[P], items func(P) []T) *ItemIterator[T] {
	var buf []T

	done := false

	return NewItemIterator(func() (T, error) {
		var zero T

		for len(buf) == 0 {
			if done {
				return zero, ErrNoMoreItems
			}

			page, err := pages.Next()
			if err != nil {
				if errors.Is(err, ErrNoMoreItems) {
					done = true

					continue
				}

				return zero, err
			}

			buf = append(buf, items(page)...)
		}

		item := buf[0]
		buf = buf[1:]

		return item, nil
	})
}

// Throttle enforces a minimum delay between consecutive emissions. The first
// item is emitted without delay, and exhaustion or a terminal error surfaces
// immediately; only an actual emission pays the wait. A cancelled context
// interrupts the wait and surfaces ctx.Err. A non-positive delay returns the
// iterator unchanged.
func Throttle[T any](ctx context.Context, it *ItemIterator[T], delay time.Duration) *ItemIterator[T] {
	if delay <= 0 {
		return it
	}

	emitted := false

	return NewItemIterator(func() (T, error) {
		var zero T

		item, err := it.Next()
		if err != nil {
			return zero, err
		}

		if emitted {
			timer := time.NewTimer(delay)
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		emitted = true

		return item, nil
	})
}
