package apim

import (
	"context"
	"fmt"
)

// PageRequest carries the continuation parameters of a single page fetch.
// Everything else about the request (path, auth, static filters) is closed
// over by the PageFetcher; each step derives a new PageRequest from the
// previous page, never mutating the one already issued.
type PageRequest struct {
	// Page is the 1-based page number for page-numbered resources.
	Page int
	// Size is the requested page size.
	Size int
	// Cursor is the "resume after" marker for cursor-driven resources.
	Cursor string
}

// PageFetcher executes one page request and decodes its payload.
type PageFetcher[P any] func(ctx context.Context, req PageRequest) (P, error)

// PageStrategy decides whether and how a traversal continues after a page.
// Implementations must guarantee termination: a page reporting inconsistent
// counters (negative remaining, non-advancing cursor) is treated as
// exhausted, never as an error.
type PageStrategy[P any] interface {
	// Next returns the request for the page following last, or ok=false when
	// the stream is exhausted.
	Next(last P, req PageRequest) (next PageRequest, ok bool)
}

// PageStrategyFunc adapts a function to the PageStrategy interface.
type PageStrategyFunc[P any] func(last P, req PageRequest) (PageRequest, bool)

// Next implements PageStrategy.
func (f PageStrategyFunc[P]) Next(last P, req PageRequest) (PageRequest, bool) {
	return f(last, req)
}

// PageIterator lazily walks a paginated resource, one page per Next call.
// Pages are produced strictly in fetch order; each request depends on the
// previous response, so traversal is inherently sequential.
type PageIterator[P any] struct {
	ctx      context.Context
	fetch    PageFetcher[P]
	strategy PageStrategy[P]
	next     PageRequest
	pending  bool
	requests int
	err      error
}

// Paginate starts a traversal at first, continuing per strategy. No request
// is issued until the first Next call.
func Paginate[P any](ctx context.Context, fetch PageFetcher[P], first PageRequest, strategy PageStrategy[P]) *PageIterator[P] {
	return &PageIterator[P]{
		ctx:      ctx,
		fetch:    fetch,
		strategy: strategy,
		next:     first,
		pending:  true,
	}
}

// Next fetches and returns the next page. It returns ErrNoMoreItems once the
// strategy reports exhaustion, and the context error once ctx is cancelled;
// after cancellation no further requests are issued.
func (it *PageIterator[P]) Next() (P, error) {
	var zero P

	if it.err != nil {
		return zero, it.err
	}

	if !it.pending {
		it.err = ErrNoMoreItems

		return zero, it.err
	}

	if err := it.ctx.Err(); err != nil {
		it.err = err

		return zero, err
	}

	page, err := it.fetch(it.ctx, it.next)
	if err != nil {
		it.err = fmt.Errorf("fetching page %d: %w", it.requests+1, err)

		return zero, it.err
	}

	it.requests++

	next, ok := it.strategy.Next(page, it.next)
	if ok {
		it.next = next
	} else {
		it.pending = false
	}

	return page, nil
}

// All drains the traversal and returns every page.
func (it *PageIterator[P]) All() ([]P, error) {
	var pages []P

	for {
		page, err := it.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				return pages, nil
			}

			return nil, err
		}

		pages = append(pages, page)
	}
}

// Requests reports how many page requests have been issued so far.
func (it *PageIterator[P]) Requests() int {
	return it.requests
}

// PageCounter returns the strategy for resources whose envelope reports
// current/total page counters: the continuation increments the page number,
// exhaustion is current page reaching the reported page count.
func PageCounter[P any](info func(P) PageInfo) PageStrategy[P] {
	return PageStrategyFunc[P](func(last P, req PageRequest) (PageRequest, bool) {
		counters := info(last)

		current := counters.Current
		if current <= 0 {
			current = req.Page
		}

		if current <= 0 {
			current = 1
		}

		if counters.TotalPages <= current {
			return PageRequest{}, false
		}

		req.Page = current + 1

		return req, true
	})
}

// CountRemaining returns the strategy for resources whose envelope reports a
// grand total but no page count: the continuation increments the page number,
// exhaustion is `total - size*page <= 0` with the page number standing in for
// the count of pages consumed so far. A negative remainder counts as exhausted
// so an inconsistent server can never cause an infinite loop. The strategy
// carries no state and can back any number of traversals.
func CountRemaining[P any](info func(P) PageInfo) PageStrategy[P] {
	return PageStrategyFunc[P](func(last P, req PageRequest) (PageRequest, bool) {
		page := req.Page
		if page <= 0 {
			page = 1
		}

		counters := info(last)

		size := counters.Size
		if size <= 0 {
			size = req.Size
		}

		if size <= 0 {
			return PageRequest{}, false
		}

		if counters.TotalElements-size*page <= 0 {
			return PageRequest{}, false
		}

		req.Page = page + 1

		return req, true
	})
}

// CursorAfter returns the strategy for cursor-driven resources: the
// continuation carries the sort key of the last item of the page forward as a
// "resume after" marker, exhaustion is an empty page. A cursor that fails to
// advance also terminates the traversal.
func CursorAfter[P any](lastKey func(P) (string, bool)) PageStrategy[P] {
	return PageStrategyFunc[P](func(last P, req PageRequest) (PageRequest, bool) {
		key, ok := lastKey(last)
		if !ok || key == "" {
			return PageRequest{}, false
		}

		if key == req.Cursor {
			return PageRequest{}, false
		}

		req.Cursor = key

		return req, true
	})
}
