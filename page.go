package goscroll

import "context"

// Page is one unit of data returned by a Service, or the accumulated result of
// several of them.
type Page[E, M any] struct {
	// List page elements. Concatenated across continuation fetches.
	List []E
	// Meta caller-defined pagination metadata (cursor tokens, flags, totals).
	// Replaced by the Meta of every newly merged page.
	Meta M
}

// Len returns the number of elements, treating a nil page as empty.
func (p *Page[E, M]) Len() int {
	if p == nil {
		return 0
	}

	return len(p.List)
}

// Service fetches the next page.
//
// prev is the accumulated data for continuation fetches and nil for the
// initial fetch and reloads. ctx is cancelled once the attempt is superseded by
// Reload, Cancel or Close.
type Service[E, M any] func(ctx context.Context, prev *Page[E, M]) (*Page[E, M], error)
