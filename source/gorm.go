package source

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/Alp4ka/goscroll"
)

// Meta is the pagination metadata attached to pages produced by this package.
type Meta struct {
	// NextToken continues after the page. Empty on the last page.
	NextToken string `json:"nextToken,omitempty"`
	// HasMore reports whether another page exists.
	HasMore bool `json:"hasMore"`
	// AppliedLimit effective page size used for the query.
	AppliedLimit int `json:"appliedLimit"`
}

// Page is a goscroll page produced by this package.
type Page[E any] = goscroll.Page[E, Meta]

// NoMore is an IsNoMore predicate for pages produced by this package.
func NoMore[E any](data *Page[E]) bool {
	return data != nil && !data.Meta.HasMore
}

// Keyset serves pages of a gorm query using keyset pagination.
type Keyset[E any] struct {
	db       *gorm.DB
	getters  Getters[E]
	sort     Orderings
	limit    pageLimit
	reversed bool
}

// NewKeyset creates a keyset source over db, which may already carry
// conditions. orderBy must end with a unique column.
func NewKeyset[E any](db *gorm.DB, getters Getters[E], orderBy ...OrderBy) *Keyset[E] {
	return &Keyset[E]{
		db:      db,
		getters: getters,
		sort:    orderBy,
	}
}

// WithLimit sets the requested page size. Non-positive values fall back to
// DefaultLimit and values above the maximum are clamped.
func (k *Keyset[E]) WithLimit(limit int) *Keyset[E] {
	k.limit.requested = limit

	return k
}

// WithMaxLimit overrides MaxLimit as the upper bound of the page size.
func (k *Keyset[E]) WithMaxLimit(maxLimit int) *Keyset[E] {
	k.limit.max = maxLimit

	return k
}

// WithReversedPages reverses rows within every page. Combined with a
// descending ordering and goscroll.DirectionTop it loads older entries above
// newer ones while keeping each page in chronological order.
func (k *Keyset[E]) WithReversedPages() *Keyset[E] {
	k.reversed = true

	return k
}

// Fetch implements goscroll.Service.
func (k *Keyset[E]) Fetch(ctx context.Context, prev *Page[E]) (*Page[E], error) {
	if prev != nil && !prev.Meta.HasMore {
		return &Page[E]{Meta: Meta{AppliedLimit: k.limit.applied()}}, nil
	}

	return k.FetchToken(ctx, lo.TernaryF(prev == nil, lo.Empty[string], func() string {
		return prev.Meta.NextToken
	}))
}

// FetchToken fetches the page starting at token. An empty token starts at
// the beginning.
func (k *Keyset[E]) FetchToken(ctx context.Context, token string) (*Page[E], error) {
	if err := k.sort.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	cursor, err := DecodeKeysetCursor(token)
	if err != nil {
		return nil, err
	}
	if err = cursor.validate(k.sort); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	limit := k.limit.applied()
	query := k.sort.Apply(k.db.WithContext(ctx))
	if expr := cursor.expression(); expr != nil {
		query = query.Clauses(expr)
	}

	rows, hasMore, err := findWithLookahead[E](query, limit)
	if err != nil {
		return nil, err
	}

	meta := Meta{HasMore: hasMore, AppliedLimit: limit}
	if hasMore {
		next, err := nextKeysetCursor(k.sort, lo.LastOrEmpty(rows), k.getters)
		if err != nil {
			return nil, fmt.Errorf("cannot build next page cursor: %w", err)
		}
		meta.NextToken = next.String()
	}

	if k.reversed {
		slices.Reverse(rows)
	}

	return &Page[E]{List: rows, Meta: meta}, nil
}

// Offset serves pages of a gorm query using LIMIT/OFFSET behind opaque tokens.
type Offset[E any] struct {
	db       *gorm.DB
	sort     Orderings
	limit    pageLimit
	reversed bool
}

// NewOffset creates an offset source over db. orderBy should be
// deterministic, otherwise rows may repeat or go missing between pages.
func NewOffset[E any](db *gorm.DB, orderBy ...OrderBy) *Offset[E] {
	return &Offset[E]{
		db:    db,
		sort:  orderBy,
	}
}

// WithLimit sets the requested page size. Non-positive values fall back to
// DefaultLimit and values above the maximum are clamped.
func (o *Offset[E]) WithLimit(limit int) *Offset[E] {
	o.limit.requested = limit

	return o
}

// WithMaxLimit overrides MaxLimit as the upper bound of the page size.
func (o *Offset[E]) WithMaxLimit(maxLimit int) *Offset[E] {
	o.limit.max = maxLimit

	return o
}

// WithReversedPages reverses rows within every page.
func (o *Offset[E]) WithReversedPages() *Offset[E] {
	o.reversed = true

	return o
}

// Fetch implements goscroll.Service.
func (o *Offset[E]) Fetch(ctx context.Context, prev *Page[E]) (*Page[E], error) {
	if prev != nil && !prev.Meta.HasMore {
		return &Page[E]{Meta: Meta{AppliedLimit: o.limit.applied()}}, nil
	}

	var token string
	if prev != nil {
		token = prev.Meta.NextToken
	}

	return o.FetchToken(ctx, token)
}

// FetchToken fetches the page starting at token.
func (o *Offset[E]) FetchToken(ctx context.Context, token string) (*Page[E], error) {
	limit := o.limit.applied()
	query := o.db.WithContext(ctx)
	if len(o.sort) > 0 {
		if err := o.sort.validate(); err != nil {
			return nil, fmt.Errorf("cannot paginate: %w", err)
		}
		query = o.sort.Apply(query)
	}

	cursor, err := DecodeOffsetCursor(token)
	if err != nil {
		return nil, err
	}
	if !cursor.IsEmpty() {
		query = query.Offset(cursor.Offset())
	}

	rows, hasMore, err := findWithLookahead[E](query, limit)
	if err != nil {
		return nil, err
	}

	meta := Meta{HasMore: hasMore, AppliedLimit: limit}
	if hasMore {
		meta.NextToken = NewOffsetCursor(cursor.Offset() + len(rows)).String()
	}

	if o.reversed {
		slices.Reverse(rows)
	}

	return &Page[E]{List: rows, Meta: meta}, nil
}

// findWithLookahead reads limit+1 rows and trims the extra one, which only
// tells whether another page exists.
func findWithLookahead[E any](query *gorm.DB, limit int) ([]E, bool, error) {
	rows := make([]E, 0, limit+1)
	if err := query.Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("cannot fetch page: %w", err)
	}

	if len(rows) > limit {
		return rows[:limit], true, nil
	}

	return rows, false, nil
}

var (
	_ goscroll.Service[struct{}, Meta] = (*Keyset[struct{}])(nil).Fetch
	_ goscroll.Service[struct{}, Meta] = (*Offset[struct{}])(nil).Fetch
)
