package source

import "github.com/samber/lo"

const (
	// MaxLimit caps the page size of a source unless WithMaxLimit overrides it.
	MaxLimit = 100
	// DefaultLimit is used when no positive page size was requested.
	DefaultLimit = 10
)

// pageLimit is the page size configuration of a source. The effective size is
// resolved on every fetch and reported through Meta.AppliedLimit.
type pageLimit struct {
	requested int
	max       int
}

// applied returns the page size a fetch reads, lookahead row excluded.
func (l pageLimit) applied() int {
	maxLimit := lo.Ternary(l.max > 0, l.max, MaxLimit)

	if l.requested <= 0 {
		return min(DefaultLimit, maxLimit)
	}

	return min(l.requested, maxLimit)
}

// NormalizeLimit returns the page size a source with default bounds applies
// for limit.
func NormalizeLimit(limit int) int {
	return pageLimit{requested: limit}.applied()
}
