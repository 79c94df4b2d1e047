// Package goscroll provides an incremental data-loading controller for
// "infinite scroll" style consumers.
//
// Overview
//
// A Controller owns the accumulated result of a paginated Service and loads
// further pages on demand:
//   - LoadMore / LoadMoreWait: continuation fetches that append (DirectionBottom)
//     or prepend (DirectionTop) the next page to the accumulated list.
//   - Reload / ReloadWait: start over from the first page and replace the data.
//   - Cancel: drop the in-flight fetch; its eventual result is ignored.
//   - Mutate / MutateFunc: overwrite the accumulated data directly.
//
// Key concepts
//   - Page: one fetched unit, a List fragment plus caller-defined Meta.
//   - Generation: every fetch gets a token; a result is applied only while its
//     token is still the latest, so stale responses never overwrite newer state.
//   - ScrollTarget: a scroll container. When configured, scroll events that
//     bring the trigger edge within Threshold start a continuation fetch.
//   - State: immutable snapshots delivered to subscribers in transition order.
//
// The source sub-package provides GORM-backed services using keyset or offset
// pagination.
package goscroll
