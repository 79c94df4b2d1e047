// Package source provides GORM-backed page services for goscroll controllers.
//
// Two strategies are available:
//   - Keyset: cursor pagination comparing against the last row of the previous
//     page. Requires a deterministic ordering with at least one unique column.
//   - Offset: LIMIT/OFFSET pagination behind the same opaque token interface,
//     for datasets without a usable unique ordering.
//
// Both always read one row past the limit to tell whether another page exists
// and report it through Meta. Plug NoMore into goscroll.Options.IsNoMore:
//
//	users := source.NewKeyset(db.Model(&User{}), getters, source.OrderBy{Column: "id", Direction: source.DirectionASC})
//	c := goscroll.New(ctx, users.Fetch, goscroll.NewOptions[User, source.Meta]().WithNoMore(source.NoMore[User]))
package source
