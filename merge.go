package goscroll

// fetchKind distinguishes the initial/reload fetch from continuation fetches.
type fetchKind int

const (
	fetchReload fetchKind = iota
	fetchMore
)

func (k fetchKind) String() string {
	if k == fetchMore {
		return "more"
	}

	return "reload"
}

// mergePage combines the accumulated data with a freshly fetched page.
//
// A reload replaces the data. A continuation concatenates lists, appending for
// DirectionBottom and prepending for DirectionTop, and takes the Meta of the
// new page. The result never shares its List backing array with either input.
func mergePage[E, M any](kind fetchKind, direction Direction, current, next *Page[E, M]) *Page[E, M] {
	if next == nil {
		next = new(Page[E, M])
	}

	if kind == fetchReload || current == nil {
		return &Page[E, M]{
			List: append(make([]E, 0, len(next.List)), next.List...),
			Meta: next.Meta,
		}
	}

	list := make([]E, 0, len(current.List)+len(next.List))
	if direction == DirectionTop {
		list = append(list, next.List...)
		list = append(list, current.List...)
	} else {
		list = append(list, current.List...)
		list = append(list, next.List...)
	}

	return &Page[E, M]{
		List: list,
		Meta: next.Meta,
	}
}
