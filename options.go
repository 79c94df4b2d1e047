package goscroll

import (
	"log/slog"
)

// DefaultThreshold is the distance in pixels (or rows) from the trigger edge
// within which a scroll event starts a continuation fetch.
const DefaultThreshold = 100

// Direction defines which edge of the scroll container triggers continuation
// and where newly fetched pages are merged.
type Direction string

const (
	// DirectionBottom appends new pages and watches the bottom edge.
	DirectionBottom Direction = "bottom"
	// DirectionTop prepends new pages and watches the top edge.
	DirectionTop Direction = "top"
)

func (d Direction) Valid() bool {
	return d == DirectionBottom || d == DirectionTop
}

// Hooks are optional lifecycle callbacks. Every fetch attempt that is not
// superseded calls OnBefore, then OnSuccess or OnError, then OnFinally.
// A nil handler is skipped.
type Hooks[E, M any] struct {
	OnBefore  func()
	OnSuccess func(data *Page[E, M])
	OnError   func(err error)
	OnFinally func(data *Page[E, M], err error)
}

// Options configures a Controller. The zero value is usable: automatic initial
// fetch, bottom direction, DefaultThreshold, no scroll target and no end
// detection.
type Options[E, M any] struct {
	// Manual disables the automatic initial fetch.
	Manual bool
	// Target resolves the scroll container. Nil disables scroll-triggered loading.
	Target TargetResolver
	// Direction defaults to DirectionBottom.
	Direction Direction
	// IsNoMore reports whether the accumulated data is complete.
	IsNoMore func(data *Page[E, M]) bool
	// Threshold defaults to DefaultThreshold.
	Threshold int
	// ReloadDeps initial values of the reload dependencies, see Controller.SetReloadDeps.
	ReloadDeps []any
	Hooks      Hooks[E, M]
	// Logger defaults to a logger that discards everything.
	Logger *slog.Logger
}

func NewOptions[E, M any]() *Options[E, M] {
	return new(Options[E, M])
}

// WithManual disables the automatic initial fetch. The caller starts loading
// with Reload, ReloadWait or LoadMore.
func (o *Options[E, M]) WithManual() *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.Manual = true

	return o
}

// WithTarget sets the scroll container resolver.
func (o *Options[E, M]) WithTarget(target TargetResolver) *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.Target = target

	return o
}

// WithDirection sets the loading direction.
func (o *Options[E, M]) WithDirection(direction Direction) *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.Direction = direction

	return o
}

// WithNoMore sets the end-of-data predicate.
func (o *Options[E, M]) WithNoMore(isNoMore func(data *Page[E, M]) bool) *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.IsNoMore = isNoMore

	return o
}

// WithThreshold sets the scroll trigger distance. Non-positive values fall
// back to DefaultThreshold.
func (o *Options[E, M]) WithThreshold(threshold int) *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.Threshold = threshold

	return o
}

// WithReloadDeps sets the initial reload dependency values.
func (o *Options[E, M]) WithReloadDeps(deps ...any) *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.ReloadDeps = deps

	return o
}

// WithHooks sets the lifecycle callbacks.
func (o *Options[E, M]) WithHooks(hooks Hooks[E, M]) *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.Hooks = hooks

	return o
}

// WithLogger sets the logger used for fetch lifecycle records.
func (o *Options[E, M]) WithLogger(logger *slog.Logger) *Options[E, M] {
	if o == nil {
		o = new(Options[E, M])
	}

	o.Logger = logger

	return o
}

// normalized returns a copy with defaults applied.
func (o *Options[E, M]) normalized() Options[E, M] {
	var ret Options[E, M]
	if o != nil {
		ret = *o
	}

	if !ret.Direction.Valid() {
		ret.Direction = DirectionBottom
	}
	if ret.Threshold <= 0 {
		ret.Threshold = DefaultThreshold
	}
	if ret.IsNoMore == nil {
		ret.IsNoMore = func(*Page[E, M]) bool { return false }
	}
	if ret.Logger == nil {
		ret.Logger = slog.New(slog.DiscardHandler)
	}

	return ret
}
