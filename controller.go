package goscroll

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// Controller loads a paginated Service incrementally and keeps the
// accumulated result.
//
// All methods are safe for concurrent use. Fetches run on their own goroutines;
// state transitions around them are atomic.
type Controller[E, M any] struct {
	service Service[E, M]
	opts    Options[E, M]
	log     *slog.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu         sync.Mutex
	state      State[E, M]
	inflight   *attempt[E, M]
	deps       []any
	detach     func()
	closed     bool
	listeners  []listener[E, M]
	listenerID int

	events dispatcher
}

type listener[E, M any] struct {
	id int
	fn func(State[E, M])
}

// attempt is one fetch invocation identified by its generation.
type attempt[E, M any] struct {
	gen    uint64
	kind   fetchKind
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	data   *Page[E, M]
	err    error
}

func (a *attempt[E, M]) finish(data *Page[E, M], err error) {
	a.once.Do(func() {
		a.data, a.err = data, err
		close(a.done)
	})
}

func (a *attempt[E, M]) wait(ctx context.Context) (*Page[E, M], error) {
	select {
	case <-a.done:
		return a.data, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// New creates a controller for service. Unless opts.Manual is set the initial
// fetch starts immediately. ctx bounds every fetch the controller issues;
// cancelling it has the same effect on in-flight fetches as Cancel.
func New[E, M any](ctx context.Context, service Service[E, M], opts *Options[E, M]) *Controller[E, M] {
	o := opts.normalized()
	baseCtx, baseCancel := context.WithCancel(ctx)

	c := &Controller[E, M]{
		service:    service,
		opts:       o,
		log:        o.Logger,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
		deps:       o.ReloadDeps,
	}
	c.events.log = o.Logger

	c.mu.Lock()
	c.attachLocked(o.Target)
	c.mu.Unlock()

	if !o.Manual {
		_, _ = c.start(fetchReload)
	}

	return c
}

// Snapshot returns the current state.
func (c *Controller[E, M]) Snapshot() State[E, M] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe registers fn to receive every published state snapshot in
// transition order. The returned function unregisters it.
func (c *Controller[E, M]) Subscribe(fn func(State[E, M])) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.listenerID
	c.listenerID++
	c.listeners = append(c.listeners, listener[E, M]{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.listeners = lo.Reject(c.listeners, func(l listener[E, M], _ int) bool {
			return l.id == id
		})
	}
}

// LoadMore starts a continuation fetch with the current data as the previous
// page. It does nothing while a fetch is in flight, after IsNoMore reported the
// end of data, or after Close.
func (c *Controller[E, M]) LoadMore() {
	_, _ = c.start(fetchMore)
}

// LoadMoreWait is LoadMore that waits for the outcome. It returns the merged
// data on success, the service error on failure and ErrCanceled when the fetch
// is superseded. Instead of doing nothing it returns ErrBusy, ErrNoMore or
// ErrClosed.
func (c *Controller[E, M]) LoadMoreWait(ctx context.Context) (*Page[E, M], error) {
	a, err := c.start(fetchMore)
	if err != nil {
		return nil, err
	}

	return a.wait(ctx)
}

// Reload starts over from the first page, superseding any fetch in flight.
// The accumulated data and NoMore are discarded when the fetch starts.
func (c *Controller[E, M]) Reload() {
	_, _ = c.start(fetchReload)
}

// ReloadWait is Reload that waits for the outcome, see LoadMoreWait.
func (c *Controller[E, M]) ReloadWait(ctx context.Context) (*Page[E, M], error) {
	a, err := c.start(fetchReload)
	if err != nil {
		return nil, err
	}

	return a.wait(ctx)
}

// Cancel drops the fetch in flight. Its result is ignored and no hook fires
// for it.
func (c *Controller[E, M]) Cancel() {
	c.mu.Lock()
	if c.closed || c.inflight == nil {
		c.mu.Unlock()
		return
	}

	c.log.Debug("goscroll: cancel", slog.Uint64("generation", c.state.Generation))
	c.invalidateLocked()
	c.state.Loading = false
	c.state.LoadingMore = false
	c.state.Phase = c.state.settledPhase()
	c.publishLocked()
	c.mu.Unlock()

	c.events.flush()
}

// Mutate replaces the accumulated data and recomputes NoMore. Loading flags,
// the error and any fetch in flight are left alone.
func (c *Controller[E, M]) Mutate(data *Page[E, M]) {
	c.MutateFunc(func(*Page[E, M]) *Page[E, M] {
		return data
	})
}

// MutateFunc replaces the accumulated data with update(current). update runs
// under the controller lock and must not call the controller. It must not
// modify current in place.
func (c *Controller[E, M]) MutateFunc(update func(current *Page[E, M]) *Page[E, M]) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.state.Data = update(c.state.Data)
	c.state.NoMore = c.opts.IsNoMore(c.state.Data)
	if !c.state.busy() {
		c.state.Phase = c.state.settledPhase()
	}
	c.publishLocked()
	c.mu.Unlock()

	c.events.flush()
}

// SetReloadDeps reports the current values of the reload dependencies. When
// they differ from the previously reported values the controller reloads once.
func (c *Controller[E, M]) SetReloadDeps(deps ...any) {
	c.mu.Lock()
	prev, closed := c.deps, c.closed
	c.mu.Unlock()

	if closed || !depsChanged(prev, deps) {
		return
	}

	c.mu.Lock()
	c.deps = deps
	c.mu.Unlock()

	c.log.Debug("goscroll: reload dependencies changed")
	c.Reload()
}

// Retarget detaches the scroll listener from the current container and
// attaches it to the one resolved by target.
func (c *Controller[E, M]) Retarget(target TargetResolver) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.detachLocked()
	c.attachLocked(target)
}

// Close tears the controller down: the fetch in flight is cancelled, the scroll
// listener detached and subscribers dropped. Further calls are no-ops.
func (c *Controller[E, M]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	c.invalidateLocked()
	c.state.Loading = false
	c.state.LoadingMore = false
	c.detachLocked()
	c.listeners = nil
	c.mu.Unlock()

	c.baseCancel()
}

func (c *Controller[E, M]) start(kind fetchKind) (*attempt[E, M], error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}

	if kind == fetchMore {
		if c.state.busy() {
			c.mu.Unlock()
			return nil, ErrBusy
		}
		if c.state.NoMore {
			c.mu.Unlock()
			return nil, ErrNoMore
		}
	}

	c.invalidateLocked()

	ctx, cancel := context.WithCancel(c.baseCtx)
	a := &attempt[E, M]{
		gen:    c.state.Generation,
		kind:   kind,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.inflight = a

	prev := lo.Ternary(kind == fetchMore, c.state.Data, nil)
	if kind == fetchReload {
		c.state.Data = nil
		c.state.NoMore = false
	}

	c.state.Err = nil
	c.state.Loading = kind == fetchReload
	c.state.LoadingMore = kind == fetchMore
	switch {
	case kind == fetchMore:
		c.state.Phase = PhaseLoadingMore
	case c.state.Phase == PhaseIdle || c.state.Phase == PhaseInitialLoading:
		c.state.Phase = PhaseInitialLoading
	default:
		c.state.Phase = PhaseReloading
	}

	c.log.Debug("goscroll: fetch started",
		slog.String("kind", kind.String()),
		slog.Uint64("generation", a.gen),
	)

	c.publishLocked()
	c.events.enqueue(c.opts.Hooks.OnBefore)
	c.mu.Unlock()

	c.events.flush()

	go c.run(ctx, a, prev)

	return a, nil
}

func (c *Controller[E, M]) run(ctx context.Context, a *attempt[E, M], prev *Page[E, M]) {
	page, err := c.call(ctx, prev)

	c.mu.Lock()
	if c.closed || a.gen != c.state.Generation || c.inflight != a {
		c.mu.Unlock()
		c.log.Debug("goscroll: stale result dropped", slog.Uint64("generation", a.gen))
		return
	}

	a.cancel()
	c.inflight = nil
	c.state.Loading = false
	c.state.LoadingMore = false

	var data *Page[E, M]
	if err != nil {
		c.state.Err = err
		c.state.Phase = PhaseErrored

		c.log.Debug("goscroll: fetch failed",
			slog.Uint64("generation", a.gen),
			slog.String("error", err.Error()),
		)

		c.publishLocked()
		if fn := c.opts.Hooks.OnError; fn != nil {
			c.events.enqueue(func() { fn(err) })
		}
	} else {
		data = mergePage(a.kind, c.opts.Direction, c.state.Data, page)
		c.state.Data = data
		c.state.NoMore = c.opts.IsNoMore(data)
		c.state.Phase = PhaseLoaded

		c.log.Debug("goscroll: fetch applied",
			slog.Uint64("generation", a.gen),
			slog.Int("fetched", page.Len()),
			slog.Int("total", data.Len()),
			slog.Bool("no_more", c.state.NoMore),
		)

		c.publishLocked()
		if fn := c.opts.Hooks.OnSuccess; fn != nil {
			c.events.enqueue(func() { fn(data) })
		}
	}
	if fn := c.opts.Hooks.OnFinally; fn != nil {
		c.events.enqueue(func() { fn(data, err) })
	}
	c.mu.Unlock()

	c.events.flush()
	a.finish(data, err)
}

// call invokes the service, converting a panic into an error.
func (c *Controller[E, M]) call(ctx context.Context, prev *Page[E, M]) (page *Page[E, M], err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, panicError(r)
		}
	}()

	return c.service(ctx, prev)
}

// invalidateLocked bumps the generation so the fetch in flight, if any, is
// ignored when it completes.
func (c *Controller[E, M]) invalidateLocked() {
	c.state.Generation++

	if a := c.inflight; a != nil {
		c.inflight = nil
		a.cancel()
		a.finish(nil, ErrCanceled)
	}
}

// publishLocked queues the current snapshot for every subscriber.
func (c *Controller[E, M]) publishLocked() {
	if len(c.listeners) == 0 {
		return
	}

	snapshot := c.state
	listeners := append([]listener[E, M](nil), c.listeners...)
	c.events.enqueue(func() {
		for _, l := range listeners {
			l.fn(snapshot)
		}
	})
}

func (c *Controller[E, M]) attachLocked(resolver TargetResolver) {
	target := resolver.resolve()
	if target == nil {
		return
	}

	c.detach = target.OnScroll(func() {
		c.onScroll(target)
	})
}

func (c *Controller[E, M]) detachLocked() {
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
}

func (c *Controller[E, M]) onScroll(target ScrollTarget) {
	c.mu.Lock()
	blocked := c.closed || c.state.busy() || c.state.NoMore
	c.mu.Unlock()

	if blocked {
		return
	}

	if target.ScrollMetrics().reachedEdge(c.opts.Direction, c.opts.Threshold) {
		c.LoadMore()
	}
}
