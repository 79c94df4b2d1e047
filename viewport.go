package goscroll

import (
	"sync"
)

// Viewport is an in-memory scroll container. Hosts that own their rendering
// (terminal UIs, tests, server-side renderers) report geometry changes to it
// and the controller observes it like any other ScrollTarget.
//
// The scroll offset is kept within [0, Height-ClientHeight].
type Viewport struct {
	mu        sync.Mutex
	metrics   ScrollMetrics
	listeners map[int]func()
	nextID    int
}

// NewViewport creates a viewport with the given content and visible heights,
// scrolled to the top.
func NewViewport(contentHeight, clientHeight int) *Viewport {
	return &Viewport{
		metrics: ScrollMetrics{
			Height:       max(contentHeight, 0),
			ClientHeight: max(clientHeight, 0),
		},
		listeners: make(map[int]func()),
	}
}

// ScrollMetrics implements ScrollTarget.
func (v *Viewport) ScrollMetrics() ScrollMetrics {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.metrics
}

// OnScroll implements ScrollTarget.
func (v *Viewport) OnScroll(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.listeners == nil {
		v.listeners = make(map[int]func())
	}

	id := v.nextID
	v.nextID++
	v.listeners[id] = fn

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		delete(v.listeners, id)
	}
}

// Listeners returns the number of attached scroll listeners.
func (v *Viewport) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.listeners)
}

// ScrollTo moves the offset to top and dispatches a scroll event.
func (v *Viewport) ScrollTo(top int) {
	v.mu.Lock()
	v.metrics.Top = top
	v.clampLocked()
	v.mu.Unlock()

	v.dispatch()
}

// ScrollBy moves the offset by delta and dispatches a scroll event.
func (v *Viewport) ScrollBy(delta int) {
	v.mu.Lock()
	v.metrics.Top += delta
	v.clampLocked()
	v.mu.Unlock()

	v.dispatch()
}

// ScrollToBottom moves the offset to the end of the content.
func (v *Viewport) ScrollToBottom() {
	v.mu.Lock()
	v.metrics.Top = v.metrics.Height - v.metrics.ClientHeight
	v.clampLocked()
	v.mu.Unlock()

	v.dispatch()
}

// SetContentHeight updates the content height without dispatching a scroll event.
func (v *Viewport) SetContentHeight(height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.metrics.Height = max(height, 0)
	v.clampLocked()
}

// SetClientHeight updates the visible height without dispatching a scroll event.
func (v *Viewport) SetClientHeight(height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.metrics.ClientHeight = max(height, 0)
	v.clampLocked()
}

// PrependContent grows the content by height above the current position and
// shifts the offset so the visible content stays in place.
func (v *Viewport) PrependContent(height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.metrics.Height += max(height, 0)
	v.metrics.Top += max(height, 0)
	v.clampLocked()
}

func (v *Viewport) clampLocked() {
	maxTop := max(v.metrics.Height-v.metrics.ClientHeight, 0)
	v.metrics.Top = min(max(v.metrics.Top, 0), maxTop)
}

// dispatch calls listeners outside the lock so they may read metrics.
func (v *Viewport) dispatch() {
	v.mu.Lock()
	fns := make([]func(), 0, len(v.listeners))
	for id := 0; id < v.nextID; id++ {
		if fn, ok := v.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

var _ ScrollTarget = (*Viewport)(nil)
