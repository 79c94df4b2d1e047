package goscroll

import (
	"fmt"
	"log/slog"
	"sync"
)

// dispatcher delivers queued callbacks one at a time in enqueue order.
//
// Callbacks run outside of any controller lock, so they may call back into the
// controller. A callback enqueued from inside another callback is delivered by
// the goroutine that is already flushing, after the current one returns.
type dispatcher struct {
	mu      sync.Mutex
	queue   []func()
	running bool
	log     *slog.Logger
}

func (d *dispatcher) enqueue(fn func()) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
}

// flush drains the queue unless another goroutine is already draining it.
func (d *dispatcher) flush() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true

	for len(d.queue) > 0 {
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]

		d.mu.Unlock()
		d.call(fn)
		d.mu.Lock()
	}

	d.running = false
	d.mu.Unlock()
}

func (d *dispatcher) call(fn func()) {
	defer func() {
		if r := recover(); r != nil && d.log != nil {
			d.log.Warn("goscroll: callback panicked", slog.String("panic", fmt.Sprint(r)))
		}
	}()

	fn()
}
