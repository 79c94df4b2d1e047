package goscroll

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

type tMeta struct {
	NextID int
}

type tPage = Page[int, tMeta]

func page(nextID int, items ...int) *tPage {
	return &tPage{List: items, Meta: tMeta{NextID: nextID}}
}

func noMoreWithoutNextID(p *tPage) bool {
	return p != nil && p.Meta.NextID == 0
}

type tReply struct {
	page *tPage
	err  error
}

// tCall is one pending invocation of a tStubService.
type tCall struct {
	ctx   context.Context
	prev  *tPage
	reply chan tReply
}

func (c *tCall) resolve(p *tPage) {
	c.reply <- tReply{page: p}
}

func (c *tCall) reject(err error) {
	c.reply <- tReply{err: err}
}

// tStubService blocks every fetch until the test resolves it. It ignores
// context cancellation so tests can deliver results of superseded attempts.
type tStubService struct {
	calls chan *tCall
	count atomic.Int32
}

func newStubService() *tStubService {
	return &tStubService{calls: make(chan *tCall, 16)}
}

func (s *tStubService) fetch(ctx context.Context, prev *tPage) (*tPage, error) {
	s.count.Add(1)
	call := &tCall{ctx: ctx, prev: prev, reply: make(chan tReply, 1)}
	s.calls <- call

	r := <-call.reply
	return r.page, r.err
}

func (s *tStubService) next(t *testing.T) *tCall {
	t.Helper()

	select {
	case call := <-s.calls:
		return call
	case <-time.After(waitTimeout):
		t.Fatalf("service was not called")
		return nil
	}
}

func (s *tStubService) requireNoCall(t *testing.T) {
	t.Helper()

	select {
	case call := <-s.calls:
		t.Fatalf("unexpected service call with prev=%v", call.prev)
	case <-time.After(30 * time.Millisecond):
	}
}

// tSequenceService resolves immediately with the configured pages in order,
// repeating the last one.
type tSequenceService struct {
	mu    sync.Mutex
	pages []*tPage
	count int
}

func (s *tSequenceService) fetch(_ context.Context, _ *tPage) (*tPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := min(s.count, len(s.pages)-1)
	s.count++

	return s.pages[idx], nil
}

func (s *tSequenceService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

// tRecorder records hook invocations in order.
type tRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *tRecorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *tRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events...)
}

func (r *tRecorder) hooks() Hooks[int, tMeta] {
	return Hooks[int, tMeta]{
		OnBefore:  func() { r.add("before") },
		OnSuccess: func(*tPage) { r.add("success") },
		OnError:   func(error) { r.add("error") },
		OnFinally: func(*tPage, error) { r.add("finally") },
	}
}

// tTarget is a scroll container with directly settable metrics.
type tTarget struct {
	mu       sync.Mutex
	metrics  ScrollMetrics
	listener func()
	detached int
}

func (t *tTarget) ScrollMetrics() ScrollMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.metrics
}

func (t *tTarget) OnScroll(fn func()) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.listener = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		t.listener = nil
		t.detached++
	}
}

func (t *tTarget) set(top, height, clientHeight int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics = ScrollMetrics{Top: top, Height: height, ClientHeight: clientHeight}
}

func (t *tTarget) scroll() {
	t.mu.Lock()
	fn := t.listener
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func waitSettled[E, M any](t *testing.T, c *Controller[E, M]) State[E, M] {
	t.Helper()

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return !s.Loading && !s.LoadingMore
	}, waitTimeout, time.Millisecond)

	return c.Snapshot()
}
