package goscroll

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by LoadMoreWait while another fetch is in flight.
	ErrBusy = errors.New("goscroll: fetch already in flight")
	// ErrNoMore is returned by LoadMoreWait once IsNoMore reported the end of data.
	ErrNoMore = errors.New("goscroll: no more data")
	// ErrCanceled is delivered to waiters of an attempt superseded by Reload or Cancel.
	ErrCanceled = errors.New("goscroll: fetch canceled")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("goscroll: controller closed")
)

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("service panicked: %w", err)
	}

	return fmt.Errorf("service panicked: %v", r)
}
