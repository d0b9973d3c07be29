// Package eventloop runs closures one at a time on a single goroutine.
// State touched only from loop tasks needs no further locking.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var ErrClosed = errors.New("event loop closed")

// Loop is a FIFO task queue drained by one goroutine.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// New starts a loop. queueSize bounds the number of tasks waiting to run;
// Post blocks while the queue is full.
func New(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = 64
	}
	l := &Loop{
		tasks:   make(chan func(), queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post enqueues fn without waiting for it to run.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Do enqueues fn and waits until it has run. fn either runs and Do returns
// nil, or it never runs and Do returns the reason: ctx's error if the caller
// gave up first, ErrClosed if the loop stopped first.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	var claimed atomic.Bool
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		if claimed.CompareAndSwap(false, true) {
			fn()
		}
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		if claimed.CompareAndSwap(false, true) {
			return ctx.Err()
		}
		// fn is already running.
		<-finished
		return nil
	case <-l.stopped:
		// The loop may have exited right after running fn.
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Close stops the loop. Tasks still queued are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
	<-l.stopped
}
