// Package sched provides the two cooperative deferral points the engine
// uses to keep host mutations out of the current render pass: a microtask
// queue and an animation-frame scheduler. Neither is safe for concurrent
// use; both run on the UI goroutine.
package sched

import (
	"context"
	"time"
)

// Queue holds tasks deferred to the end of the current event turn.
type Queue struct {
	tasks    []func()
	flushing bool
}

// Defer queues fn to run at the next Flush.
func (q *Queue) Defer(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int { return len(q.tasks) }

// Flush runs queued tasks in order until the queue is empty, including tasks
// queued by the tasks themselves. A nested Flush is a no-op.
func (q *Queue) Flush() {
	if q.flushing {
		return
	}
	q.flushing = true
	defer func() { q.flushing = false }()
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		fn()
	}
}

// Frames collects callbacks for the next animation frame.
type Frames struct {
	pending []func()
}

// Request schedules fn for the next Tick. Callers coalesce their own bursts.
func (f *Frames) Request(fn func()) {
	f.pending = append(f.pending, fn)
}

// Pending reports whether a frame has been requested.
func (f *Frames) Pending() bool { return len(f.pending) > 0 }

// Tick runs the callbacks requested before the tick began. Callbacks
// requested during the tick wait for the next one.
func (f *Frames) Tick() {
	run := f.pending
	f.pending = nil
	for _, fn := range run {
		fn()
	}
}

// Run ticks f every interval until ctx is done. post marshals each tick
// onto the UI goroutine, for example fyne.Do.
func (f *Frames) Run(ctx context.Context, interval time.Duration, post func(func())) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			post(f.Tick)
		}
	}
}
