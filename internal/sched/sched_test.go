package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueFlushOrder(t *testing.T) {
	var q Queue
	var got []int
	q.Defer(func() { got = append(got, 1) })
	q.Defer(func() {
		got = append(got, 2)
		q.Defer(func() { got = append(got, 4) })
	})
	q.Defer(func() { got = append(got, 3) })
	assert.Equal(t, 3, q.Len())
	assert.Empty(t, got, "deferred tasks do not run eagerly")

	q.Flush()
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Zero(t, q.Len())
}

func TestQueueNestedFlush(t *testing.T) {
	var q Queue
	var got []string
	q.Defer(func() {
		got = append(got, "outer")
		q.Defer(func() { got = append(got, "inner") })
		q.Flush()
		got = append(got, "after")
	})
	q.Flush()
	assert.Equal(t, []string{"outer", "after", "inner"}, got)
}

func TestFramesTick(t *testing.T) {
	var f Frames
	n := 0
	f.Request(func() {
		n++
		f.Request(func() { n += 10 })
	})
	assert.True(t, f.Pending())

	f.Tick()
	assert.Equal(t, 1, n)
	assert.True(t, f.Pending(), "requests made during a tick wait for the next")

	f.Tick()
	assert.Equal(t, 11, n)
	assert.False(t, f.Pending())
}

func TestFramesRun(t *testing.T) {
	var f Frames
	var mu sync.Mutex
	done := make(chan struct{})
	f.Request(func() { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx, time.Millisecond, func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frame never ran")
	}
}
