package capture

import "time"

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Clock schedules the straighten hold timer. Callbacks must be delivered on
// the goroutine that drives the Machine; host glue wraps SystemClock to
// guarantee that.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock uses time.AfterFunc.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// PostClock runs callbacks from an underlying clock through post, typically
// fyne.Do, so they land on the UI goroutine.
type PostClock struct {
	Clock Clock
	Post  func(func())
}

func (c PostClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.Clock.AfterFunc(d, func() { c.Post(f) })
}
