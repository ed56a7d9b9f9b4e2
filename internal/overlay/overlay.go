// Package overlay keeps the global ink layer sized to the host content area.
package overlay

import (
	"log/slog"

	"InkBoard/internal/logging"
	"InkBoard/internal/sched"
)

// Dimensions used when the container has not been laid out yet.
const (
	FallbackWidth  = 800
	FallbackHeight = 1200
)

// Container is the host content area the overlay is pinned over.
type Container interface {
	// ClientWidth is the visible width.
	ClientWidth() float64
	// ScrollHeight is the full scrollable height of the content.
	ScrollHeight() float64
	// Positioning returns the container's explicit positioning scheme, or
	// "" (or "static") when it has none.
	Positioning() string
	SetPositioning(string)
}

// Measure returns the size the overlay needs for c.
func Measure(c Container) (w, h float64) {
	w, h = c.ClientWidth(), c.ScrollHeight()
	if w <= 0 {
		w = FallbackWidth
	}
	if h <= 0 {
		h = FallbackHeight
	}
	return w, h
}

// Synchronizer applies container size changes to the overlay, at most once
// per animation frame.
type Synchronizer struct {
	c       Container
	frames  *sched.Frames
	apply   func(w, h float64)
	pending bool
	running bool
	w, h    float64
	log     *slog.Logger
}

// NewSynchronizer returns a stopped synchronizer. apply receives each new
// size.
func NewSynchronizer(c Container, frames *sched.Frames, apply func(w, h float64)) *Synchronizer {
	return &Synchronizer{c: c, frames: frames, apply: apply, log: logging.For("overlay")}
}

// Start anchors the container and applies the current size.
func (s *Synchronizer) Start() {
	if s.running {
		return
	}
	s.running = true
	if p := s.c.Positioning(); p == "" || p == "static" {
		s.c.SetPositioning("relative")
	}
	s.w, s.h = Measure(s.c)
	s.apply(s.w, s.h)
}

// Stop discards pending work. A frame already requested becomes a no-op.
func (s *Synchronizer) Stop() {
	s.running = false
	s.pending = false
}

// Notify reports that the container may have changed size: it was resized,
// its content mutated, or it scrolled.
func (s *Synchronizer) Notify() {
	if !s.running || s.pending {
		return
	}
	s.pending = true
	s.frames.Request(s.frame)
}

func (s *Synchronizer) frame() {
	if !s.running || !s.pending {
		return
	}
	s.pending = false
	w, h := Measure(s.c)
	if w == s.w && h == s.h {
		return
	}
	s.w, s.h = w, h
	s.log.Debug("overlay resized", "width", w, "height", h)
	s.apply(w, h)
}

// Size returns the last applied size.
func (s *Synchronizer) Size() (w, h float64) { return s.w, s.h }
