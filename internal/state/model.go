package state

import (
	"github.com/google/uuid"

	"InkBoard/internal/geom"
)

// Stroke is one committed or in-progress pointer drag. Color, Size, Opacity
// and Tool are snapshotted when the stroke starts and never follow later
// surface-wide changes.
type Stroke struct {
	ID      string       `json:"id"`
	Points  []geom.Point `json:"points"`
	Color   string       `json:"color"`
	Size    float64      `json:"size"`
	Opacity float64      `json:"opacity"`
	Tool    string       `json:"tool"`
}

// Clone returns a deep copy of s.
func (s Stroke) Clone() Stroke {
	s.Points = append([]geom.Point(nil), s.Points...)
	return s
}

// ClonePaths deep-copies a path list. The result is never nil.
func ClonePaths(paths []Stroke) []Stroke {
	out := make([]Stroke, len(paths))
	for i, p := range paths {
		out[i] = p.Clone()
	}
	return out
}

// Attrs is the attribute bag persisted for one drawing block.
type Attrs struct {
	Paths     []Stroke `json:"paths"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Size      float64  `json:"size"`
	Smoothing float64  `json:"smoothing"`
	Color     string   `json:"color"`
	Opacity   float64  `json:"opacity"`
	Tool      string   `json:"tool"`
	Overlay   bool     `json:"overlay"`
	Active    bool     `json:"active"`
}

// Attribute defaults for a freshly inserted drawing block.
const (
	DefaultWidth     = 800
	DefaultHeight    = 400
	DefaultSize      = 8
	DefaultSmoothing = 0.5
	DefaultColor     = "#000000"
	DefaultOpacity   = 1
	DefaultTool      = "pen"
)

// DefaultAttrs returns the attribute bag of a new drawing block.
func DefaultAttrs() Attrs {
	return Attrs{
		Paths:     []Stroke{},
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Size:      DefaultSize,
		Smoothing: DefaultSmoothing,
		Color:     DefaultColor,
		Opacity:   DefaultOpacity,
		Tool:      DefaultTool,
	}
}

// Clone returns a deep copy of a.
func (a Attrs) Clone() Attrs {
	a.Paths = ClonePaths(a.Paths)
	return a
}

// WithPaths returns a copy of a holding paths.
func (a Attrs) WithPaths(paths []Stroke) Attrs {
	a.Paths = ClonePaths(paths)
	return a
}

// NewID returns a fresh stroke or node identifier.
func NewID() string {
	return uuid.NewString()
}

// Normalize assigns ids to strokes that lack one or repeat an earlier id and
// stamps legacy strokes with the surface parameters they were always drawn
// with, so their rendering is unchanged. It reports whether a was modified.
func Normalize(a *Attrs) bool {
	changed := false
	if a.Paths == nil {
		a.Paths = []Stroke{}
	}
	a.Size = geom.ClampBrushSize(a.Size)
	seen := make(map[string]bool, len(a.Paths))
	for i := range a.Paths {
		s := &a.Paths[i]
		if s.ID == "" {
			if s.Color == "" {
				s.Color = a.Color
			}
			if s.Size == 0 {
				s.Size = a.Size
			}
			if s.Tool == "" {
				s.Tool = DefaultTool
			}
			s.ID = NewID()
			changed = true
		} else if seen[s.ID] {
			s.ID = NewID()
			changed = true
		}
		seen[s.ID] = true
	}
	return changed
}
