// Package command is the layer the host uses to drive drawing blocks: the
// overlay commands, extension activation and the per-block views.
package command

import (
	"log/slog"
	"math"

	"InkBoard/internal/doc"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/overlay"
	"InkBoard/internal/sched"
	"InkBoard/internal/state"
)

// Config configures an Editor.
type Config struct {
	// GlobalOverlay enables the document-wide drawing layer.
	GlobalOverlay bool
	// Frames paces overlay resizes. Nil allocates a private scheduler the
	// host must tick through Editor.Frames.
	Frames *sched.Frames
}

// Editor runs drawing commands against a document. Every overlay command
// locates the overlay by scanning the document; the result is never cached.
type Editor struct {
	doc   *doc.Document
	cfg   Config
	views map[string]*View
	sync  *overlay.Synchronizer
	unsub func()
	log   *slog.Logger
}

// NewEditor returns an editor over d.
func NewEditor(d *doc.Document, cfg Config) *Editor {
	if cfg.Frames == nil {
		cfg.Frames = &sched.Frames{}
	}
	return &Editor{
		doc:   d,
		cfg:   cfg,
		views: make(map[string]*View),
		log:   logging.For("command"),
	}
}

// Document returns the edited document.
func (e *Editor) Document() *doc.Document { return e.doc }

// Frames returns the scheduler overlay resizes are queued on.
func (e *Editor) Frames() *sched.Frames { return e.cfg.Frames }

// GlobalOverlay reports whether the overlay feature is enabled.
func (e *Editor) GlobalOverlay() bool { return e.cfg.GlobalOverlay }

// FindOverlay returns the overlay block, if the document has one.
func (e *Editor) FindOverlay() (doc.Node, bool) {
	var found doc.Node
	ok := false
	e.doc.Walk(func(n doc.Node) bool {
		if n.Type == doc.Drawing && n.Attrs.Overlay {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Overlays returns how many blocks are marked as overlay.
func (e *Editor) Overlays() int {
	count := 0
	e.doc.Walk(func(n doc.Node) bool {
		if n.Type == doc.Drawing && n.Attrs.Overlay {
			count++
		}
		return true
	})
	return count
}

// updateOverlay applies fn to a copy of the overlay attributes and writes
// the result back in one replace. fn returns false to skip the write.
func (e *Editor) updateOverlay(op string, fn func(*state.Attrs) bool) bool {
	n, ok := e.FindOverlay()
	if !ok {
		e.log.Warn("no overlay", "command", op)
		return false
	}
	a := n.Attrs.Clone()
	if !fn(&a) {
		return true
	}
	if err := e.doc.ReplaceAttrs(n.ID, a); err != nil {
		e.log.Warn("replace attrs", "command", op, "err", err)
		return false
	}
	return true
}

// InsertDrawing inserts a drawing block at pos using a, or the defaults
// when a is nil, and returns its id. The new block is never an overlay.
func (e *Editor) InsertDrawing(pos int, a *state.Attrs) string {
	attrs := state.DefaultAttrs()
	if a != nil {
		attrs = a.Clone()
	}
	attrs.Overlay = false
	id := e.doc.Insert(pos, doc.NewDrawing(attrs))
	e.log.Debug("drawing inserted", "id", id, "pos", pos)
	return id
}

// ClearDrawing empties the overlay path list. When a view is attached the
// old list stays undoable.
func (e *Editor) ClearDrawing() bool {
	if n, ok := e.FindOverlay(); ok {
		if v := e.views[n.ID]; v != nil {
			v.Clear()
			return true
		}
	}
	return e.updateOverlay("clearDrawing", func(a *state.Attrs) bool {
		a.Paths = []state.Stroke{}
		return true
	})
}

// UndoDrawing undoes the last overlay commit or clear. It fails when there
// is no overlay view or nothing to undo.
func (e *Editor) UndoDrawing() bool {
	n, ok := e.FindOverlay()
	if !ok {
		return false
	}
	v := e.views[n.ID]
	if v == nil {
		return false
	}
	return v.Undo()
}

// SetDrawingTool selects tool on the overlay and activates it. Without an
// overlay it succeeds and does nothing.
func (e *Editor) SetDrawingTool(tool string) bool {
	if _, ok := e.FindOverlay(); !ok {
		return true
	}
	return e.updateOverlay("setDrawingTool", func(a *state.Attrs) bool {
		a.Tool = tool
		a.Active = true
		return true
	})
}

// EnableGlobalDrawing activates the overlay.
func (e *Editor) EnableGlobalDrawing() bool {
	return e.setActive("enableGlobalDrawing", true)
}

// DisableGlobalDrawing deactivates the overlay.
func (e *Editor) DisableGlobalDrawing() bool {
	return e.setActive("disableGlobalDrawing", false)
}

func (e *Editor) setActive(op string, v bool) bool {
	return e.updateOverlay(op, func(a *state.Attrs) bool {
		a.Active = v
		return true
	})
}

// SetDrawingColor sets the overlay colour for later strokes.
func (e *Editor) SetDrawingColor(c string) bool {
	return e.updateOverlay("setDrawingColor", func(a *state.Attrs) bool {
		a.Color = c
		return true
	})
}

// SetBrushSize sets the overlay brush size, clamped.
func (e *Editor) SetBrushSize(size float64) bool {
	return e.updateOverlay("setBrushSize", func(a *state.Attrs) bool {
		a.Size = geom.ClampBrushSize(size)
		return true
	})
}

// IncreaseBrushSize grows the overlay brush by step. At the bound it
// succeeds without writing.
func (e *Editor) IncreaseBrushSize(step float64) bool {
	return e.adjustSize("increaseBrushSize", clampStep(step))
}

// DecreaseBrushSize shrinks the overlay brush by step.
func (e *Editor) DecreaseBrushSize(step float64) bool {
	return e.adjustSize("decreaseBrushSize", -clampStep(step))
}

func (e *Editor) adjustSize(op string, delta float64) bool {
	return e.updateOverlay(op, func(a *state.Attrs) bool {
		next := geom.ClampBrushSize(a.Size + delta)
		if next == a.Size {
			return false
		}
		a.Size = next
		return true
	})
}

// clampStep bounds a size step to the span of valid brush sizes.
func clampStep(step float64) float64 {
	if math.IsNaN(step) {
		return 0
	}
	return geom.Clamp(step, 0, geom.MaxBrushSize-geom.MinBrushSize)
}

// ResizeOverlay sets the overlay dimensions, skipping the write when they
// are unchanged.
func (e *Editor) ResizeOverlay(w, h float64) bool {
	return e.updateOverlay("resizeOverlay", func(a *state.Attrs) bool {
		if a.Width == w && a.Height == h {
			return false
		}
		a.Width, a.Height = w, h
		return true
	})
}

// Activate creates the overlay over c when the feature is enabled and the
// document has none, then keeps it sized to c. It returns the overlay id,
// or "" when the feature is disabled.
func (e *Editor) Activate(c overlay.Container) string {
	if !e.cfg.GlobalOverlay {
		return ""
	}
	n, ok := e.FindOverlay()
	id := n.ID
	if !ok {
		a := state.DefaultAttrs()
		a.Width, a.Height = overlay.Measure(c)
		a.Overlay = true
		a.Active = true
		id = e.doc.Insert(0, doc.NewDrawing(a))
		e.log.Info("overlay created", "id", id, "width", a.Width, "height", a.Height)
	}
	e.Deactivate()
	s := overlay.NewSynchronizer(c, e.cfg.Frames, func(w, h float64) { e.ResizeOverlay(w, h) })
	s.Start()
	e.sync = s
	e.unsub = e.doc.Subscribe(func(doc.Change) { s.Notify() })
	return id
}

// Notify forwards a container resize or scroll to the synchronizer.
func (e *Editor) Notify() {
	if e.sync != nil {
		e.sync.Notify()
	}
}

// Deactivate stops overlay synchronization.
func (e *Editor) Deactivate() {
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	if e.sync != nil {
		e.sync.Stop()
		e.sync = nil
	}
}

// Attach routes overlay clear and undo through v.
func (e *Editor) Attach(v *View) { e.views[v.ID()] = v }

// Detach removes the view for id.
func (e *Editor) Detach(id string) { delete(e.views, id) }
