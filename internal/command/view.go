package command

import (
	"log/slog"

	"InkBoard/internal/brush"
	"InkBoard/internal/capture"
	"InkBoard/internal/doc"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/sched"
	"InkBoard/internal/state"
)

// ViewConfig configures a View.
type ViewConfig struct {
	// Catalogue maps tools to brush presets. Nil uses the defaults.
	Catalogue  brush.Catalogue
	Straighten capture.Straighten
	Clock      capture.Clock
	// Queue receives the deferred "paths" writes. The host flushes it after
	// each input event.
	Queue      *sched.Queue
	PixelRatio float64
	// Streamline is the base streamline factor before brush multipliers.
	Streamline float64
}

// View binds one drawing block to a capture machine and a raster. The
// document is the source of truth: committed strokes are re-read from it
// after every change.
type View struct {
	// OnRender is called after the raster has been repainted.
	OnRender func()

	id      string
	doc     *doc.Document
	cfg     ViewConfig
	attrs   state.Attrs
	machine *capture.Machine
	raster  *render.Raster
	painter *render.Painter
	unsub   func()
	// writes counts queued "paths" writes not yet applied to the document.
	writes int
	log    *slog.Logger
}

// NewView opens a view on drawing block id.
func NewView(d *doc.Document, id string, cfg ViewConfig) (*View, error) {
	n, ok := d.Node(id)
	if !ok || n.Type != doc.Drawing {
		return nil, doc.ErrNotFound
	}
	if cfg.Queue == nil {
		cfg.Queue = &sched.Queue{}
	}
	if cfg.PixelRatio <= 0 {
		cfg.PixelRatio = 1
	}
	v := &View{
		id:      id,
		doc:     d,
		cfg:     cfg,
		attrs:   n.Attrs,
		machine: capture.NewMachine(capture.Config{Straighten: cfg.Straighten, Clock: cfg.Clock}),
		raster:  render.NewRaster(n.Attrs.Width, n.Attrs.Height, cfg.PixelRatio),
		painter: render.NewPainter(cfg.Catalogue),
		log:     logging.For("view").With("id", id),
	}
	v.apply()
	v.machine.OnChange = v.render
	v.machine.OnCommit = v.persist
	v.unsub = d.Subscribe(v.changed)
	v.render()
	return v, nil
}

// ID returns the block id.
func (v *View) ID() string { return v.id }

// Attrs returns the block attributes as last read from the document.
func (v *View) Attrs() state.Attrs { return v.attrs.Clone() }

// Machine returns the capture machine.
func (v *View) Machine() *capture.Machine { return v.machine }

// Raster returns the rendering surface.
func (v *View) Raster() *render.Raster { return v.raster }

// Queue returns the queue persistence writes are deferred to.
func (v *View) Queue() *sched.Queue { return v.cfg.Queue }

// Handle forwards a pointer event to the capture machine.
func (v *View) Handle(e capture.Event) { v.machine.Handle(e) }

// Undo undoes the last commit or clear.
func (v *View) Undo() bool { return v.machine.Undo() }

// Clear empties the block, keeping the old strokes undoable.
func (v *View) Clear() { v.machine.Clear() }

// SetPixelRatio resizes the backing store for a new display density.
func (v *View) SetPixelRatio(dpr float64) {
	if dpr <= 0 || dpr == v.cfg.PixelRatio {
		return
	}
	v.cfg.PixelRatio = dpr
	v.raster.Resize(v.attrs.Width, v.attrs.Height, dpr)
	v.render()
}

// Close stops following the document.
func (v *View) Close() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

func (v *View) changed(c doc.Change) {
	if c.Kind != doc.Restored && c.ID != v.id {
		return
	}
	n, ok := v.doc.Node(v.id)
	if !ok || n.Type != doc.Drawing {
		v.machine.SetEnabled(false)
		return
	}
	resized := n.Attrs.Width != v.attrs.Width || n.Attrs.Height != v.attrs.Height
	v.attrs = n.Attrs
	if resized {
		v.raster.Resize(v.attrs.Width, v.attrs.Height, v.cfg.PixelRatio)
	}
	v.apply()
	v.render()
}

// apply pushes the current attributes into the machine. While a paths
// write is queued the document copy is stale, so the committed list is
// left alone until the last write lands.
func (v *View) apply() {
	a := v.attrs
	if v.writes == 0 {
		v.machine.SetCommitted(a.Paths)
	}
	v.machine.SetParams(capture.Params{Color: a.Color, Size: a.Size, Opacity: a.Opacity, Tool: a.Tool})
	v.machine.SetEnabled(!a.Overlay || a.Active)
}

func (v *View) style() render.Style {
	return render.Style{Smoothing: v.attrs.Smoothing, Streamline: v.cfg.Streamline}
}

func (v *View) render() {
	v.painter.Paint(v.raster, v.machine.Committed(), v.machine.Live(), v.style())
	if v.OnRender != nil {
		v.OnRender()
	}
}

// persist writes paths to the document once the current render pass is
// over.
func (v *View) persist(paths []state.Stroke) {
	v.writes++
	v.cfg.Queue.Defer(func() {
		v.writes--
		n, ok := v.doc.Node(v.id)
		if !ok {
			v.log.Warn("drawing removed before paths were saved", "paths", len(paths))
			return
		}
		if err := v.doc.ReplaceAttrs(v.id, n.Attrs.WithPaths(paths)); err != nil {
			v.log.Warn("save paths", "err", err)
		}
	})
}
