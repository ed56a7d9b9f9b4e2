package ui

import (
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/command"
	"InkBoard/internal/doc"
	"InkBoard/internal/overlay"
)

// DocumentArea is the scrollable document column with the overlay pinned
// over it. It is the overlay's container.
type DocumentArea struct {
	Scroll *container.Scroll

	// OnExport is called with the view of an inline block whose export
	// button was tapped.
	OnExport func(v *command.View)

	editor  *command.Editor
	newView func(id string) (*command.View, error)

	column  *fyne.Container
	layer   *fyne.Container
	blocks  map[string]*DrawingWidget
	frames  map[string]*blockFrame
	overlay *DrawingWidget
	ink     *canvas.Raster

	positioning string
}

var _ overlay.Container = (*DocumentArea)(nil)

// NewDocumentArea builds the area for e. newView opens the view of a
// drawing block.
func NewDocumentArea(e *command.Editor, newView func(id string) (*command.View, error)) *DocumentArea {
	a := &DocumentArea{
		editor:  e,
		newView: newView,
		column:  container.NewVBox(),
		blocks:  make(map[string]*DrawingWidget),
		frames:  make(map[string]*blockFrame),
	}
	a.layer = container.New(&pinLayout{area: a}, a.column)
	a.Scroll = container.NewScroll(a.layer)
	a.Scroll.OnScrolled = func(fyne.Position) { e.Notify() }
	e.Document().Subscribe(func(c doc.Change) {
		if n, ok := e.Document().Node(c.ID); ok && c.Kind == doc.Updated && n.Type == doc.Drawing {
			a.syncOverlay()
			a.column.Refresh()
			return
		}
		a.rebuild()
	})
	a.rebuild()
	return a
}

func (a *DocumentArea) ClientWidth() float64 {
	return float64(a.Scroll.Size().Width)
}

func (a *DocumentArea) ScrollHeight() float64 {
	return float64(max(a.column.MinSize().Height, a.Scroll.Size().Height))
}

func (a *DocumentArea) Positioning() string { return a.positioning }

// SetPositioning records the anchoring the overlay requested. The pin
// layout always anchors the layer at the content origin.
func (a *DocumentArea) SetPositioning(p string) { a.positioning = p }

// Overlay returns the overlay widget, or nil.
func (a *DocumentArea) Overlay() *DrawingWidget { return a.overlay }

// rebuild recreates the column from the document, reusing open views.
func (a *DocumentArea) rebuild() {
	seen := make(map[string]bool)
	var objs []fyne.CanvasObject
	var top *DrawingWidget
	for _, n := range a.editor.Document().Nodes() {
		switch n.Type {
		case doc.Paragraph:
			l := widget.NewLabel(n.Text)
			l.Wrapping = fyne.TextWrapWord
			objs = append(objs, l)
		case doc.Drawing:
			w := a.block(n.ID)
			if w == nil {
				continue
			}
			seen[n.ID] = true
			if n.Attrs.Overlay {
				top = w
				continue
			}
			objs = append(objs, a.frame(w))
		}
	}
	for id, w := range a.blocks {
		if !seen[id] {
			w.View().Close()
			a.editor.Detach(id)
			delete(a.blocks, id)
			delete(a.frames, id)
		}
	}
	a.column.Objects = objs
	a.column.Refresh()

	a.overlay = top
	a.layer.Objects = []fyne.CanvasObject{a.column}
	if top != nil {
		v := top.View()
		ink := canvas.NewRaster(func(int, int) image.Image { return v.Raster().Image() })
		v.OnRender = func() {
			top.raster.Refresh()
			ink.Refresh()
		}
		a.ink = ink
		a.layer.Objects = append(a.layer.Objects, ink, top)
		a.editor.Attach(v)
	}
	a.syncOverlay()
	a.layer.Refresh()
	a.editor.Notify()
}

func (a *DocumentArea) block(id string) *DrawingWidget {
	if w, ok := a.blocks[id]; ok {
		return w
	}
	v, err := a.newView(id)
	if err != nil {
		log.Printf("[UI] Could not open drawing %s: %v", id, err)
		return nil
	}
	w := NewDrawingWidget(v)
	a.blocks[id] = w
	return w
}

// blockFrame is an inline drawing with its own control row.
type blockFrame struct {
	*fyne.Container
	clear  *widget.Button
	export *widget.Button
}

func (a *DocumentArea) frame(w *DrawingWidget) *blockFrame {
	v := w.View()
	if f, ok := a.frames[v.ID()]; ok {
		return f
	}
	f := &blockFrame{
		clear: widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
			v.Clear()
			v.Queue().Flush()
		}),
		export: widget.NewButtonWithIcon("Export PNG", theme.DocumentSaveIcon(), func() {
			v.Queue().Flush()
			if a.OnExport != nil {
				a.OnExport(v)
			}
		}),
	}
	bar := container.NewHBox(f.clear, f.export, layout.NewSpacer())
	f.Container = container.NewBorder(nil, bar, nil, nil, w)
	a.frames[v.ID()] = f
	return f
}

// syncOverlay swaps the overlay's input layer for a passive copy of its ink
// while it is inactive, so blocks underneath can be drawn on.
func (a *DocumentArea) syncOverlay() {
	if a.overlay == nil {
		return
	}
	n, ok := a.editor.FindOverlay()
	if ok && n.Attrs.Active {
		a.overlay.Show()
		a.ink.Hide()
	} else {
		a.overlay.Hide()
		a.ink.Show()
	}
	a.layer.Refresh()
}

// pinLayout sizes the column to its natural height and stretches every
// other child over the full overlay size, anchored at the origin.
type pinLayout struct {
	area *DocumentArea
}

func (l *pinLayout) Layout(objs []fyne.CanvasObject, size fyne.Size) {
	for i, o := range objs {
		o.Move(fyne.NewPos(0, 0))
		if i == 0 {
			o.Resize(fyne.NewSize(size.Width, max(o.MinSize().Height, size.Height)))
			continue
		}
		if w := l.area.overlay; w != nil {
			o.Resize(w.MinSize())
		}
	}
	l.area.editor.Notify()
}

func (l *pinLayout) MinSize(objs []fyne.CanvasObject) fyne.Size {
	var s fyne.Size
	for _, o := range objs {
		s = s.Max(o.MinSize())
	}
	return s
}
