package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/capture"
	"InkBoard/internal/command"
	"InkBoard/internal/geom"
)

// Pointer ids for the two input sources fyne reports.
const (
	mousePointer = iota
	touchPointer
)

// DrawingWidget shows one drawing block and feeds pointer input into its
// view.
type DrawingWidget struct {
	widget.BaseWidget
	view    *command.View
	raster  *canvas.Raster
	pressed bool
	pointer int
}

var _ fyne.Widget = (*DrawingWidget)(nil)
var _ fyne.Draggable = (*DrawingWidget)(nil)
var _ desktop.Mouseable = (*DrawingWidget)(nil)
var _ desktop.Hoverable = (*DrawingWidget)(nil)
var _ mobile.Touchable = (*DrawingWidget)(nil)

// NewDrawingWidget returns a widget bound to v.
func NewDrawingWidget(v *command.View) *DrawingWidget {
	w := &DrawingWidget{view: v}
	w.raster = canvas.NewRaster(func(int, int) image.Image { return v.Raster().Image() })
	w.raster.ScaleMode = canvas.ImageScaleSmooth
	v.OnRender = w.raster.Refresh
	w.ExtendBaseWidget(w)
	return w
}

// View returns the bound view.
func (w *DrawingWidget) View() *command.View { return w.view }

func (w *DrawingWidget) handle(kind capture.Kind, pointer int, pos fyne.Position) {
	w.view.Handle(capture.Event{
		Kind:      kind,
		PointerID: pointer,
		Position:  geom.Point{X: float64(pos.X), Y: float64(pos.Y)},
		Pressed:   w.pressed,
	})
	w.view.Queue().Flush()
}

func (w *DrawingWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.pressed, w.pointer = true, mousePointer
	w.handle(capture.Press, mousePointer, e.Position)
}

func (w *DrawingWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.pressed = false
	w.handle(capture.Release, mousePointer, e.Position)
}

// Dragged moves whichever pointer pressed last; touch drags arrive here too.
func (w *DrawingWidget) Dragged(e *fyne.DragEvent) {
	w.handle(capture.Move, w.pointer, e.Position)
}

func (w *DrawingWidget) DragEnd() {
	if w.pressed {
		w.pressed = false
		w.handle(capture.Release, w.pointer, fyne.Position{})
	}
}

func (w *DrawingWidget) MouseIn(*desktop.MouseEvent) {}

// MouseMoved is ignored; pressed motion arrives through Dragged.
func (w *DrawingWidget) MouseMoved(*desktop.MouseEvent) {}

// MouseOut ends a stroke in progress by committing it.
func (w *DrawingWidget) MouseOut() {
	w.handle(capture.Leave, mousePointer, fyne.Position{})
	w.pressed = false
}

func (w *DrawingWidget) TouchDown(e *mobile.TouchEvent) {
	w.pressed, w.pointer = true, touchPointer
	w.handle(capture.Press, touchPointer, e.Position)
}

func (w *DrawingWidget) TouchUp(e *mobile.TouchEvent) {
	w.pressed = false
	w.handle(capture.Release, touchPointer, e.Position)
}

// TouchCancel discards the stroke in progress.
func (w *DrawingWidget) TouchCancel(e *mobile.TouchEvent) {
	w.pressed = false
	w.handle(capture.Cancel, touchPointer, e.Position)
}

func (w *DrawingWidget) MinSize() fyne.Size {
	a := w.view.Attrs()
	return fyne.NewSize(float32(a.Width), float32(a.Height))
}

func (w *DrawingWidget) CreateRenderer() fyne.WidgetRenderer {
	return &drawingRenderer{w: w}
}

type drawingRenderer struct {
	w *DrawingWidget
}

func (r *drawingRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.w.raster}
}

func (r *drawingRenderer) Layout(size fyne.Size) {
	a := r.w.view.Attrs()
	r.w.raster.Resize(fyne.NewSize(float32(a.Width), float32(a.Height)))
}

func (r *drawingRenderer) MinSize() fyne.Size { return r.w.MinSize() }

func (r *drawingRenderer) Refresh() {
	r.Layout(r.w.Size())
	r.w.raster.Refresh()
}

func (r *drawingRenderer) Destroy() {}
