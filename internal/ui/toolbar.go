package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/brush"
	"InkBoard/internal/command"
	"InkBoard/internal/geom"
	"InkBoard/internal/render"
	"InkBoard/internal/sched"
)

// Palette is the swatch row offered by the toolbar.
var Palette = []string{"#000000", "#FF2027", "#1E9E3A", "#1F5EFF", "#FFD400", "#FFFFFF"}

type colorSwatch struct {
	widget.BaseWidget
	Color    string
	OnTapped func(string)
}

func newColorSwatch(c string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(render.ParseColor(s.Color))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(*fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Actions are the toolbar callbacks that need the window.
type Actions struct {
	Insert    func()
	ExportPNG func()
	ExportPDF func()
	Status    func(string)
}

// NewToolbar returns the overlay controls. Every button runs a command and
// then flushes q so deferred writes land before the next frame.
func NewToolbar(e *command.Editor, q *sched.Queue, act Actions) fyne.CanvasObject {
	status := act.Status
	if status == nil {
		status = func(string) {}
	}
	run := func(name string, fn func() bool) {
		ok := fn()
		q.Flush()
		if !ok {
			status(name + ": no drawing layer")
		}
	}
	tool := func(t string) func() {
		return func() { run(t, func() bool { return e.SetDrawingTool(t) }) }
	}

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), tool(brush.Pen)),
		widget.NewToolbarAction(theme.ColorChromaticIcon(), tool(brush.Marker)),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), tool(brush.Highlighter)),
		widget.NewToolbarAction(theme.DeleteIcon(), tool(brush.Eraser)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { run("undo", e.UndoDrawing) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { run("clear", e.ClearDrawing) }),
		widget.NewToolbarAction(theme.VisibilityIcon(), func() {
			n, ok := e.FindOverlay()
			if ok && n.Attrs.Active {
				run("disable", e.DisableGlobalDrawing)
			} else {
				run("enable", e.EnableGlobalDrawing)
			}
		}),
	)
	if act.Insert != nil {
		tools.Append(widget.NewToolbarAction(theme.ContentAddIcon(), act.Insert))
	}
	if act.ExportPNG != nil {
		tools.Append(widget.NewToolbarAction(theme.DocumentSaveIcon(), act.ExportPNG))
	}
	if act.ExportPDF != nil {
		tools.Append(widget.NewToolbarAction(theme.FileIcon(), act.ExportPDF))
	}

	swatches := container.NewHBox()
	for _, c := range Palette {
		swatches.Add(newColorSwatch(c, func(c string) {
			run("color", func() bool { return e.SetDrawingColor(c) })
		}))
	}

	size := widget.NewSlider(geom.MinBrushSize, geom.MaxBrushSize)
	if n, ok := e.FindOverlay(); ok {
		size.SetValue(n.Attrs.Size)
	}
	size.OnChanged = func(v float64) {
		run("size", func() bool { return e.SetBrushSize(v) })
	}
	step := func(d float64) func() {
		return func() {
			if d > 0 {
				run("size", func() bool { return e.IncreaseBrushSize(d) })
			} else {
				run("size", func() bool { return e.DecreaseBrushSize(-d) })
			}
			if n, ok := e.FindOverlay(); ok {
				size.SetValue(n.Attrs.Size)
			}
		}
	}
	sizeBox := container.NewHBox(
		widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), step(-2)),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), size),
		widget.NewButtonWithIcon("", theme.ContentAddIcon(), step(2)),
	)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sizeBox,
		layout.NewSpacer(),
	)
}
