package ui

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/capture"
	"InkBoard/internal/command"
	"InkBoard/internal/config"
	"InkBoard/internal/doc"
	"InkBoard/internal/export"
	"InkBoard/internal/sched"
	"InkBoard/internal/state"
)

const frameInterval = time.Second / 60

// App is the assembled desktop host.
type App struct {
	Editor   *command.Editor
	Registry *command.Registry
	Queue    *sched.Queue
	Frames   *sched.Frames
	Area     *DocumentArea

	cfg       config.Config
	fyneApp   fyne.App
	window    fyne.Window
	statusBar *widget.Label
}

// NewApp builds the window for d.
func NewApp(a fyne.App, cfg config.Config, d *doc.Document) *App {
	h := &App{
		Queue:     &sched.Queue{},
		Frames:    &sched.Frames{},
		cfg:       cfg,
		fyneApp:   a,
		statusBar: widget.NewLabel("Ready"),
	}
	h.Editor = command.NewEditor(d, command.Config{GlobalOverlay: cfg.GlobalOverlay, Frames: h.Frames})
	h.Registry = command.NewRegistry(h.Editor)

	h.window = a.NewWindow("InkBoard")
	h.window.Resize(fyne.NewSize(1024, 768))

	h.Area = NewDocumentArea(h.Editor, h.openView)
	h.Area.OnExport = func(v *command.View) {
		h.exportAttrs("drawing.png", v.Attrs(), export.WritePNG)
	}
	h.Editor.Activate(h.Area)

	toolbar := NewToolbar(h.Editor, h.Queue, Actions{
		Insert:    func() { h.InsertDrawing() },
		ExportPNG: func() { h.export("drawing.png", export.WritePNG) },
		ExportPDF: func() { h.export("drawing.pdf", export.WritePDF) },
		Status:    h.SetStatus,
	})
	h.window.SetContent(container.NewBorder(toolbar, h.statusBar, nil, nil, h.Area.Scroll))
	return h
}

func (h *App) openView(id string) (*command.View, error) {
	return command.NewView(h.Editor.Document(), id, command.ViewConfig{
		Catalogue:  h.cfg.Catalogue(),
		Straighten: h.cfg.StraightenConfig(),
		Clock:      capture.PostClock{Clock: capture.SystemClock{}, Post: fyne.Do},
		Queue:      h.Queue,
		PixelRatio: float64(h.fyneApp.Settings().Scale()),
		Streamline: h.cfg.BaseStreamline,
	})
}

// Window returns the main window.
func (h *App) Window() fyne.Window { return h.window }

// SetStatus shows text in the status bar.
func (h *App) SetStatus(text string) {
	h.statusBar.SetText(text)
}

// Post runs fn on the UI goroutine, waits for it, then flushes deferred
// writes. Network handlers use it to reach the editor.
func (h *App) Post(fn func()) {
	fyne.DoAndWait(func() {
		fn()
		h.Queue.Flush()
	})
}

// InsertDrawing appends an empty drawing block and returns its id.
func (h *App) InsertDrawing() string {
	id := h.Editor.InsertDrawing(h.Editor.Document().Len(), nil)
	h.Queue.Flush()
	h.SetStatus("Drawing inserted")
	return id
}

func (h *App) export(name string, write func(io.Writer, image.Image) error) {
	n, ok := h.Editor.FindOverlay()
	if !ok {
		h.SetStatus("Nothing to export")
		return
	}
	h.exportAttrs(name, n.Attrs, write)
}

// exportAttrs snapshots a and asks where to write it.
func (h *App) exportAttrs(name string, a state.Attrs, write func(io.Writer, image.Image) error) {
	img := export.Snapshot(a, h.cfg.Catalogue(), 2, h.cfg.BaseStreamline)
	save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			return
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Printf("[EXPORT] Error closing writer: %v", err)
			}
		}()
		if err := write(w, img); err != nil {
			log.Printf("[EXPORT] %v", err)
			h.SetStatus("Export failed")
			return
		}
		h.SetStatus(fmt.Sprintf("Exported %d strokes to %s", len(a.Paths), w.URI().Name()))
	}, h.window)
	save.SetFileName(name)
	save.Show()
}

// Run starts the frame loop and shows the window until it is closed.
func (h *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Frames.Run(ctx, frameInterval, fyne.Do)
	h.window.ShowAndRun()
}

// RunApp opens d in a new desktop application.
func RunApp(cfg config.Config, d *doc.Document) {
	NewApp(app.New(), cfg, d).Run()
}
