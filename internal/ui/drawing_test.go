package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/command"
	"InkBoard/internal/config"
	"InkBoard/internal/doc"
	"InkBoard/internal/sched"
	"InkBoard/internal/state"
)

func newDrawing(t *testing.T) (*DrawingWidget, *command.Editor) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	e := command.NewEditor(doc.New(), command.Config{})
	id := e.InsertDrawing(0, nil)
	v, err := command.NewView(e.Document(), id, command.ViewConfig{Queue: &sched.Queue{}, Streamline: 0.5})
	require.NoError(t, err)
	return NewDrawingWidget(v), e
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func paths(t *testing.T, w *DrawingWidget, e *command.Editor) []state.Stroke {
	t.Helper()
	n, ok := e.Document().Node(w.View().ID())
	require.True(t, ok)
	return n.Attrs.Paths
}

func TestMouseStrokeIsSaved(t *testing.T) {
	w, e := newDrawing(t)
	w.MouseDown(mouse(10, 10))
	w.Dragged(drag(20, 15))
	w.Dragged(drag(30, 20))
	w.MouseUp(mouse(30, 20))

	got := paths(t, w, e)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Points, 3)
	assert.Equal(t, 30.0, got[0].Points[2].X)
	assert.Equal(t, 0.5, got[0].Points[0].Pressure)
}

func TestHoverWithoutButtonDoesNotDraw(t *testing.T) {
	w, e := newDrawing(t)
	w.MouseMoved(mouse(5, 5))
	w.MouseDown(mouse(10, 10))
	w.MouseUp(mouse(10, 10))
	w.MouseMoved(mouse(40, 40))

	got := paths(t, w, e)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Points, 1)
}

func TestPressedMouseMoveIsNotSampledTwice(t *testing.T) {
	w, e := newDrawing(t)
	w.MouseDown(mouse(10, 10))
	w.MouseMoved(mouse(20, 20))
	w.Dragged(drag(20, 20))
	w.MouseMoved(mouse(30, 20))
	w.Dragged(drag(30, 20))
	w.MouseUp(mouse(30, 20))

	got := paths(t, w, e)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Points, 3)
}

func TestMouseOutCommits(t *testing.T) {
	w, e := newDrawing(t)
	w.MouseDown(mouse(10, 10))
	w.Dragged(drag(50, 10))
	w.MouseOut()

	assert.Len(t, paths(t, w, e), 1)
	w.MouseUp(mouse(50, 10))
	assert.Len(t, paths(t, w, e), 1)
}

func TestTouchCancelDiscards(t *testing.T) {
	w, e := newDrawing(t)
	w.TouchDown(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)}})
	w.Dragged(drag(40, 40))
	w.TouchCancel(&mobile.TouchEvent{})

	assert.Empty(t, paths(t, w, e))
	assert.Zero(t, w.View().Machine().UndoDepth())
}

func TestMinSizeFollowsAttrs(t *testing.T) {
	w, _ := newDrawing(t)
	assert.Equal(t, fyne.NewSize(state.DefaultWidth, state.DefaultHeight), w.MinSize())
}

func TestAppCreatesOverlay(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	d := doc.New(doc.NewParagraph("first"), doc.NewParagraph("second"))
	h := NewApp(a, config.Default(), d)

	assert.Equal(t, 1, h.Editor.Overlays())
	require.NotNil(t, h.Area.Overlay())
	assert.Equal(t, "relative", h.Area.Positioning())

	ok, err := h.Registry.Dispatch("clearDrawing", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInsertedBlockHasClearAndExport(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	h := NewApp(a, config.Default(), doc.New(doc.NewParagraph("intro")))
	before := h.Editor.Document().Len()
	id := h.InsertDrawing()
	assert.Equal(t, before+1, h.Editor.Document().Len())
	assert.Equal(t, 1, h.Editor.Overlays())

	f, ok := h.Area.frames[id]
	require.True(t, ok)
	w := h.Area.blocks[id]
	require.NotNil(t, w)
	w.MouseDown(mouse(10, 10))
	w.Dragged(drag(40, 10))
	w.MouseUp(mouse(40, 10))

	node := func() doc.Node {
		n, ok := h.Editor.Document().Node(id)
		require.True(t, ok)
		return n
	}
	require.Len(t, node().Attrs.Paths, 1)

	var exported *command.View
	h.Area.OnExport = func(v *command.View) { exported = v }
	test.Tap(f.export)
	require.NotNil(t, exported)
	assert.Equal(t, id, exported.ID())
	assert.Len(t, exported.Attrs().Paths, 1)

	test.Tap(f.clear)
	assert.Empty(t, node().Attrs.Paths)

	assert.True(t, w.View().Undo())
	h.Queue.Flush()
	assert.Len(t, node().Attrs.Paths, 1)

	o, ok := h.Editor.FindOverlay()
	require.True(t, ok)
	assert.Empty(t, o.Attrs.Paths)
}
