package command

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/capture"
	"InkBoard/internal/doc"
	"InkBoard/internal/geom"
	"InkBoard/internal/sched"
	"InkBoard/internal/state"
)

type fixture struct {
	e *Editor
	v *View
	q *sched.Queue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	e, id := overlayEditor(t)
	q := &sched.Queue{}
	v, err := NewView(e.Document(), id, ViewConfig{Queue: q, Streamline: 0.5})
	require.NoError(t, err)
	t.Cleanup(v.Close)
	e.Attach(v)
	return &fixture{e: e, v: v, q: q}
}

func (f *fixture) stroke(pts ...geom.Point) {
	f.v.Handle(capture.Event{Kind: capture.Press, Position: pts[0], Pressed: true})
	for _, p := range pts[1:] {
		f.v.Handle(capture.Event{Kind: capture.Move, Position: p, Pressed: true})
	}
	f.v.Handle(capture.Event{Kind: capture.Release, Position: pts[len(pts)-1]})
	f.q.Flush()
}

func (f *fixture) saved(t *testing.T) []state.Stroke {
	return overlayAttrs(t, f.e).Paths
}

func TestViewPersistsAfterFlush(t *testing.T) {
	f := newFixture(t)
	f.v.Handle(capture.Event{Kind: capture.Press, Position: geom.Pt(10, 10), Pressed: true})
	f.v.Handle(capture.Event{Kind: capture.Move, Position: geom.Pt(40, 40), Pressed: true})
	f.v.Handle(capture.Event{Kind: capture.Release, Position: geom.Pt(40, 40)})

	assert.Empty(t, f.saved(t), "write is deferred")
	assert.Equal(t, 1, f.q.Len())

	f.q.Flush()
	paths := f.saved(t)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Points, 2)
	assert.Equal(t, state.DefaultColor, paths[0].Color)
}

func TestViewSnapshotsParams(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.e.SetDrawingColor("#FF2027"))
	require.True(t, f.e.SetBrushSize(12))
	f.stroke(geom.Pt(0, 0), geom.Pt(30, 0))

	require.True(t, f.e.SetDrawingColor("blue"))
	f.stroke(geom.Pt(0, 50), geom.Pt(30, 50))

	paths := f.saved(t)
	require.Len(t, paths, 2)
	assert.Equal(t, "#FF2027", paths[0].Color)
	assert.Equal(t, 12.0, paths[0].Size)
	assert.Equal(t, "blue", paths[1].Color)
}

func TestCommitSurvivesHostEditBeforeFlush(t *testing.T) {
	f := newFixture(t)
	press := func(x, y float64) {
		f.v.Handle(capture.Event{Kind: capture.Press, Position: geom.Pt(x, y), Pressed: true})
		f.v.Handle(capture.Event{Kind: capture.Move, Position: geom.Pt(x+20, y), Pressed: true})
		f.v.Handle(capture.Event{Kind: capture.Release, Position: geom.Pt(x+20, y)})
	}

	press(0, 0)
	require.True(t, f.e.SetDrawingColor("#FF2027"))
	assert.Len(t, f.v.Machine().Committed(), 1, "queued commit is kept across the host edit")
	press(0, 40)
	f.q.Flush()

	saved := f.saved(t)
	require.Len(t, saved, 2)
	assert.Equal(t, state.DefaultColor, saved[0].Color)
	assert.Equal(t, "#FF2027", saved[1].Color)
	assert.Equal(t, "#FF2027", overlayAttrs(t, f.e).Color)
	assert.Equal(t, saved, f.v.Machine().Committed())
	assert.Equal(t, 2, f.v.Machine().UndoDepth())

	require.True(t, f.e.UndoDrawing())
	f.q.Flush()
	assert.Len(t, f.saved(t), 1)
}

func TestInactiveOverlayIgnoresInput(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.e.DisableGlobalDrawing())
	f.v.Handle(capture.Event{Kind: capture.Press, Position: geom.Pt(1, 1), Pressed: true})
	assert.Equal(t, capture.Idle, f.v.Machine().State())

	require.True(t, f.e.EnableGlobalDrawing())
	f.v.Handle(capture.Event{Kind: capture.Press, Position: geom.Pt(1, 1), Pressed: true})
	assert.Equal(t, capture.Capturing, f.v.Machine().State())
}

func TestClearThenUndoRestores(t *testing.T) {
	f := newFixture(t)
	f.stroke(geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(20, 5))
	f.stroke(geom.Pt(50, 50), geom.Pt(60, 60))
	before := f.saved(t)
	require.Len(t, before, 2)

	require.True(t, f.e.ClearDrawing())
	f.q.Flush()
	assert.Empty(t, f.saved(t))

	require.True(t, f.e.UndoDrawing())
	f.q.Flush()
	assert.Equal(t, before, f.saved(t))
}

func TestUndoDrawing(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.e.UndoDrawing(), "nothing to undo")

	f.stroke(geom.Pt(0, 0), geom.Pt(10, 10))
	f.stroke(geom.Pt(5, 5), geom.Pt(15, 15))
	first := f.saved(t)[:1]

	require.True(t, f.e.UndoDrawing())
	f.q.Flush()
	assert.Equal(t, first, f.saved(t))
}

func TestViewFollowsHostRestore(t *testing.T) {
	f := newFixture(t)
	snap := f.e.Document().Snapshot()
	f.stroke(geom.Pt(0, 0), geom.Pt(10, 10))
	require.Len(t, f.v.Machine().Committed(), 1)

	f.e.Document().Restore(snap)
	assert.Empty(t, f.v.Machine().Committed())
	assert.Empty(t, f.saved(t))
}

func TestViewResizesWithOverlay(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.e.ResizeOverlay(300, 200))
	w, h := f.v.Raster().Size()
	assert.Equal(t, 300.0, w)
	assert.Equal(t, 200.0, h)
}

func TestViewRenders(t *testing.T) {
	f := newFixture(t)
	renders := 0
	f.v.OnRender = func() { renders++ }
	require.True(t, f.e.SetBrushSize(10))
	f.stroke(geom.Pt(20, 20), geom.Pt(80, 20))
	assert.Greater(t, renders, 3)

	_, _, _, a := f.v.Raster().Image().At(50, 20).RGBA()
	assert.NotZero(t, a, "stroke is painted")
	assert.Equal(t, color.RGBA{}, f.v.Raster().Image().RGBAAt(400, 600))
}

func TestViewOnMissingNode(t *testing.T) {
	_, err := NewView(doc.New(), "nope", ViewConfig{})
	assert.ErrorIs(t, err, doc.ErrNotFound)
}

func TestRegistryDispatch(t *testing.T) {
	f := newFixture(t)
	r := NewRegistry(f.e)
	raw := func(v any) json.RawMessage {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return b
	}

	ok, err := r.Dispatch("setDrawingColor", []json.RawMessage{raw("#00FF00")})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#00FF00", overlayAttrs(t, f.e).Color)

	ok, err = r.Dispatch("setBrushSize", []json.RawMessage{raw(20)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 20.0, overlayAttrs(t, f.e).Size)

	n := f.e.Document().Len()
	ok, err = r.Dispatch("insertDrawing", []json.RawMessage{raw(0), raw(map[string]any{"width": 320, "overlay": true})})
	require.NoError(t, err)
	assert.True(t, ok)
	require.Equal(t, n+1, f.e.Document().Len())
	first := f.e.Document().Nodes()[0]
	assert.Equal(t, 320.0, first.Attrs.Width)
	assert.False(t, first.Attrs.Overlay)

	_, err = r.Dispatch("setBrushSize", nil)
	assert.Error(t, err)
	_, err = r.Dispatch("setBrushSize", []json.RawMessage{raw("big")})
	assert.Error(t, err)
	_, err = r.Dispatch("explode", nil)
	assert.ErrorIs(t, err, ErrUnknownAction)

	assert.Contains(t, r.Names(), "undoDrawing")
	assert.Len(t, r.Names(), 10)
}
