package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/brush"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FF2027", color.NRGBA{R: 0xff, G: 0x20, B: 0x27, A: 0xff}},
		{"#abc", color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}},
		{"#11223380", color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}},
		{"red", color.NRGBA{R: 0xff, A: 0xff}},
		{" Blue ", color.NRGBA{B: 0xff, A: 0xff}},
		{"#zzz", color.NRGBA{A: 0xff}},
		{"", color.NRGBA{A: 0xff}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseColor(tt.in), "ParseColor(%q)", tt.in)
	}
}

func TestRasterSize(t *testing.T) {
	r := NewRaster(100.5, 50, 2)
	assert.Equal(t, 201, r.Image().Bounds().Dx())
	assert.Equal(t, 100, r.Image().Bounds().Dy())

	r.Resize(10, 10, 0)
	assert.Equal(t, 1.0, r.PixelRatio())
	assert.Equal(t, 10, r.Image().Bounds().Dx())
}

func square(x0, y0, x1, y1 float64) []geom.Point {
	return []geom.Point{geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1)}
}

func TestRasterFillSourceOver(t *testing.T) {
	r := NewRaster(20, 20, 1)
	r.FillPolygon(square(5, 5, 15, 15), color.NRGBA{R: 0xff, A: 0xff})

	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, r.Image().RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, r.Image().RGBAAt(1, 1))
}

func TestRasterGlobalAlpha(t *testing.T) {
	r := NewRaster(20, 20, 1)
	r.SetGlobalAlpha(0.5)
	r.FillPolygon(square(0, 0, 20, 20), color.NRGBA{B: 0xff, A: 0xff})

	px := r.Image().RGBAAt(10, 10)
	assert.InDelta(t, 128, int(px.A), 1)
	assert.InDelta(t, 128, int(px.B), 1)
}

func TestRasterDestinationOut(t *testing.T) {
	r := NewRaster(20, 20, 1)
	r.FillPolygon(square(0, 0, 20, 20), color.NRGBA{A: 0xff})
	r.SetCompositeMode(brush.DestinationOut)
	r.FillPolygon(square(0, 0, 10, 20), color.NRGBA{R: 0xff, A: 0xff})

	assert.Equal(t, uint8(0), r.Image().RGBAAt(5, 5).A, "erased")
	assert.Equal(t, uint8(0xff), r.Image().RGBAAt(15, 5).A, "untouched")
}

func TestRasterMultiply(t *testing.T) {
	r := NewRaster(10, 10, 1)
	r.FillPolygon(square(0, 0, 10, 10), color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	r.SetCompositeMode(brush.Multiply)
	r.FillPolygon(square(0, 0, 10, 10), color.NRGBA{R: 0xff, G: 0x80, A: 0xff})

	px := r.Image().RGBAAt(5, 5)
	assert.Equal(t, uint8(0xff), px.R)
	assert.InDelta(t, 0x80, int(px.G), 1)
	assert.Equal(t, uint8(0), px.B)
	assert.Equal(t, uint8(0xff), px.A)
}

func TestRasterPixelRatioScalesGeometry(t *testing.T) {
	r := NewRaster(10, 10, 2)
	r.FillPolygon(square(5, 5, 10, 10), color.NRGBA{A: 0xff})

	assert.Equal(t, uint8(0xff), r.Image().RGBAAt(15, 15).A)
	assert.Equal(t, uint8(0), r.Image().RGBAAt(5, 5).A)
}

// recorder captures surface calls to check state restoration.
type recorder struct {
	mode  brush.CompositeMode
	alpha float64
	fills []fill
	clear int
}

type fill struct {
	mode  brush.CompositeMode
	alpha float64
	c     color.Color
	n     int
}

func newRecorder() *recorder { return &recorder{mode: brush.SourceOver, alpha: 1} }

func (r *recorder) Clear()                                 { r.clear++ }
func (r *recorder) SetCompositeMode(m brush.CompositeMode) { r.mode = m }
func (r *recorder) CompositeMode() brush.CompositeMode     { return r.mode }
func (r *recorder) SetGlobalAlpha(a float64)               { r.alpha = a }
func (r *recorder) GlobalAlpha() float64                   { return r.alpha }
func (r *recorder) FillPolygon(ring []geom.Point, c color.Color) {
	r.fills = append(r.fills, fill{mode: r.mode, alpha: r.alpha, c: c, n: len(ring)})
}

func TestPaintStrokeRestoresState(t *testing.T) {
	rec := newRecorder()
	p := NewPainter(nil)
	eraser := state.Stroke{ID: "e", Points: []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0)}, Size: 4, Opacity: 1, Tool: brush.Eraser}
	pen := state.Stroke{ID: "p", Points: []geom.Point{geom.Pt(0, 5), geom.Pt(10, 5)}, Size: 4, Opacity: 0.5, Color: "#ff0000", Tool: brush.Pen}

	p.Paint(rec, []state.Stroke{eraser}, &pen, Style{Smoothing: 0.5, Streamline: 0.5})

	require.Len(t, rec.fills, 2)
	assert.Equal(t, 1, rec.clear)
	assert.Equal(t, brush.DestinationOut, rec.fills[0].mode)
	assert.Equal(t, brush.SourceOver, rec.fills[1].mode, "eraser mode must not leak")
	assert.Equal(t, 0.5, rec.fills[1].alpha)
	assert.Equal(t, brush.SourceOver, rec.mode)
	assert.Equal(t, 1.0, rec.alpha)
}

func TestPaintOpacityClamped(t *testing.T) {
	rec := newRecorder()
	cat := brush.Catalogue{brush.Pen: {Composite: brush.SourceOver, SizeMultiplier: 1, OpacityMultiplier: 3}}
	p := NewPainter(cat)
	p.PaintStroke(rec, state.Stroke{Points: []geom.Point{geom.Pt(1, 1)}, Size: 4, Opacity: 0.9}, Style{})

	require.Len(t, rec.fills, 1)
	assert.Equal(t, 1.0, rec.fills[0].alpha)
}

func TestPaintEmptyStrokeSkipped(t *testing.T) {
	rec := newRecorder()
	NewPainter(nil).PaintStroke(rec, state.Stroke{Size: 4, Opacity: 1}, Style{})
	assert.Empty(t, rec.fills)
}

func TestParamsAppliesMultipliers(t *testing.T) {
	p := NewPainter(nil)
	params, pre := p.Params(state.Stroke{Size: 100, Tool: brush.Highlighter}, Style{Smoothing: 0.5, Streamline: 0.5})

	assert.Equal(t, brush.Multiply, pre.Composite)
	assert.Equal(t, 64.0*3, params.Size, "base size is clamped before the multiplier")
	assert.InDelta(t, 0.3, params.Streamline, 1e-12)
	assert.Equal(t, 0.5, params.Smoothing)
}
