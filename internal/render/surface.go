// Package render paints stroke outlines onto a raster surface.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"InkBoard/internal/brush"
	"InkBoard/internal/geom"
)

// Surface is the 2D canvas a drawing block paints into.
type Surface interface {
	Clear()
	SetCompositeMode(brush.CompositeMode)
	CompositeMode() brush.CompositeMode
	SetGlobalAlpha(alpha float64)
	GlobalAlpha() float64
	// FillPolygon fills the closed ring, given in logical coordinates.
	FillPolygon(ring []geom.Point, c color.Color)
}

// Raster is a CPU Surface backed by an RGBA image. Its backing store is the
// logical size scaled by the device pixel ratio.
type Raster struct {
	img    *image.RGBA
	mask   *image.Alpha
	z      *vector.Rasterizer
	width  float64
	height float64
	dpr    float64
	mode   brush.CompositeMode
	alpha  float64
}

var _ Surface = (*Raster)(nil)

// NewRaster returns a cleared surface of logical size w×h.
func NewRaster(w, h, dpr float64) *Raster {
	r := &Raster{mode: brush.SourceOver, alpha: 1}
	r.Resize(w, h, dpr)
	return r
}

// Resize changes the logical size and pixel ratio. The content is cleared
// when the backing store changes size.
func (r *Raster) Resize(w, h, dpr float64) {
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	w, h = math.Max(w, 0), math.Max(h, 0)
	pw, ph := int(math.Floor(w*dpr)), int(math.Floor(h*dpr))
	r.width, r.height, r.dpr = w, h, dpr
	if r.img != nil && r.img.Bounds().Dx() == pw && r.img.Bounds().Dy() == ph {
		return
	}
	b := image.Rect(0, 0, pw, ph)
	r.img = image.NewRGBA(b)
	r.mask = image.NewAlpha(b)
	r.z = vector.NewRasterizer(pw, ph)
}

// Size returns the logical size.
func (r *Raster) Size() (w, h float64) { return r.width, r.height }

// PixelRatio returns the device pixel ratio.
func (r *Raster) PixelRatio() float64 { return r.dpr }

// Image returns the backing image. It is overwritten by later paints.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Clear() {
	clear(r.img.Pix)
}

func (r *Raster) SetCompositeMode(m brush.CompositeMode) { r.mode = m }

func (r *Raster) CompositeMode() brush.CompositeMode { return r.mode }

func (r *Raster) SetGlobalAlpha(a float64) { r.alpha = geom.Clamp(a, 0, 1) }

func (r *Raster) GlobalAlpha() float64 { return r.alpha }

func (r *Raster) FillPolygon(ring []geom.Point, c color.Color) {
	b := r.img.Bounds()
	if len(ring) < 3 || b.Empty() {
		return
	}
	s := r.dpr
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Src
	for i, p := range ring {
		x, y := p.X*s, p.Y*s
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
		if i == 0 {
			r.z.MoveTo(float32(x), float32(y))
		} else {
			r.z.LineTo(float32(x), float32(y))
		}
	}
	r.z.ClosePath()
	area := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1).Intersect(b)
	if area.Empty() {
		return
	}
	clear(r.mask.Pix)
	r.z.Draw(r.mask, b, image.Opaque, image.Point{})
	r.composite(area, c)
}

// composite blends colour c through the coverage mask into area using the
// current composite mode and global alpha. Pixels are premultiplied.
func (r *Raster) composite(area image.Rectangle, c color.Color) {
	cr, cg, cb, ca := c.RGBA()
	sr, sg, sb, sa := float64(cr)/0xffff, float64(cg)/0xffff, float64(cb)/0xffff, float64(ca)/0xffff
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			m := r.mask.AlphaAt(x, y).A
			if m == 0 {
				continue
			}
			k := float64(m) / 0xff * r.alpha
			i := r.img.PixOffset(x, y)
			px := r.img.Pix[i : i+4 : i+4]
			dr, dg, db, da := float64(px[0])/0xff, float64(px[1])/0xff, float64(px[2])/0xff, float64(px[3])/0xff
			as := sa * k
			switch r.mode {
			case brush.DestinationOut:
				f := 1 - as
				dr, dg, db, da = dr*f, dg*f, db*f, da*f
			case brush.Multiply:
				pr, pg, pb := sr*k, sg*k, sb*k
				dr = pr*(1-da) + dr*(1-as) + pr*dr
				dg = pg*(1-da) + dg*(1-as) + pg*dg
				db = pb*(1-da) + db*(1-as) + pb*db
				da = as + da - as*da
			default:
				f := 1 - as
				dr, dg, db, da = sr*k+dr*f, sg*k+dg*f, sb*k+db*f, as+da*f
			}
			px[0], px[1], px[2], px[3] = to8(dr), to8(dg), to8(db), to8(da)
		}
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(geom.Clamp(v, 0, 1) * 0xff))
}
