package render

import (
	"InkBoard/internal/brush"
	"InkBoard/internal/geom"
	"InkBoard/internal/outline"
	"InkBoard/internal/state"
)

// Style carries surface-wide parameters that are not snapshotted per stroke.
type Style struct {
	Smoothing  float64
	Streamline float64
}

// Painter renders strokes with a brush catalogue.
type Painter struct {
	Catalogue brush.Catalogue
}

// NewPainter returns a painter over c, or the default catalogue when c is nil.
func NewPainter(c brush.Catalogue) *Painter {
	if c == nil {
		c = brush.DefaultCatalogue()
	}
	return &Painter{Catalogue: c}
}

// Params resolves the outline parameters and preset for s.
func (p *Painter) Params(s state.Stroke, st Style) (outline.Params, brush.Preset) {
	pre := p.Catalogue.Resolve(s.Tool)
	return outline.Params{
		Size:             geom.ClampBrushSize(s.Size) * pre.SizeMultiplier,
		Thinning:         geom.Clamp(pre.Thinning, 0, 1),
		Smoothing:        geom.Clamp(st.Smoothing*pre.SmoothingMultiplier, 0, 1),
		Streamline:       geom.Clamp(st.Streamline*pre.StreamlineMultiplier, 0, 1),
		SimulatePressure: pre.SimulatePressure,
	}, pre
}

// PaintStroke fills the outline of s. The composite mode and global alpha
// are reset to source-over and 1 afterwards.
func (p *Painter) PaintStroke(dst Surface, s state.Stroke, st Style) {
	params, pre := p.Params(s, st)
	ring := outline.Generate(s.Points, params)
	if len(ring) == 0 {
		return
	}
	dst.SetCompositeMode(pre.Composite)
	dst.SetGlobalAlpha(geom.Clamp(s.Opacity*pre.OpacityMultiplier, 0, 1))
	defer func() {
		dst.SetCompositeMode(brush.SourceOver)
		dst.SetGlobalAlpha(1)
	}()
	dst.FillPolygon(ring, ParseColor(s.Color))
}

// Paint clears dst and draws the committed strokes followed by live, if any.
func (p *Painter) Paint(dst Surface, committed []state.Stroke, live *state.Stroke, st Style) {
	dst.Clear()
	for _, s := range committed {
		p.PaintStroke(dst, s, st)
	}
	if live != nil {
		p.PaintStroke(dst, *live, st)
	}
}
