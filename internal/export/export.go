// Package export renders a drawing block to a raster snapshot and writes it
// as PNG or as a single PDF page.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"InkBoard/internal/brush"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

// Snapshot paints the committed strokes of a onto a transparent image of
// a.Width × a.Height logical pixels at device pixel ratio dpr. streamline is
// the base factor the screen renders with, before brush multipliers.
func Snapshot(a state.Attrs, cat brush.Catalogue, dpr, streamline float64) *image.RGBA {
	w, h := a.Width, a.Height
	if w <= 0 {
		w = state.DefaultWidth
	}
	if h <= 0 {
		h = state.DefaultHeight
	}
	if dpr <= 0 {
		dpr = 1
	}
	r := render.NewRaster(w, h, dpr)
	render.NewPainter(cat).Paint(r, a.Paths, nil, render.Style{Smoothing: a.Smoothing, Streamline: streamline})
	return r.Image()
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePDF writes a portrait A4 page holding img, scaled to fit inside a
// 10 mm margin and centred.
func WritePDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return err
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("drawing", opts, &buf)

	const margin = 10.0
	pw, ph := p.GetPageSize()
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return fmt.Errorf("write pdf: empty image")
	}
	scale := min((pw-2*margin)/iw, (ph-2*margin)/ih)
	dw, dh := iw*scale, ih*scale
	p.ImageOptions("drawing", (pw-dw)/2, (ph-dh)/2, dw, dh, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
