package brush

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	c := DefaultCatalogue()

	assert.Equal(t, DestinationOut, c.Resolve(Eraser).Composite)
	assert.Equal(t, Multiply, c.Resolve(Highlighter).Composite)
	assert.Equal(t, c.Resolve(Pen), c.Resolve("crayon"), "unknown tool falls back to pen")
	assert.True(t, c.Resolve(Pen).SimulatePressure)
}

func TestResolveWithoutPen(t *testing.T) {
	c := Catalogue{"chalk": {Composite: SourceOver, SizeMultiplier: 4, OpacityMultiplier: 1}}

	assert.Equal(t, 4.0, c.Resolve("chalk").SizeMultiplier)
	assert.Equal(t, defaultPen, c.Resolve("crayon"))
}

func TestResolveNormalizesPartialPreset(t *testing.T) {
	c := Catalogue{Pen: {Thinning: 0.3}}
	p := c.Resolve(Pen)

	assert.Equal(t, SourceOver, p.Composite)
	assert.Equal(t, 1.0, p.SizeMultiplier)
	assert.Equal(t, 0.3, p.Thinning)
}

func TestDefaultCatalogueIsCopy(t *testing.T) {
	a := DefaultCatalogue()
	a[Pen] = Preset{SizeMultiplier: 9}
	assert.Equal(t, 1.0, DefaultCatalogue()[Pen].SizeMultiplier)
}
