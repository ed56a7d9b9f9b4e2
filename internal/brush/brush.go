// Package brush defines the named brush presets that shape how a stroke is
// outlined and composited.
package brush

// CompositeMode names a canvas blend operation.
type CompositeMode string

const (
	SourceOver     CompositeMode = "source-over"
	DestinationOut CompositeMode = "destination-out"
	Multiply       CompositeMode = "multiply"
)

// Tool names shipped with the default catalogue.
const (
	Pen         = "pen"
	Marker      = "marker"
	Highlighter = "highlighter"
	Eraser      = "eraser"
)

// Preset is an immutable bundle of rendering multipliers for a tool.
type Preset struct {
	Composite            CompositeMode `toml:"composite" json:"composite"`
	Thinning             float64       `toml:"thinning" json:"thinning"`
	SimulatePressure     bool          `toml:"simulate_pressure" json:"simulatePressure"`
	SizeMultiplier       float64       `toml:"size" json:"sizeMultiplier"`
	OpacityMultiplier    float64       `toml:"opacity" json:"opacityMultiplier"`
	SmoothingMultiplier  float64       `toml:"smoothing" json:"smoothingMultiplier"`
	StreamlineMultiplier float64       `toml:"streamline" json:"streamlineMultiplier"`
}

var defaultPen = Preset{
	Composite:            SourceOver,
	Thinning:             0.6,
	SimulatePressure:     true,
	SizeMultiplier:       1,
	OpacityMultiplier:    1,
	SmoothingMultiplier:  1,
	StreamlineMultiplier: 1,
}

// Catalogue maps tool names to presets. It is configuration supplied when a
// surface is initialised and may be replaced wholesale.
type Catalogue map[string]Preset

// DefaultCatalogue returns a fresh copy of the built-in presets.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		Pen: defaultPen,
		Marker: {
			Composite:            SourceOver,
			Thinning:             0.1,
			SimulatePressure:     false,
			SizeMultiplier:       2,
			OpacityMultiplier:    0.9,
			SmoothingMultiplier:  1,
			StreamlineMultiplier: 1,
		},
		Highlighter: {
			Composite:            Multiply,
			Thinning:             0,
			SimulatePressure:     false,
			SizeMultiplier:       3,
			OpacityMultiplier:    0.35,
			SmoothingMultiplier:  1,
			StreamlineMultiplier: 0.6,
		},
		Eraser: {
			Composite:            DestinationOut,
			Thinning:             0,
			SimulatePressure:     false,
			SizeMultiplier:       3,
			OpacityMultiplier:    1,
			SmoothingMultiplier:  1,
			StreamlineMultiplier: 1,
		},
	}
}

// Resolve returns the preset for tool. Unknown tools fall back to pen, and a
// catalogue without a pen entry falls back to the built-in pen.
func (c Catalogue) Resolve(tool string) Preset {
	if p, ok := c[tool]; ok {
		return p.normalize()
	}
	if p, ok := c[Pen]; ok {
		return p.normalize()
	}
	return defaultPen
}

// Has reports whether tool has its own entry.
func (c Catalogue) Has(tool string) bool {
	_, ok := c[tool]
	return ok
}

// normalize fills zero multipliers and an empty composite mode so that a
// partially specified preset from a config file still renders.
func (p Preset) normalize() Preset {
	if p.Composite == "" {
		p.Composite = SourceOver
	}
	if p.SizeMultiplier <= 0 {
		p.SizeMultiplier = 1
	}
	if p.OpacityMultiplier <= 0 {
		p.OpacityMultiplier = 1
	}
	if p.SmoothingMultiplier < 0 {
		p.SmoothingMultiplier = 0
	}
	if p.StreamlineMultiplier < 0 {
		p.StreamlineMultiplier = 0
	}
	return p
}
