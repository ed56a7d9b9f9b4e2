package state

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"InkBoard/internal/geom"
)

// wirePoint accepts points persisted without a pressure reading.
type wirePoint struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Pressure *float64 `json:"pressure,omitempty"`
}

func toPoints(w []wirePoint) []geom.Point {
	pts := make([]geom.Point, len(w))
	for i, p := range w {
		pr := geom.DefaultPressure
		if p.Pressure != nil {
			pr = *p.Pressure
		}
		pts[i] = geom.Point{X: p.X, Y: p.Y, Pressure: pr}
	}
	return pts
}

// UnmarshalJSON accepts both the current object form and the legacy form,
// where a stroke was persisted as a bare array of points.
func (s *Stroke) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pts []wirePoint
		if err := json.Unmarshal(data, &pts); err != nil {
			return fmt.Errorf("legacy stroke: %w", err)
		}
		*s = Stroke{Points: toPoints(pts), Opacity: DefaultOpacity}
		return nil
	}
	var w struct {
		ID      string      `json:"id"`
		Points  []wirePoint `json:"points"`
		Color   string      `json:"color"`
		Size    float64     `json:"size"`
		Opacity *float64    `json:"opacity"`
		Tool    string      `json:"tool"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("stroke: %w", err)
	}
	*s = Stroke{
		ID:      w.ID,
		Points:  toPoints(w.Points),
		Color:   w.Color,
		Size:    w.Size,
		Opacity: DefaultOpacity,
		Tool:    w.Tool,
	}
	if w.Opacity != nil {
		s.Opacity = *w.Opacity
	}
	return nil
}

// DecodeJSON decodes a persisted attribute bag. Missing keys take their
// defaults and the result is normalized.
func DecodeJSON(data []byte) (Attrs, error) {
	a := DefaultAttrs()
	if err := json.Unmarshal(data, &a); err != nil {
		return Attrs{}, fmt.Errorf("decode attrs: %w", err)
	}
	Normalize(&a)
	return a, nil
}

// EncodeJSON encodes a for persistence.
func EncodeJSON(a Attrs) ([]byte, error) {
	if a.Paths == nil {
		a.Paths = []Stroke{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode attrs: %w", err)
	}
	return data, nil
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// EncodeCBOR encodes a in deterministic CBOR.
func EncodeCBOR(a Attrs) ([]byte, error) {
	if a.Paths == nil {
		a.Paths = []Stroke{}
	}
	data, err := encMode.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode attrs: %w", err)
	}
	return data, nil
}

// DecodeCBOR decodes an attribute bag written by EncodeCBOR.
func DecodeCBOR(data []byte) (Attrs, error) {
	a := DefaultAttrs()
	if err := decMode.Unmarshal(data, &a); err != nil {
		return Attrs{}, fmt.Errorf("decode attrs: %w", err)
	}
	Normalize(&a)
	return a, nil
}
