package doc

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"InkBoard/internal/state"
)

type jsonNode struct {
	ID    string          `json:"id"`
	Type  NodeType        `json:"type"`
	Text  string          `json:"text,omitempty"`
	Attrs json.RawMessage `json:"attrs,omitempty"`
}

// EncodeJSON serializes the document content.
func EncodeJSON(d *Document) ([]byte, error) {
	out := make([]jsonNode, 0, len(d.nodes))
	for _, n := range d.nodes {
		w := jsonNode{ID: n.ID, Type: n.Type, Text: n.Text}
		if n.Type == Drawing {
			data, err := state.EncodeJSON(n.Attrs)
			if err != nil {
				return nil, err
			}
			w.Attrs = data
		}
		out = append(out, w)
	}
	return json.Marshal(out)
}

// DecodeJSON restores a document written by EncodeJSON.
func DecodeJSON(data []byte) (*Document, error) {
	var in []jsonNode
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	nodes := make([]Node, 0, len(in))
	for _, w := range in {
		n := Node{ID: w.ID, Type: w.Type, Text: w.Text}
		if w.Type == Drawing {
			a := state.DefaultAttrs()
			if len(w.Attrs) > 0 {
				var err error
				if a, err = state.DecodeJSON(w.Attrs); err != nil {
					return nil, fmt.Errorf("drawing %s: %w", w.ID, err)
				}
			}
			n.Attrs = a
		}
		nodes = append(nodes, n)
	}
	return New(nodes...), nil
}

type cborNode struct {
	ID    string          `cbor:"1,keyasint"`
	Type  NodeType        `cbor:"2,keyasint"`
	Text  string          `cbor:"3,keyasint,omitempty"`
	Attrs cbor.RawMessage `cbor:"4,keyasint,omitempty"`
}

// EncodeCBOR serializes the document content in CBOR.
func EncodeCBOR(d *Document) ([]byte, error) {
	out := make([]cborNode, 0, len(d.nodes))
	for _, n := range d.nodes {
		w := cborNode{ID: n.ID, Type: n.Type, Text: n.Text}
		if n.Type == Drawing {
			data, err := state.EncodeCBOR(n.Attrs)
			if err != nil {
				return nil, err
			}
			w.Attrs = data
		}
		out = append(out, w)
	}
	return cbor.Marshal(out)
}

// DecodeCBOR restores a document written by EncodeCBOR.
func DecodeCBOR(data []byte) (*Document, error) {
	var in []cborNode
	if err := cbor.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	nodes := make([]Node, 0, len(in))
	for _, w := range in {
		n := Node{ID: w.ID, Type: w.Type, Text: w.Text}
		if w.Type == Drawing {
			a := state.DefaultAttrs()
			if len(w.Attrs) > 0 {
				var err error
				if a, err = state.DecodeCBOR(w.Attrs); err != nil {
					return nil, fmt.Errorf("drawing %s: %w", w.ID, err)
				}
			}
			n.Attrs = a
		}
		nodes = append(nodes, n)
	}
	return New(nodes...), nil
}
