package doc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"InkBoard/internal/state"
)

const (
	attrType  = "data-type"
	attrID    = "data-id"
	attrAttrs = "data-attrs"
)

// WriteHTML renders d as a sequence of block elements: <p> for paragraphs
// and <div data-type="drawing"> carrying the JSON attribute bag.
func WriteHTML(w io.Writer, d *Document) error {
	for _, n := range d.nodes {
		el, err := toHTML(n)
		if err != nil {
			return err
		}
		if err := html.Render(w, el); err != nil {
			return fmt.Errorf("render %s: %w", n.ID, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func toHTML(n Node) (*html.Node, error) {
	switch n.Type {
	case Drawing:
		data, err := state.EncodeJSON(n.Attrs)
		if err != nil {
			return nil, err
		}
		return &html.Node{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
			Attr: []html.Attribute{
				{Key: attrType, Val: string(Drawing)},
				{Key: attrID, Val: n.ID},
				{Key: attrAttrs, Val: string(data)},
			},
		}, nil
	default:
		p := &html.Node{
			Type:     html.ElementNode,
			Data:     "p",
			DataAtom: atom.P,
			Attr:     []html.Attribute{{Key: attrID, Val: n.ID}},
		}
		p.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		return p, nil
	}
}

// ParseHTML reads a document written by WriteHTML. Any element other than
// a drawing div becomes a paragraph holding its text. A drawing div without
// data-attrs gets the default attributes.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	body := find(root, atom.Body)
	if body == nil {
		return New(), nil
	}
	var nodes []Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				nodes = append(nodes, NewParagraph(t))
			}
		case html.ElementNode:
			n, err := fromHTML(c)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
	return New(nodes...), nil
}

func fromHTML(el *html.Node) (Node, error) {
	id := attr(el, attrID)
	if el.DataAtom == atom.Div && attr(el, attrType) == string(Drawing) {
		a := state.DefaultAttrs()
		if raw := attr(el, attrAttrs); raw != "" {
			var err error
			if a, err = state.DecodeJSON([]byte(raw)); err != nil {
				return Node{}, fmt.Errorf("drawing %s: %w", id, err)
			}
		}
		return Node{ID: id, Type: Drawing, Attrs: a}, nil
	}
	return Node{ID: id, Type: Paragraph, Text: strings.TrimSpace(text(el))}, nil
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, a); f != nil {
			return f
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
	}
	return b.String()
}
