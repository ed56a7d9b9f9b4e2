// Package doc is a minimal block document standing in for the host editor's
// content model: an ordered list of paragraph and drawing blocks, atomic
// attribute replacement, and change notification.
package doc

import (
	"errors"

	"InkBoard/internal/state"
)

// ErrNotFound is returned when no node has the requested id.
var ErrNotFound = errors.New("doc: node not found")

// NodeType is the block type.
type NodeType string

const (
	Paragraph NodeType = "paragraph"
	Drawing   NodeType = "drawing"
)

// Node is one block. Attrs is only meaningful for drawings.
type Node struct {
	ID    string
	Type  NodeType
	Text  string
	Attrs state.Attrs
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	if n.Type == Drawing {
		n.Attrs = n.Attrs.Clone()
	}
	return n
}

// NewParagraph returns a paragraph block.
func NewParagraph(text string) Node {
	return Node{Type: Paragraph, Text: text}
}

// NewDrawing returns a drawing block with the given attributes.
func NewDrawing(a state.Attrs) Node {
	return Node{Type: Drawing, Attrs: a}
}

// ChangeKind classifies a document change.
type ChangeKind int

const (
	Inserted ChangeKind = iota
	Removed
	Updated
	Restored
)

// Change describes one mutation. ID is empty for Restored.
type Change struct {
	Kind ChangeKind
	ID   string
}

type subscription struct {
	id int
	fn func(Change)
}

// Document is an ordered block list. It is not safe for concurrent use.
type Document struct {
	nodes   []Node
	subs    []subscription
	nextSub int
	version uint64
}

// New returns a document holding nodes, assigning ids where missing.
func New(nodes ...Node) *Document {
	d := &Document{}
	for _, n := range nodes {
		d.nodes = append(d.nodes, prepare(n))
	}
	return d
}

func prepare(n Node) Node {
	n = n.Clone()
	if n.ID == "" {
		n.ID = state.NewID()
	}
	if n.Type == Drawing {
		state.Normalize(&n.Attrs)
	}
	return n
}

// Len returns the number of blocks.
func (d *Document) Len() int { return len(d.nodes) }

// Version increases with every mutation.
func (d *Document) Version() uint64 { return d.version }

// Nodes returns a copy of every block in order.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Walk calls fn for each block in order until fn returns false. The node
// passed to fn is a copy.
func (d *Document) Walk(fn func(Node) bool) {
	for _, n := range d.nodes {
		if !fn(n.Clone()) {
			return
		}
	}
}

// Node returns a copy of the block with id.
func (d *Document) Node(id string) (Node, bool) {
	if i := d.index(id); i >= 0 {
		return d.nodes[i].Clone(), true
	}
	return Node{}, false
}

func (d *Document) index(id string) int {
	for i, n := range d.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Insert places n before position pos (clamped to the document) and returns
// its id.
func (d *Document) Insert(pos int, n Node) string {
	n = prepare(n)
	pos = max(0, min(pos, len(d.nodes)))
	d.nodes = append(d.nodes, Node{})
	copy(d.nodes[pos+1:], d.nodes[pos:])
	d.nodes[pos] = n
	d.emit(Change{Kind: Inserted, ID: n.ID})
	return n.ID
}

// Append adds n at the end of the document.
func (d *Document) Append(n Node) string {
	return d.Insert(len(d.nodes), n)
}

// Remove deletes the block with id.
func (d *Document) Remove(id string) error {
	i := d.index(id)
	if i < 0 {
		return ErrNotFound
	}
	d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
	d.emit(Change{Kind: Removed, ID: id})
	return nil
}

// ReplaceAttrs atomically replaces the whole attribute bag of drawing id.
func (d *Document) ReplaceAttrs(id string, a state.Attrs) error {
	i := d.index(id)
	if i < 0 || d.nodes[i].Type != Drawing {
		return ErrNotFound
	}
	a = a.Clone()
	state.Normalize(&a)
	d.nodes[i].Attrs = a
	d.emit(Change{Kind: Updated, ID: id})
	return nil
}

// SetText replaces the text of paragraph id.
func (d *Document) SetText(id, text string) error {
	i := d.index(id)
	if i < 0 || d.nodes[i].Type != Paragraph {
		return ErrNotFound
	}
	d.nodes[i].Text = text
	d.emit(Change{Kind: Updated, ID: id})
	return nil
}

// Subscribe registers fn for every later change and returns a function that
// removes it.
func (d *Document) Subscribe(fn func(Change)) (cancel func()) {
	id := d.nextSub
	d.nextSub++
	d.subs = append(d.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) emit(c Change) {
	d.version++
	subs := append([]subscription(nil), d.subs...)
	for _, s := range subs {
		s.fn(c)
	}
}

// Snapshot is a saved copy of the document content.
type Snapshot struct {
	nodes []Node
}

// Snapshot captures the current content, for host-side undo.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{nodes: d.Nodes()}
}

// Restore replaces the content with s.
func (d *Document) Restore(s Snapshot) {
	d.nodes = make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		d.nodes[i] = n.Clone()
	}
	d.emit(Change{Kind: Restored})
}
