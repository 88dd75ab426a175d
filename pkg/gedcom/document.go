package gedcom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/optional"
)

// NodeID addresses a [Node] inside its [Document]'s arena.
type NodeID int

// Node is one record of the reconstructed hierarchy. Nodes live in the
// document arena and reference their children by [NodeID], so a node is owned
// by exactly one parent and never shared between trees.
type Node struct {
	Level   int
	Pointer optional.Value[string]
	Tag     string
	Line    int // 1-based source line that declared the node

	data     string
	children map[string][]NodeID
	order    []NodeID
	parent   NodeID // -1 for roots
}

// Data returns the node's text: its inline data followed by any continuation
// lines, joined by newlines.
func (n *Node) Data() string { return n.data }

// Document is a fully parsed GEDCOM file: the node arena, its roots in file
// order and the top-level [Store]. A Document is immutable once returned by
// [Parse] or [Builder.Finish] and safe for concurrent reads.
type Document struct {
	nodes []Node
	roots []NodeID
	store *Store
	sink  diag.Sink
	lines int

	reported sync.Map // multiKey -> struct{}
}

type multiKey struct {
	id  NodeID
	tag string
}

// reportMultiple sends diagnostic once per node and tag, however often the node is
// read.
func (d *Document) reportMultiple(id NodeID, tag string, diagnostic diag.Diagnostic) {
	if _, seen := d.reported.LoadOrStore(multiKey{id, tag}, struct{}{}); seen {
		return
	}
	d.sink.Report(diagnostic)
}

func newDocument(sink diag.Sink) *Document {
	d := &Document{sink: diag.OrDiscard(sink)}
	d.store = newStore(d)
	return d
}

// Store returns the top-level record index.
func (d *Document) Store() *Store { return d.store }

// Len returns the number of nodes in the document.
func (d *Document) Len() int { return len(d.nodes) }

// Lines returns the number of input lines consumed.
func (d *Document) Lines() int { return d.lines }

// Roots returns every parentless node in file order. This includes the
// indexed level-0 records and any detached roots created by structural faults.
func (d *Document) Roots() []Structure {
	out := make([]Structure, len(d.roots))
	for i, id := range d.roots {
		out[i] = Structure{doc: d, id: id}
	}
	return out
}

// Node returns the node for id.
func (d *Document) Node(id NodeID) *Node { return &d.nodes[id] }

func (d *Document) add(ln Line, line int) NodeID {
	id := NodeID(len(d.nodes))
	n := Node{Level: ln.Level, Pointer: ln.Pointer, Tag: ln.Tag, Line: line, parent: -1}
	if data, ok := ln.Data.Get(); ok {
		n.data = strings.TrimSpace(data)
	}
	d.nodes = append(d.nodes, n)
	return id
}

func (d *Document) attach(parent, child NodeID) {
	p := &d.nodes[parent]
	if p.children == nil {
		p.children = make(map[string][]NodeID)
	}
	tag := d.nodes[child].Tag
	p.children[tag] = append(p.children[tag], child)
	p.order = append(p.order, child)
	d.nodes[child].parent = parent
}

// Dump writes the document back as normalized GEDCOM: one line per node,
// children in source order, continuation data re-emitted as CONT lines.
// Two documents parsed from identical input dump identically.
func (d *Document) Dump(w io.Writer) error {
	for _, id := range d.roots {
		if err := d.dumpNode(w, id); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) dumpNode(w io.Writer, id NodeID) error {
	n := &d.nodes[id]
	ln := Line{Level: n.Level, Pointer: n.Pointer, Tag: n.Tag}
	first, rest, more := strings.Cut(n.Data(), "\n")
	if first != "" {
		ln.Data = optional.Some(first)
	}
	if _, err := fmt.Fprintln(w, ln.String()); err != nil {
		return err
	}
	for more {
		var part string
		part, rest, more = strings.Cut(rest, "\n")
		if _, err := fmt.Fprintf(w, "%d CONT %s\n", n.Level+1, part); err != nil {
			return err
		}
	}
	for _, c := range n.order {
		if err := d.dumpNode(w, c); err != nil {
			return err
		}
	}
	return nil
}

// String returns the dump as a string.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Dump(&b)
	return b.String()
}
