package gedcom

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Structure is a read-only handle to a node of a parsed [Document]. Typed
// record views are built from Structures. The zero Structure is invalid.
type Structure struct {
	doc *Document
	id  NodeID
}

// Valid reports whether s refers to a node.
func (s Structure) Valid() bool { return s.doc != nil }

// ID returns the arena index of the node.
func (s Structure) ID() NodeID { return s.id }

func (s Structure) node() *Node { return &s.doc.nodes[s.id] }

// Level returns the node's nesting level.
func (s Structure) Level() int { return s.node().Level }

// Tag returns the node's tag.
func (s Structure) Tag() string { return s.node().Tag }

// Pointer returns the node's cross-reference identifier, without the @
// delimiters.
func (s Structure) Pointer() optional.Value[string] { return s.node().Pointer }

// Line returns the source line that declared the node.
func (s Structure) Line() int { return s.node().Line }

// Data returns the node's text, or None when it is empty.
func (s Structure) Data() optional.Value[string] { return optional.NonEmpty(s.node().data) }

// DataOr returns the node's text, or def when it is empty.
func (s Structure) DataOr(def string) string { return s.Data().OrElse(def) }

// Parent returns the enclosing node, or None for a root.
func (s Structure) Parent() optional.Value[Structure] {
	p := s.node().parent
	if p < 0 {
		return optional.None[Structure]()
	}
	return optional.Some(Structure{doc: s.doc, id: p})
}

// Children returns every nested node tagged tag, in source order.
func (s Structure) Children(tag string) []Structure {
	ids := s.node().children[tag]
	out := make([]Structure, len(ids))
	for i, id := range ids {
		out[i] = Structure{doc: s.doc, id: id}
	}
	return out
}

// All returns every nested node in source order regardless of tag.
func (s Structure) All() []Structure {
	ids := s.node().order
	out := make([]Structure, len(ids))
	for i, id := range ids {
		out[i] = Structure{doc: s.doc, id: id}
	}
	return out
}

// Child returns the first nested node tagged tag. Finding more than one is
// reported as a multiple-values diagnostic, once per node and tag; the first
// is still returned.
func (s Structure) Child(tag string) optional.Value[Structure] {
	ids := s.node().children[tag]
	if len(ids) == 0 {
		return optional.None[Structure]()
	}
	if len(ids) > 1 {
		s.doc.reportMultiple(s.id, tag, diag.Diagnostic{
			Kind:     diag.KindMultipleValues,
			Severity: diag.SeverityDebug,
			Line:     s.Line(),
			Message:  fmt.Sprintf("%s has %d %s, expected at most one", s, len(ids), tag),
		})
	}
	return optional.Some(Structure{doc: s.doc, id: ids[0]})
}

// ChildData returns the text of the first nested node tagged tag.
func (s Structure) ChildData(tag string) optional.Value[string] {
	return optional.FlatMap(s.Child(tag), Structure.Data)
}

// ChildDataOr returns the text of the first nested node tagged tag, or def
// when the child is missing or empty.
func (s Structure) ChildDataOr(tag, def string) string {
	return s.ChildData(tag).OrElse(def)
}

// String renders the node's own line, e.g. "0 @I1@ INDI".
func (s Structure) String() string {
	if !s.Valid() {
		return "<invalid>"
	}
	n := s.node()
	return Line{Level: n.Level, Pointer: n.Pointer, Tag: n.Tag, Data: optional.NonEmpty(n.data)}.String()
}

// Resolve follows a cross-reference stored as the node's data, e.g. the
// "@M1@" of "1 OBJE @M1@", to the top-level record it names.
func (s Structure) Resolve() optional.Value[Structure] {
	ptr, ok := TrimPointer(s.node().data)
	if !ok {
		return optional.None[Structure]()
	}
	target, ok := s.doc.store.ByID(ptr)
	if !ok {
		return optional.None[Structure]()
	}
	return optional.Some(target)
}
