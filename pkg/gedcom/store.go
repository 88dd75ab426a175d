package gedcom

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Store indexes the top-level (level 0) records of a [Document] twice: by
// declared identifier for cross-reference resolution and by tag for bulk
// retrieval. It is read-only once parsing completes.
//
// A top-level identifier declared twice keeps the later record and reports a
// duplicate-id diagnostic. Both records stay listed under their tag.
type Store struct {
	doc   *Document
	byID  map[string]NodeID
	byTag map[string][]NodeID
	tags  []string
	count int
}

func newStore(doc *Document) *Store {
	return &Store{
		doc:   doc,
		byID:  make(map[string]NodeID),
		byTag: make(map[string][]NodeID),
	}
}

func (s *Store) add(id NodeID) {
	n := &s.doc.nodes[id]
	if _, ok := s.byTag[n.Tag]; !ok {
		s.tags = append(s.tags, n.Tag)
	}
	s.byTag[n.Tag] = append(s.byTag[n.Tag], id)
	s.count++

	ptr, ok := n.Pointer.Get()
	if !ok {
		return
	}
	if prev, dup := s.byID[ptr]; dup {
		s.doc.sink.Report(diag.Diagnostic{
			Kind:     diag.KindDuplicateID,
			Severity: diag.SeverityWarning,
			Line:     n.Line,
			Message: fmt.Sprintf("@%s@ already declared on line %d as %s, keeping the later %s",
				ptr, s.doc.nodes[prev].Line, s.doc.nodes[prev].Tag, n.Tag),
		})
	}
	s.byID[ptr] = id
}

// ByTag returns the top-level records tagged tag, in file order. An unknown
// tag yields an empty slice.
func (s *Store) ByTag(tag string) []Structure {
	ids := s.byTag[tag]
	out := make([]Structure, len(ids))
	for i, id := range ids {
		out[i] = Structure{doc: s.doc, id: id}
	}
	return out
}

// First returns the first top-level record tagged tag.
func (s *Store) First(tag string) optional.Value[Structure] {
	ids := s.byTag[tag]
	if len(ids) == 0 {
		return optional.None[Structure]()
	}
	return optional.Some(Structure{doc: s.doc, id: ids[0]})
}

// ByID returns the top-level record declared with identifier id. The @
// delimiters must not be included.
func (s *Store) ByID(id string) (Structure, bool) {
	nid, ok := s.byID[id]
	if !ok {
		return Structure{}, false
	}
	return Structure{doc: s.doc, id: nid}, true
}

// Tags returns the distinct top-level tags in order of first appearance.
func (s *Store) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Count returns the number of top-level records tagged tag.
func (s *Store) Count(tag string) int { return len(s.byTag[tag]) }

// Len returns the total number of top-level records.
func (s *Store) Len() int { return s.count }
