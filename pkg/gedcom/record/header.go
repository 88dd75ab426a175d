// Package record provides typed, read-only views over parsed GEDCOM records.
//
// Every view is a pure function of a [gedcom.Structure]: it looks up known
// child tags and substitutes a default when one is missing. Views never mutate
// the tree and are not cached, so reading the same record twice yields equal
// values. A repeated single-valued tag is reported to the document's
// diagnostic sink the first time it is read, and not again.
//
// Only the subset of GEDCOM needed to build a family graph is covered: the
// header, individuals, families, names, life events and the multimedia and
// note structures attached to them.
package record

import (
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Unknown is the default text of a missing mandatory value.
const Unknown = "<unknown>"

// Header is the HEAD record.
type Header struct {
	GEDC        optional.Value[GEDC]    `json:"gedc"`
	CharSet     optional.Value[CharSet] `json:"charset"`
	Source      optional.Value[string]  `json:"source"`
	Destination optional.Value[string]  `json:"destination"`
}

// GEDC describes the GEDCOM version a file declares.
type GEDC struct {
	Version string `json:"version"`
	Form    string `json:"form"`
}

// CharSet is the HEAD.CHAR structure.
type CharSet struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ReadHeader reads a HEAD record.
func ReadHeader(s gedcom.Structure) Header {
	return Header{
		GEDC:        optional.Map(s.Child("GEDC"), readGEDC),
		CharSet:     optional.Map(s.Child("CHAR"), readCharSet),
		Source:      s.ChildData("SOUR"),
		Destination: s.ChildData("DEST"),
	}
}

func readGEDC(s gedcom.Structure) GEDC {
	return GEDC{
		Version: s.ChildDataOr("VERS", Unknown),
		Form:    s.ChildDataOr("FORM", Unknown),
	}
}

func readCharSet(s gedcom.Structure) CharSet {
	return CharSet{
		Name:    s.DataOr(""),
		Version: s.ChildDataOr("VERS", ""),
	}
}

// HeaderOf reads the first HEAD record of the store.
func HeaderOf(store *gedcom.Store) optional.Value[Header] {
	return optional.Map(store.First("HEAD"), ReadHeader)
}

// HeaderVersion returns HEAD.GEDC.VERS, or None when the file does not
// declare one.
func HeaderVersion(store *gedcom.Store) optional.Value[string] {
	gedc := optional.FlatMap(store.First("HEAD"), func(h gedcom.Structure) optional.Value[gedcom.Structure] {
		return h.Child("GEDC")
	})
	return optional.FlatMap(gedc, func(g gedcom.Structure) optional.Value[string] {
		return g.ChildData("VERS")
	})
}
