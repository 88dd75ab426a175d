package record

import (
	"strings"

	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Name is an INDI.NAME structure. Full keeps the GEDCOM form, with the
// surname between slashes ("John /Smith/").
type Name struct {
	Full    string                 `json:"full"`
	Given   optional.Value[string] `json:"given"`
	Surname optional.Value[string] `json:"surname"`
}

// ReadName reads a NAME structure.
func ReadName(s gedcom.Structure) Name {
	return Name{
		Full:    s.DataOr(Unknown),
		Given:   optional.Map(s.Child("GIVN"), dataOrEmpty),
		Surname: optional.Map(s.Child("SURN"), dataOrEmpty),
	}
}

var annotationReplacer = strings.NewReplacer("?", "", `\`, "")

// Annotated returns the full name with uncertainty markers ("?") and
// backslashes removed.
func (n Name) Annotated() string {
	return annotationReplacer.Replace(n.Full)
}

// Display returns a human-readable name: given name and surname when either
// is recorded, otherwise the annotated full name without slashes.
func (n Name) Display() string {
	given, surname := n.Given.OrElse(""), n.Surname.OrElse("")
	if given != "" || surname != "" {
		return strings.TrimSpace(given + " " + surname)
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(n.Annotated(), "/", "")), " ")
}

func dataOrEmpty(s gedcom.Structure) string { return s.DataOr("") }
