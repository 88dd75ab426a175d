package record

import (
	"strings"

	"github.com/matzehuels/lineage/pkg/gedcom"
)

// Sex is the INDI.SEX code.
type Sex string

const (
	Male         Sex = "M"
	Female       Sex = "F"
	Undetermined Sex = "U"
)

// ParseSex maps a SEX value to a [Sex], case-insensitively. Anything
// unrecognized is [Undetermined].
func ParseSex(code string) Sex {
	switch Sex(strings.ToUpper(strings.TrimSpace(code))) {
	case Male:
		return Male
	case Female:
		return Female
	default:
		return Undetermined
	}
}

// Name returns "male", "female" or "undetermined".
func (s Sex) Name() string {
	switch s {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "undetermined"
	}
}

// FamilyLink is a FAMC or FAMS pointer from an individual to a family.
type FamilyLink struct {
	FamilyID string `json:"family_id"`
}

// Individual is an INDI record.
type Individual struct {
	ID       string       `json:"id"`
	Sex      Sex          `json:"sex"`
	Names    []Name       `json:"names,omitempty"`
	Births   []Event      `json:"births,omitempty"`
	Baptisms []Event      `json:"baptisms,omitempty"`
	Deaths   []Event      `json:"deaths,omitempty"`
	Burials  []Event      `json:"burials,omitempty"`
	ChildOf  []FamilyLink `json:"child_of,omitempty"`
	SpouseOf []FamilyLink `json:"spouse_of,omitempty"`
	Objects  []Object     `json:"objects,omitempty"`
	Notes    []Text       `json:"notes,omitempty"`
}

// ReadIndividual reads an INDI record. Events without a date or place are
// dropped.
func ReadIndividual(s gedcom.Structure) Individual {
	indi := Individual{
		ID:       s.Pointer().OrElse(Unknown),
		Sex:      ParseSex(s.ChildDataOr("SEX", string(Undetermined))),
		Births:   readEvents(s, TagBirth),
		Baptisms: readEvents(s, TagBaptism),
		Deaths:   readEvents(s, TagDeath),
		Burials:  readEvents(s, TagBurial),
	}
	for _, n := range s.Children("NAME") {
		indi.Names = append(indi.Names, ReadName(n))
	}
	for _, c := range s.Children("FAMC") {
		indi.ChildOf = append(indi.ChildOf, readFamilyLink(c))
	}
	for _, c := range s.Children("FAMS") {
		indi.SpouseOf = append(indi.SpouseOf, readFamilyLink(c))
	}
	for _, o := range s.Children("OBJE") {
		indi.Objects = append(indi.Objects, ReadObject(o))
	}
	for _, n := range s.Children("NOTE") {
		if target, ok := n.Resolve().Get(); ok {
			n = target
		}
		indi.Notes = append(indi.Notes, ReadText(n))
	}
	return indi
}

func readFamilyLink(s gedcom.Structure) FamilyLink {
	id, _ := gedcom.TrimPointer(s.DataOr(Unknown))
	return FamilyLink{FamilyID: id}
}

// URIs returns the web addresses of the individual's multimedia files.
func (i Individual) URIs() []string {
	var out []string
	for _, o := range i.Objects {
		for _, f := range o.Files {
			if u, ok := f.WebURL().Get(); ok {
				out = append(out, u)
			}
		}
	}
	return out
}

// PrimaryName returns the first recorded name, or a [Name] with an unknown
// full name.
func (i Individual) PrimaryName() Name {
	if len(i.Names) == 0 {
		return Name{Full: Unknown}
	}
	return i.Names[0]
}

// Individuals reads every INDI record of the store, in file order.
func Individuals(store *gedcom.Store) []Individual {
	recs := store.ByTag("INDI")
	out := make([]Individual, 0, len(recs))
	for _, s := range recs {
		out = append(out, ReadIndividual(s))
	}
	return out
}
