package record

import (
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Family is a FAM record. Identifiers are stored without their @ delimiters.
type Family struct {
	ID        string                 `json:"id"`
	HusbandID optional.Value[string] `json:"husband_id"`
	WifeID    optional.Value[string] `json:"wife_id"`
	ChildIDs  []string               `json:"child_ids,omitempty"`
	Marriages []Event                `json:"marriages,omitempty"`
}

// ReadFamily reads a FAM record. CHIL entries without a value are skipped.
func ReadFamily(s gedcom.Structure) Family {
	fam := Family{
		ID:        s.Pointer().OrElse(Unknown),
		HusbandID: optional.Map(s.ChildData("HUSB"), trimPointer),
		WifeID:    optional.Map(s.ChildData("WIFE"), trimPointer),
		Marriages: readEvents(s, TagMarriage),
	}
	for _, c := range s.Children("CHIL") {
		if id, ok := c.Data().Get(); ok {
			fam.ChildIDs = append(fam.ChildIDs, trimPointer(id))
		}
	}
	return fam
}

// Families reads every FAM record of the store, in file order.
func Families(store *gedcom.Store) []Family {
	recs := store.ByTag("FAM")
	out := make([]Family, 0, len(recs))
	for _, s := range recs {
		out = append(out, ReadFamily(s))
	}
	return out
}

func trimPointer(s string) string {
	id, _ := gedcom.TrimPointer(s)
	return id
}
