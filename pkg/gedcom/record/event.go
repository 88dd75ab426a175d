package record

import (
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Event tags read for individuals and families.
const (
	TagBirth    = "BIRT"
	TagBaptism  = "CHR"
	TagDeath    = "DEAT"
	TagBurial   = "BURI"
	TagMarriage = "MARR"
)

// Event is a dated, placed life event such as BIRT or BURI.
type Event struct {
	Tag   string                 `json:"tag"`
	Date  optional.Value[string] `json:"date"`
	Place optional.Value[string] `json:"place"`
}

// ReadEvent reads an event structure.
func ReadEvent(s gedcom.Structure) Event {
	return Event{
		Tag:   s.Tag(),
		Date:  s.ChildData("DATE"),
		Place: s.ChildData("PLAC"),
	}
}

// Known reports whether the event carries a date or a place. Bare event
// markers ("1 DEAT Y") are not known.
func (e Event) Known() bool {
	return e.Date.IsPresent() || e.Place.IsPresent()
}

// readEvents reads every child event tagged tag, keeping only known ones.
func readEvents(s gedcom.Structure, tag string) []Event {
	var out []Event
	for _, c := range s.Children(tag) {
		if ev := ReadEvent(c); ev.Known() {
			out = append(out, ev)
		}
	}
	return out
}
