package genealogy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/optional"
)

// ErrUnknownIndividual is returned when an identifier does not name an
// individual of the graph.
var ErrUnknownIndividual = errors.New("unknown individual")

// Individual is a person in the relationship graph. Relations are stored as
// identifiers into the owning [Graph], never as direct references.
type Individual struct {
	ID       string
	Sex      record.Sex
	Names    []record.Name
	Births   []record.Event
	Baptisms []record.Event
	Deaths   []record.Event
	Burials  []record.Event
	URIs     []string

	// ChildOf is the first FAMC family the record declares, if any.
	ChildOf optional.Value[string]

	Father   optional.Value[string]
	Mother   optional.Value[string]
	Children []string

	spouses        map[string]string // family ID -> spouse ID
	spouseFamilies []string
}

// FromRecord creates an unlinked graph node from an INDI view.
func FromRecord(r record.Individual) *Individual {
	ind := &Individual{
		ID:       r.ID,
		Sex:      r.Sex,
		Names:    r.Names,
		Births:   r.Births,
		Baptisms: r.Baptisms,
		Deaths:   r.Deaths,
		Burials:  r.Burials,
		URIs:     r.URIs(),
	}
	if len(r.ChildOf) > 0 {
		ind.ChildOf = optional.Some(r.ChildOf[0].FamilyID)
	}
	return ind
}

// Spouse is one spouse relation of an individual.
type Spouse struct {
	FamilyID string
	SpouseID string
}

// Spouses returns the individual's spouse relations in the order they were
// recorded.
func (i *Individual) Spouses() []Spouse {
	out := make([]Spouse, 0, len(i.spouseFamilies))
	for _, fam := range i.spouseFamilies {
		out = append(out, Spouse{FamilyID: fam, SpouseID: i.spouses[fam]})
	}
	return out
}

// SpouseIn returns the spouse recorded for family familyID.
func (i *Individual) SpouseIn(familyID string) (string, bool) {
	id, ok := i.spouses[familyID]
	return id, ok
}

// DisplayName returns the display form of the first name, or
// [record.Unknown].
func (i *Individual) DisplayName() string {
	if len(i.Names) == 0 {
		return record.Unknown
	}
	return i.Names[0].Display()
}

func (i *Individual) addSpouse(familyID, spouseID string) {
	if _, ok := i.spouses[familyID]; ok {
		return
	}
	if i.spouses == nil {
		i.spouses = make(map[string]string)
	}
	i.spouses[familyID] = spouseID
	i.spouseFamilies = append(i.spouseFamilies, familyID)
}

// Graph owns every [Individual] and all relations between them.
//
// A Graph is mutated only while it is built. Once [Build] returns it is
// safe for concurrent reads.
type Graph struct {
	individuals map[string]*Individual
	order       []string
	families    []record.Family
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{individuals: make(map[string]*Individual)}
}

// Add inserts ind. Adding an identifier again replaces the earlier node but
// keeps its original position.
func (g *Graph) Add(ind *Individual) {
	if _, ok := g.individuals[ind.ID]; !ok {
		g.order = append(g.order, ind.ID)
	}
	g.individuals[ind.ID] = ind
}

// Individual returns the individual with identifier id.
func (g *Graph) Individual(id string) (*Individual, bool) {
	ind, ok := g.individuals[id]
	return ind, ok
}

// Individuals returns every individual in order of first appearance.
func (g *Graph) Individuals() []*Individual {
	out := make([]*Individual, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.individuals[id])
	}
	return out
}

// Families returns the family views the graph was built from.
func (g *Graph) Families() []record.Family {
	return slices.Clone(g.families)
}

// AddFamily appends a family view. Relations are not derived from it; use
// [Build] for that.
func (g *Graph) AddFamily(f record.Family) {
	g.families = append(g.families, f)
}

// Len returns the number of individuals.
func (g *Graph) Len() int { return len(g.order) }

// Father returns the father of ind.
func (g *Graph) Father(ind *Individual) (*Individual, bool) {
	return g.lookup(ind.Father)
}

// Mother returns the mother of ind.
func (g *Graph) Mother(ind *Individual) (*Individual, bool) {
	return g.lookup(ind.Mother)
}

// ChildrenOf returns the children of ind in the order they were linked.
func (g *Graph) ChildrenOf(ind *Individual) []*Individual {
	out := make([]*Individual, 0, len(ind.Children))
	for _, id := range ind.Children {
		if c, ok := g.individuals[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SpousesOf returns the spouses of ind, one per family.
func (g *Graph) SpousesOf(ind *Individual) []*Individual {
	var out []*Individual
	for _, s := range ind.Spouses() {
		if sp, ok := g.individuals[s.SpouseID]; ok {
			out = append(out, sp)
		}
	}
	return out
}

func (g *Graph) lookup(id optional.Value[string]) (*Individual, bool) {
	v, ok := id.Get()
	if !ok {
		return nil, false
	}
	ind, ok := g.individuals[v]
	return ind, ok
}

// AddSpouse records a and b as spouses in family familyID, on both sides.
// Recording the same family again is a no-op, so an individual married in
// several families keeps one spouse per family.
func (g *Graph) AddSpouse(familyID, aID, bID string) error {
	a, ok := g.individuals[aID]
	if !ok {
		return unknown(aID)
	}
	b, ok := g.individuals[bID]
	if !ok {
		return unknown(bID)
	}
	a.addSpouse(familyID, bID)
	b.addSpouse(familyID, aID)
	return nil
}

// SetFather links childID to fatherID. Spouses are not implied; see
// [Graph.AddSpouse].
func (g *Graph) SetFather(childID, fatherID string) error {
	child, ok := g.individuals[childID]
	if !ok {
		return unknown(childID)
	}
	if _, ok := g.individuals[fatherID]; !ok {
		return unknown(fatherID)
	}
	child.Father = optional.Some(fatherID)
	g.addChild(fatherID, childID)
	return nil
}

// SetMother links childID to motherID. Spouses are not implied; see
// [Graph.AddSpouse].
func (g *Graph) SetMother(childID, motherID string) error {
	child, ok := g.individuals[childID]
	if !ok {
		return unknown(childID)
	}
	if _, ok := g.individuals[motherID]; !ok {
		return unknown(motherID)
	}
	child.Mother = optional.Some(motherID)
	g.addChild(motherID, childID)
	return nil
}

func (g *Graph) addChild(parentID, childID string) {
	p := g.individuals[parentID]
	if !slices.Contains(p.Children, childID) {
		p.Children = append(p.Children, childID)
	}
}

func unknown(id string) error {
	return fmt.Errorf("%w: %s", ErrUnknownIndividual, id)
}
