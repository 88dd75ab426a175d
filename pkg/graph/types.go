package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/optional"
)

// =============================================================================
// Constants
// =============================================================================

// Edge kinds.
const (
	EdgeFather = "father"
	EdgeMother = "mother"
	EdgeSpouse = "spouse"
)

// =============================================================================
// Graph - Relationship Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for relationship graphs.
// Used for file export, API responses, caching, and snapshot storage.
//
// The format is designed for round-trip fidelity: a graph converted with
// [FromGenealogy] and back with [ToGenealogy] has the same individuals in the
// same order, with the same parents, children and spouses.
type Graph struct {
	Version  string   `json:"version,omitempty" bson:"version,omitempty"` // HEAD.GEDC.VERS of the source
	Root     string   `json:"root,omitempty" bson:"root,omitempty"`       // Set on ancestor subsets
	Nodes    []Node   `json:"nodes" bson:"nodes"`
	Edges    []Edge   `json:"edges" bson:"edges"`
	Families []Family `json:"families,omitempty" bson:"families,omitempty"`
}

// =============================================================================
// Node - Individual
// =============================================================================

// Node is one individual.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Label    string   `json:"label,omitempty" bson:"label,omitempty"` // Display name
	Sex      string   `json:"sex,omitempty" bson:"sex,omitempty"`
	Row      int      `json:"row,omitempty" bson:"row,omitempty"` // Generations above Root
	Names    []Name   `json:"names,omitempty" bson:"names,omitempty"`
	Births   []Event  `json:"births,omitempty" bson:"births,omitempty"`
	Baptisms []Event  `json:"baptisms,omitempty" bson:"baptisms,omitempty"`
	Deaths   []Event  `json:"deaths,omitempty" bson:"deaths,omitempty"`
	Burials  []Event  `json:"burials,omitempty" bson:"burials,omitempty"`
	URIs     []string `json:"uris,omitempty" bson:"uris,omitempty"`
	ChildOf  string   `json:"child_of,omitempty" bson:"child_of,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Name is a personal name. Empty strings stand for absent parts.
type Name struct {
	Full    string `json:"full" bson:"full"`
	Given   string `json:"given,omitempty" bson:"given,omitempty"`
	Surname string `json:"surname,omitempty" bson:"surname,omitempty"`
}

// Event is a dated or placed life event.
type Event struct {
	Tag   string `json:"tag,omitempty" bson:"tag,omitempty"`
	Date  string `json:"date,omitempty" bson:"date,omitempty"`
	Place string `json:"place,omitempty" bson:"place,omitempty"`
}

// =============================================================================
// Edge - Relation
// =============================================================================

// Edge is a relation between two individuals. Parent edges point from the
// parent to the child; spouse edges are stored once per pair and family.
type Edge struct {
	From   string `json:"from" bson:"from"`
	To     string `json:"to" bson:"to"`
	Kind   string `json:"kind" bson:"kind"`
	Family string `json:"family,omitempty" bson:"family,omitempty"`
}

// Family is a FAM record as it appeared in the source.
type Family struct {
	ID        string   `json:"id" bson:"id"`
	Husband   string   `json:"husband,omitempty" bson:"husband,omitempty"`
	Wife      string   `json:"wife,omitempty" bson:"wife,omitempty"`
	Children  []string `json:"children,omitempty" bson:"children,omitempty"`
	Marriages []Event  `json:"marriages,omitempty" bson:"marriages,omitempty"`
}

// =============================================================================
// genealogy.Graph ↔ Graph Conversion
// =============================================================================

// FromGenealogy converts a relationship graph to its serialization format.
// Nodes keep the graph's first-appearance order. Spouse edges come first,
// then parent edges grouped by parent in child order.
func FromGenealogy(g *genealogy.Graph) Graph {
	inds := g.Individuals()
	out := Graph{
		Nodes: make([]Node, 0, len(inds)),
		Edges: []Edge{},
	}
	for _, ind := range inds {
		out.Nodes = append(out.Nodes, nodeFromIndividual(ind))
	}

	seen := make(map[[3]string]bool)
	for _, ind := range inds {
		for _, s := range ind.Spouses() {
			a, b := ind.ID, s.SpouseID
			if b < a {
				a, b = b, a
			}
			key := [3]string{s.FamilyID, a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Edges = append(out.Edges, Edge{From: ind.ID, To: s.SpouseID, Kind: EdgeSpouse, Family: s.FamilyID})
		}
	}

	for _, p := range inds {
		for _, c := range g.ChildrenOf(p) {
			fam := familyOf(g, c)
			if c.Father.OrElse("") == p.ID {
				out.Edges = append(out.Edges, Edge{From: p.ID, To: c.ID, Kind: EdgeFather, Family: fam})
			}
			if c.Mother.OrElse("") == p.ID {
				out.Edges = append(out.Edges, Edge{From: p.ID, To: c.ID, Kind: EdgeMother, Family: fam})
			}
		}
	}

	for _, f := range g.Families() {
		out.Families = append(out.Families, familyFromRecord(f))
	}
	return out
}

// ToGenealogy converts a Graph back to a relationship graph.
// Returns an error for repeated node IDs, unknown edge kinds, or edges that
// name a missing node.
func ToGenealogy(gj Graph) (*genealogy.Graph, error) {
	g := genealogy.New()
	for _, nj := range gj.Nodes {
		if _, ok := g.Individual(nj.ID); ok {
			return nil, fmt.Errorf("add node %s: duplicate id", nj.ID)
		}
		g.Add(individualFromNode(nj))
	}

	for _, ej := range gj.Edges {
		var err error
		switch ej.Kind {
		case EdgeSpouse:
			err = g.AddSpouse(ej.Family, ej.From, ej.To)
		case EdgeFather:
			err = g.SetFather(ej.To, ej.From)
		case EdgeMother:
			err = g.SetMother(ej.To, ej.From)
		default:
			err = fmt.Errorf("unknown kind %q", ej.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	for _, fj := range gj.Families {
		g.AddFamily(familyToRecord(fj))
	}
	return g, nil
}

// Ancestry returns the subset of g made of rootID and its ancestors, in walk
// order. Each node's Row is its generation distance from the root; families
// are kept when one of their spouses is in the subset.
func Ancestry(g *genealogy.Graph, rootID string, mode genealogy.Mode) (Graph, error) {
	line, err := g.AncestorsOf(rootID, mode)
	if err != nil {
		return Graph{}, err
	}
	rows := generations(g, line[0])

	full := FromGenealogy(g)
	byID := make(map[string]Node, len(full.Nodes))
	for _, n := range full.Nodes {
		byID[n.ID] = n
	}

	out := Graph{Root: rootID, Nodes: make([]Node, 0, len(line)), Edges: []Edge{}}
	keep := make(map[string]bool, len(line))
	for _, ind := range line {
		n := byID[ind.ID]
		n.Row = rows[ind.ID]
		out.Nodes = append(out.Nodes, n)
		keep[ind.ID] = true
	}
	for _, e := range full.Edges {
		if keep[e.From] && keep[e.To] {
			out.Edges = append(out.Edges, e)
		}
	}
	for _, f := range full.Families {
		if keep[f.Husband] || keep[f.Wife] {
			out.Families = append(out.Families, f)
		}
	}
	return out, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// generations assigns each ancestor of root its shortest distance in
// generations. Pedigree collapse puts a shared ancestor on the nearer row.
func generations(g *genealogy.Graph, root *genealogy.Individual) map[string]int {
	rows := map[string]int{root.ID: 0}
	queue := []*genealogy.Individual{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, lookup := range []func(*genealogy.Individual) (*genealogy.Individual, bool){g.Father, g.Mother} {
			p, ok := lookup(n)
			if !ok {
				continue
			}
			if _, seen := rows[p.ID]; seen {
				continue
			}
			rows[p.ID] = rows[n.ID] + 1
			queue = append(queue, p)
		}
	}
	return rows
}

// familyOf finds the family linking c to its parents: the spouse relation
// between father and mother when both are known, else the first FAMC.
func familyOf(g *genealogy.Graph, c *genealogy.Individual) string {
	father, hasFather := c.Father.Get()
	mother, hasMother := c.Mother.Get()
	if hasFather && hasMother {
		if f, ok := g.Individual(father); ok {
			for _, s := range f.Spouses() {
				if s.SpouseID == mother {
					return s.FamilyID
				}
			}
		}
	}
	return c.ChildOf.OrElse("")
}

func nodeFromIndividual(ind *genealogy.Individual) Node {
	n := Node{
		ID:       ind.ID,
		Label:    ind.DisplayName(),
		Sex:      string(ind.Sex),
		Births:   eventsFromRecord(ind.Births),
		Baptisms: eventsFromRecord(ind.Baptisms),
		Deaths:   eventsFromRecord(ind.Deaths),
		Burials:  eventsFromRecord(ind.Burials),
		URIs:     ind.URIs,
		ChildOf:  ind.ChildOf.OrElse(""),
	}
	for _, name := range ind.Names {
		n.Names = append(n.Names, Name{
			Full:    name.Full,
			Given:   name.Given.OrElse(""),
			Surname: name.Surname.OrElse(""),
		})
	}
	return n
}

func individualFromNode(n Node) *genealogy.Individual {
	ind := &genealogy.Individual{
		ID:       n.ID,
		Sex:      record.ParseSex(n.Sex),
		Births:   eventsToRecord(n.Births),
		Baptisms: eventsToRecord(n.Baptisms),
		Deaths:   eventsToRecord(n.Deaths),
		Burials:  eventsToRecord(n.Burials),
		URIs:     n.URIs,
		ChildOf:  optional.NonEmpty(n.ChildOf),
	}
	for _, name := range n.Names {
		ind.Names = append(ind.Names, record.Name{
			Full:    name.Full,
			Given:   optional.NonEmpty(name.Given),
			Surname: optional.NonEmpty(name.Surname),
		})
	}
	return ind
}

func eventsFromRecord(events []record.Event) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = Event{Tag: e.Tag, Date: e.Date.OrElse(""), Place: e.Place.OrElse("")}
	}
	return out
}

func eventsToRecord(events []Event) []record.Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]record.Event, len(events))
	for i, e := range events {
		out[i] = record.Event{Tag: e.Tag, Date: optional.NonEmpty(e.Date), Place: optional.NonEmpty(e.Place)}
	}
	return out
}

func familyFromRecord(f record.Family) Family {
	return Family{
		ID:        f.ID,
		Husband:   f.HusbandID.OrElse(""),
		Wife:      f.WifeID.OrElse(""),
		Children:  f.ChildIDs,
		Marriages: eventsFromRecord(f.Marriages),
	}
}

func familyToRecord(f Family) record.Family {
	return record.Family{
		ID:        f.ID,
		HusbandID: optional.NonEmpty(f.Husband),
		WifeID:    optional.NonEmpty(f.Wife),
		ChildIDs:  f.Children,
		Marriages: eventsToRecord(f.Marriages),
	}
}
