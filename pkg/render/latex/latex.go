// Package latex renders relationship graphs as LaTeX documents using the
// genealogytree package.
//
// The document has one chapter listing every individual of the graph, in
// graph order, and one listing every family. Each individual section carries
// a small parent tree (the individual, the father and the mother), the
// additional names, and the birth, baptism, death and burial events.
//
//	var buf bytes.Buffer
//	err := latex.Write(&buf, graph.FromGenealogy(g), latex.Options{Title: "Smith"})
//
// Compile the output with lualatex or pdflatex; genealogytree must be
// installed.
package latex

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/optional"
)

//go:embed document.tmpl
var documentTemplate string

var tmpl = template.Must(template.New("document").Delims("<<", ">>").Parse(documentTemplate))

// Options configures the document.
type Options struct {
	Title            string    // Defaults to "Genealogy"
	Date             time.Time // Defaults to now
	IndividualsTitle string    // Defaults to "Individuals"
	FamiliesTitle    string    // Defaults to "Families"
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Genealogy"
	}
	if o.Date.IsZero() {
		o.Date = time.Now()
	}
	if o.IndividualsTitle == "" {
		o.IndividualsTitle = "Individuals"
	}
	if o.FamiliesTitle == "" {
		o.FamiliesTitle = "Families"
	}
	return o
}

// Render returns the document for g.
func Render(g graph.Graph, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the document for g to w.
func Write(w io.Writer, g graph.Graph, opts Options) error {
	opts = opts.withDefaults()
	if err := tmpl.Execute(w, newDocument(g, opts)); err != nil {
		return fmt.Errorf("render latex: %w", err)
	}
	return nil
}

// =============================================================================
// Template data
// =============================================================================

type document struct {
	Title            string
	Date             string
	IndividualsTitle string
	FamiliesTitle    string
	Individuals      []individual
	Families         []family
}

type individual struct {
	Name       string
	Label      string
	Graph      string
	OtherNames []string
	Events     []event
}

type family struct {
	ID        string
	Graph     string
	Marriages []event
	Members   []member
}

type member struct {
	Role  string
	Name  string
	Label string
}

type event struct {
	Symbol string
	Date   string
	Place  string
}

func newDocument(g graph.Graph, opts Options) document {
	nodes := make(map[string]*graph.Node, len(g.Nodes))
	for i := range g.Nodes {
		nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}
	fathers := make(map[string]string)
	mothers := make(map[string]string)
	for _, e := range g.Edges {
		switch e.Kind {
		case graph.EdgeFather:
			fathers[e.To] = e.From
		case graph.EdgeMother:
			mothers[e.To] = e.From
		}
	}

	doc := document{
		Title:            escape(opts.Title),
		Date:             opts.Date.Format(time.DateOnly),
		IndividualsTitle: escape(opts.IndividualsTitle),
		FamiliesTitle:    escape(opts.FamiliesTitle),
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		ind := individual{
			Name:  escape(n.DisplayLabel()),
			Label: label(n.ID),
			Graph: parentTree(n, nodes[fathers[n.ID]], nodes[mothers[n.ID]]),
		}
		for j, name := range n.Names {
			if j > 0 {
				ind.OtherNames = append(ind.OtherNames, escape(displayName(name)))
			}
		}
		ind.Events = appendEvents(ind.Events, `\gtrsymBorn`, n.Births)
		ind.Events = appendEvents(ind.Events, `\gtrsymBaptized`, n.Baptisms)
		ind.Events = appendEvents(ind.Events, `\gtrsymDied`, n.Deaths)
		ind.Events = appendEvents(ind.Events, `\gtrsymBuried`, n.Burials)
		doc.Individuals = append(doc.Individuals, ind)
	}

	for _, f := range g.Families {
		doc.Families = append(doc.Families, newFamily(f, nodes))
	}
	return doc
}

func newFamily(f graph.Family, nodes map[string]*graph.Node) family {
	out := family{
		ID:        escape(f.ID),
		Marriages: appendEvents(nil, `\gtrsymMarried`, f.Marriages),
	}

	husband, wife := nodes[f.Husband], nodes[f.Wife]
	var children []*graph.Node
	for _, id := range f.Children {
		if c := nodes[id]; c != nil {
			children = append(children, c)
		}
	}

	addMember := func(role string, n *graph.Node) {
		out.Members = append(out.Members, member{Role: role, Name: escape(n.DisplayLabel()), Label: label(n.ID)})
	}
	if husband != nil {
		addMember("Husband", husband)
	}
	if wife != nil {
		addMember("Wife", wife)
	}
	for _, c := range children {
		addMember("Child", c)
	}

	// genealogytree needs a proband inside a child family.
	proband, partner := husband, wife
	if proband == nil {
		proband, partner = wife, nil
	}
	if proband == nil {
		return out
	}
	var b strings.Builder
	fmt.Fprintf(&b, "child[id=%s]{\n  %s\n", label(f.ID), node("g", proband))
	if partner != nil {
		fmt.Fprintf(&b, "  %s\n", node("p", partner))
	}
	for _, c := range children {
		fmt.Fprintf(&b, "  %s\n", node("c", c))
	}
	b.WriteString("}")
	out.Graph = b.String()
	return out
}

// parentTree returns a genealogytree parent tree with n as proband and its
// known parents above it.
func parentTree(n, father, mother *graph.Node) string {
	var b strings.Builder
	b.WriteString("parent")
	if n.ChildOf != "" {
		fmt.Fprintf(&b, "[id=%s]", label(n.ChildOf))
	}
	fmt.Fprintf(&b, "{\n  %s\n", node("g", n))
	for _, p := range []*graph.Node{father, mother} {
		if p != nil {
			fmt.Fprintf(&b, "  parent{ %s }\n", node("g", p))
		}
	}
	b.WriteString("}")
	return b.String()
}

// node returns one genealogytree node: the display name followed by the
// first known birth and death dates.
func node(kind string, n *graph.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[id=%s,%s]{%s", kind, label(n.ID), sexOption(n.Sex), probandName(n))
	if d := firstDate(n.Births); d != "" {
		b.WriteString(`\\\gtrsymBorn\,` + d)
	}
	if d := firstDate(n.Deaths); d != "" {
		b.WriteString(`\\\gtrsymDied\,` + d)
	}
	b.WriteString("}")
	return b.String()
}

func probandName(n *graph.Node) string {
	for _, name := range n.Names {
		if name.Given != "" || name.Surname != "" {
			return strings.TrimSpace(escape(name.Given) + ` \surn{` + escape(name.Surname) + `}`)
		}
	}
	if len(n.Names) > 0 {
		return escape(displayName(n.Names[0]))
	}
	return escape(n.ID)
}

func displayName(n graph.Name) string {
	return record.Name{
		Full:    n.Full,
		Given:   optional.NonEmpty(n.Given),
		Surname: optional.NonEmpty(n.Surname),
	}.Display()
}

func sexOption(sex string) string {
	switch sex {
	case "M":
		return "male"
	case "F":
		return "female"
	default:
		return "neuter"
	}
}

func firstDate(events []graph.Event) string {
	if len(events) == 0 || events[0].Date == "" {
		return ""
	}
	return escape(strings.ToLower(events[0].Date))
}

func appendEvents(dst []event, symbol string, events []graph.Event) []event {
	for _, e := range events {
		dst = append(dst, event{Symbol: symbol, Date: escape(e.Date), Place: escape(e.Place)})
	}
	return dst
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
	`"`, `''`,
)

func escape(s string) string { return latexReplacer.Replace(s) }

var labelRe = regexp.MustCompile(`[^A-Za-z0-9\-.:]`)

// label makes an identifier safe for \label and genealogytree ids.
func label(id string) string { return labelRe.ReplaceAllString(id, "-") }
