package genealogy

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/gedcom/record"
)

// BuildOptions configures [Build].
type BuildOptions struct {
	Logger      *log.Logger
	Diagnostics diag.Sink
}

// Build cross-references families and individuals into a relationship graph.
//
// One node is created per individual view; a repeated identifier keeps its
// first position and the later definition. Individuals without an
// identifier cannot be referenced and are skipped with a warning. Then, for every family, the
// husband and wife are recorded as spouses under the family identifier and
// every child is linked to whichever parents are present.
//
// A family naming an individual that does not exist is not an error: the
// missing side is skipped and a dangling-reference warning is reported,
// since partial exports routinely trim records.
func Build(individuals []record.Individual, families []record.Family, opts BuildOptions) *Graph {
	sink := diag.OrDiscard(opts.Diagnostics)
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := New()
	var skipped int
	for _, r := range individuals {
		if r.ID == record.Unknown {
			skipped++
			continue
		}
		g.Add(FromRecord(r))
	}
	if skipped > 0 {
		sink.Report(diag.Diagnostic{
			Kind:     diag.KindStructure,
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("%d INDI records without an identifier skipped", skipped),
		})
	}
	g.families = append(g.families, families...)

	var dangling, links int
	resolve := func(fam record.Family, role, id string) (string, bool) {
		if _, ok := g.individuals[id]; ok {
			return id, true
		}
		dangling++
		sink.Report(diag.Diagnostic{
			Kind:     diag.KindDanglingReference,
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("family %s references missing %s %s", fam.ID, role, id),
		})
		return "", false
	}

	for _, fam := range families {
		var husband, wife string
		var hasHusband, hasWife bool
		if id, ok := fam.HusbandID.Get(); ok {
			husband, hasHusband = resolve(fam, "husband", id)
		}
		if id, ok := fam.WifeID.Get(); ok {
			wife, hasWife = resolve(fam, "wife", id)
		}
		if hasHusband && hasWife {
			_ = g.AddSpouse(fam.ID, husband, wife)
		}

		for _, cid := range fam.ChildIDs {
			child, ok := resolve(fam, "child", cid)
			if !ok {
				continue
			}
			if hasHusband {
				_ = g.SetFather(child, husband)
				links++
			}
			if hasWife {
				_ = g.SetMother(child, wife)
				links++
			}
		}
	}

	logger.Debug("built relationship graph",
		"individuals", g.Len(),
		"families", len(families),
		"parent-links", links,
		"dangling", dangling)
	return g
}

// FromStore builds the graph from every INDI and FAM record of a parsed
// document.
func FromStore(store *gedcom.Store, opts BuildOptions) *Graph {
	return Build(record.Individuals(store), record.Families(store), opts)
}
