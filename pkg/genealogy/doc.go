// Package genealogy derives a relationship graph from GEDCOM records and walks
// ancestries over it.
//
// # Overview
//
// [Build] takes the individual and family views read by package record and
// produces a [Graph] of [Individual] nodes linked by father, mother, spouse
// and child relations. Relations are identifiers into the graph, which owns
// every node; no node holds a pointer to another.
//
//	doc, _ := gedcom.Open("family.ged", gedcom.Options{})
//	g := genealogy.FromStore(doc.Store(), genealogy.BuildOptions{})
//	line, _ := g.AncestorsOf("I1", genealogy.ModeBreadthFirst)
//
// # Spouses
//
// Spouse relations are keyed by family identifier so that someone married in
// several families keeps each spouse separately. Recording the same spouse
// for the same family twice is a no-op.
// Only a family naming both a husband and a wife records a couple; sharing a
// child does not make two people spouses.
//
// # Traversal
//
// [BreadthFirst] and [DepthFirst] follow father and mother links only. Both
// track visited individuals, so pedigree collapse (two lines of ancestry
// meeting at a shared ancestor) yields that ancestor once, and both terminate
// on any finite graph. They return iter.Seq values:
//
//	for ind := range genealogy.DepthFirst(g, root) {
//	    fmt.Println(ind.ID, ind.DisplayName())
//	}
//
// # Dangling References
//
// A family that names an individual missing from the file is not an error.
// The reference is skipped and reported to [BuildOptions.Diagnostics] as a
// dangling-reference warning.
package genealogy
