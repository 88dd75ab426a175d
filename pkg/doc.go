// Package pkg provides the libraries behind lineage, a GEDCOM reader and
// family relationship graph.
//
// # Overview
//
// The pkg directory is organized in layers:
//
//  1. [gedcom] - Line grammar, structure tree and record views
//  2. [genealogy] - Relationship graph and ancestor walks
//  3. [graph], [io] - Serialization (JSON, YAML, BSON)
//  4. [render] - DOT/SVG and LaTeX output
//  5. [pipeline] - Orchestration (load → gate → graph → render)
//  6. [api], [store], [cache] - Serving, snapshots and caching
//
// # Architecture
//
//	GEDCOM file
//	     ↓
//	[gedcom] parse into a structure tree (diagnostics to [diag])
//	     ↓
//	[gedcom/record] header, individual and family views
//	     ↓
//	[genealogy] cross-reference into a graph
//	     ↓
//	[graph] / [render] JSON, YAML, DOT, SVG, LaTeX
//
// # Quick Start
//
//	doc, err := gedcom.Parse(r, gedcom.Options{})
//	if err != nil {
//	    return err
//	}
//	g := genealogy.FromStore(doc.Store(), genealogy.BuildOptions{})
//	line, err := g.AncestorsOf("I1", genealogy.ModeBreadthFirst)
//	if err != nil {
//	    return err
//	}
//	for _, ind := range line {
//	    fmt.Println(ind.ID, ind.DisplayName())
//	}
//
// Most callers go through [pipeline], which adds caching, the version gate
// and rendering:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "family.ged",
//	    Root:    "I1",
//	    Formats: []string{"svg"},
//	})
//
// [gedcom]: github.com/matzehuels/lineage/pkg/gedcom
// [gedcom/record]: github.com/matzehuels/lineage/pkg/gedcom/record
// [genealogy]: github.com/matzehuels/lineage/pkg/genealogy
// [graph]: github.com/matzehuels/lineage/pkg/graph
// [io]: github.com/matzehuels/lineage/pkg/io
// [render]: github.com/matzehuels/lineage/pkg/render
// [pipeline]: github.com/matzehuels/lineage/pkg/pipeline
// [api]: github.com/matzehuels/lineage/pkg/api
// [store]: github.com/matzehuels/lineage/pkg/store
// [cache]: github.com/matzehuels/lineage/pkg/cache
// [diag]: github.com/matzehuels/lineage/pkg/diag
package pkg
