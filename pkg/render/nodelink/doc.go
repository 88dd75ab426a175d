// Package nodelink renders relationship graphs as pedigree diagrams.
//
// # Overview
//
// Individuals appear as boxes, tinted by sex, with arrows from each parent
// to each child. Couples are joined by a dashed line that does not affect
// the layout. The input is the serialization format from [graph], so the
// same renderer draws a whole file or an ancestor subset built with
// [graph.Ancestry].
//
// # Usage
//
//	gj, err := graph.Ancestry(g, "I1", genealogy.ModeBreadthFirst)
//	dot := nodelink.ToDOT(gj, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Ranks
//
// For ancestor subsets, each generation is pinned to one rank using
// [graph.Node.Row], so grandparents line up even when one branch is
// deeper than another. Whole-file graphs are ranked by Graphviz alone.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
