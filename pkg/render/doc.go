// Package render groups the output renderers for relationship graphs.
//
// Both renderers take the serialized form of a graph ([graph.Graph]), so
// they work the same on a whole file and on an ancestry subset produced by
// [graph.Ancestry]:
//
//   - [nodelink]: Graphviz DOT pedigree charts, laid out to SVG with
//     go-graphviz. Parent links are arrows, spouse links dashed lines.
//   - [latex]: a LaTeX book using the genealogytree package, with one
//     section per individual and one per family.
//
//	gj, _ := graph.Ancestry(g, "I1", genealogy.ModeBreadthFirst)
//	dot := nodelink.ToDOT(gj, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	tex, err := latex.Render(gj, latex.Options{Title: "The Smiths"})
//
// [graph.Graph]: github.com/matzehuels/lineage/pkg/graph.Graph
// [graph.Ancestry]: github.com/matzehuels/lineage/pkg/graph.Ancestry
// [nodelink]: github.com/matzehuels/lineage/pkg/render/nodelink
// [latex]: github.com/matzehuels/lineage/pkg/render/latex
package render
