package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineage/pkg/graph"
)

// Options configures pedigree diagram rendering.
type Options struct {
	// Detailed adds the identifier and the first birth and death dates to
	// node labels. When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a serialized relationship graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Parent edges point from parent to child. Spouse edges are drawn dashed and
// without arrowheads, and do not take part in ranking. When the graph is an
// ancestor subset (Root set), individuals of the same generation share a rank.
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, n.ID == g.Root)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		switch e.Kind {
		case graph.EdgeSpouse:
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, constraint=false];\n", e.From, e.To)
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	if g.Root != "" {
		writeRanks(&buf, g.Nodes)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeRanks(buf *bytes.Buffer, nodes []graph.Node) {
	rows := make(map[int][]string)
	for _, n := range nodes {
		rows[n.Row] = append(rows[n.Row], strconv.Quote(n.ID))
	}
	keys := make([]int, 0, len(rows))
	for r := range rows {
		keys = append(keys, r)
	}
	slices.Sort(keys)

	buf.WriteString("\n")
	for _, r := range keys {
		if len(rows[r]) < 2 {
			continue
		}
		fmt.Fprintf(buf, "  { rank=same; %s; }\n", strings.Join(rows[r], "; "))
	}
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}

	parts := []string{n.DisplayLabel(), n.ID}
	if d := firstDate(n.Births); d != "" {
		parts = append(parts, "* "+d)
	}
	if d := firstDate(n.Deaths); d != "" {
		parts = append(parts, "† "+d)
	}
	return strings.Join(parts, "\n")
}

func firstDate(events []graph.Event) string {
	for _, e := range events {
		if e.Date != "" {
			return e.Date
		}
	}
	return ""
}

func fmtAttrs(n graph.Node, label string, root bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Sex {
	case "M":
		attrs = append(attrs, "fillcolor=\"#dbe8f6\"")
	case "F":
		attrs = append(attrs, "fillcolor=\"#f6dbe6\"")
	}
	if root {
		attrs = append(attrs, "penwidth=2.5")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the point-based size Graphviz emits with a
// pixel size matching the view box, so browsers scale the diagram.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
