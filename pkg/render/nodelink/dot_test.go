package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/graph"
)

func family() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "I1", Label: "John Smith", Sex: "M", Births: []graph.Event{{Tag: "BIRT", Date: "1950"}}},
			{ID: "I2", Label: "Jane Doe", Sex: "F", Deaths: []graph.Event{{Tag: "DEAT", Place: "Leeds"}, {Tag: "DEAT", Date: "2001"}}},
			{ID: "I3", Sex: "U"},
		},
		Edges: []graph.Edge{
			{From: "I1", To: "I2", Kind: graph.EdgeSpouse, Family: "F1"},
			{From: "I1", To: "I3", Kind: graph.EdgeFather, Family: "F1"},
			{From: "I2", To: "I3", Kind: graph.EdgeMother, Family: "F1"},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(family(), Options{})

	for _, want := range []string{
		"digraph G",
		`"I1" [label="John Smith", fillcolor="#dbe8f6"]`,
		`"I2" [label="Jane Doe", fillcolor="#f6dbe6"]`,
		`"I3" [label="I3"]`,
		`"I1" -> "I2" [dir=none, style=dashed, constraint=false];`,
		`"I1" -> "I3";`,
		`"I2" -> "I3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "rank=same") {
		t.Error("whole-file graph should not pin ranks")
	}
}

func TestToDOT_Ancestry(t *testing.T) {
	g := graph.Graph{
		Root: "I3",
		Nodes: []graph.Node{
			{ID: "I3"},
			{ID: "I1", Row: 1},
			{ID: "I2", Row: 1},
		},
	}

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, `{ rank=same; "I1"; "I2"; }`) {
		t.Errorf("ToDOT() missing generation rank:\n%s", dot)
	}
	if !strings.Contains(dot, `"I3" [label="I3", penwidth=2.5]`) {
		t.Errorf("ToDOT() root not highlighted:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	g := family()
	tests := []struct {
		name     string
		node     graph.Node
		detailed bool
		want     string
	}{
		{"Simple", g.Nodes[0], false, "John Smith"},
		{"NoLabel", g.Nodes[2], false, "I3"},
		{"Birth", g.Nodes[0], true, "John Smith\nI1\n* 1950"},
		{"DeathSkipsUndated", g.Nodes[1], true, "Jane Doe\nI2\n† 2001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(family(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
