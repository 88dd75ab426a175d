package latex

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/lineage/pkg/graph"
)

func sample() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{
				ID: "I1", Label: "John Smith", Sex: "M",
				Names:  []graph.Name{{Full: "John /Smith/", Given: "John", Surname: "Smith"}, {Full: "Jack /Smith/"}},
				Births: []graph.Event{{Tag: "BIRT", Date: "ABT 1950", Place: "London"}},
			},
			{
				ID: "I2", Label: "Jane Doe", Sex: "F",
				Names:   []graph.Name{{Full: "Jane /Doe/"}},
				Burials: []graph.Event{{Tag: "BURI", Place: "York"}},
			},
			{ID: "I3", ChildOf: "F1"},
		},
		Edges: []graph.Edge{
			{From: "I1", To: "I2", Kind: graph.EdgeSpouse, Family: "F1"},
			{From: "I1", To: "I3", Kind: graph.EdgeFather, Family: "F1"},
			{From: "I2", To: "I3", Kind: graph.EdgeMother, Family: "F1"},
		},
		Families: []graph.Family{
			{ID: "F1", Husband: "I1", Wife: "I2", Children: []string{"I3"}, Marriages: []graph.Event{{Tag: "MARR", Date: "1975"}}},
			{ID: "F2", Children: []string{"I3"}},
		},
	}
}

func TestRender(t *testing.T) {
	out, err := Render(sample(), Options{Title: "Smith & Doe", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		`\title{Smith \& Doe}`,
		`\date{2024-05-01}`,
		`\chapter{Individuals}`,
		`\section{John Smith}\label{sec:I1}`,
		`g[id=I1,male]{John \surn{Smith}\\\gtrsymBorn\,abt 1950}`,
		`\noindent\textit{Jack Smith}\par`,
		`\noindent\gtrsymBorn\ ABT 1950, London\par`,
		`\noindent\gtrsymBuried\ York\par`,
		"parent[id=F1]{\n  g[id=I3,neuter]{I3}\n  parent{ g[id=I1,male]",
		`  parent{ g[id=I2,female]{Jane Doe} }`,
		`\chapter{Families}`,
		"child[id=F1]{\n  g[id=I1,male]",
		`  p[id=I2,female]{Jane Doe}`,
		`  c[id=I3,neuter]{I3}`,
		`\noindent\gtrsymMarried\ 1975\par`,
		`\noindent Wife: \hyperref[sec:I2]{Jane Doe}\par`,
		`\end{document}`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q\n%s", want, doc)
		}
	}

	f2 := doc[strings.Index(doc, `\section*{F2}`):]
	if strings.Contains(f2, "genealogypicture") {
		t.Error("family without parents should have no picture")
	}
	if !strings.Contains(f2, `\noindent Child: \hyperref[sec:I3]{I3}\par`) {
		t.Errorf("family F2 missing child:\n%s", f2)
	}
}

func TestRenderDefaults(t *testing.T) {
	out, err := Render(graph.Graph{}, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), `\title{Genealogy}`) {
		t.Error("default title not applied")
	}
	if !strings.Contains(string(out), `\date{`+time.Now().Format(time.DateOnly)) {
		t.Error("default date not applied")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"50% & more", `50\% \& more`},
		{`a_b#c$`, `a\_b\#c\$`},
		{`{x}`, `\{x\}`},
		{`back\slash`, `back\textbackslash{}slash`},
		{`"quoted"`, `''quoted''`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escape(tt.in); got != tt.want {
				t.Errorf("escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := label("I 1/x"); got != "I-1-x" {
		t.Errorf("label = %q", got)
	}
}
