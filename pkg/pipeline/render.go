package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/graph"
	pkgio "github.com/matzehuels/lineage/pkg/io"
	"github.com/matzehuels/lineage/pkg/render/latex"
	"github.com/matzehuels/lineage/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	gj, err := Subject(res, opts)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))
	eg, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			data, err := renderFormat(ctx, format, gj, res, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// Subject returns the graph a render works on: the whole file, or
// opts.Root and its ancestors in opts.Mode order.
func Subject(res *Result, opts Options) (graph.Graph, error) {
	version := res.HeaderVersion().OrElse("")
	if opts.Root == "" {
		gj := graph.FromGenealogy(res.Graph)
		gj.Version = version
		return gj, nil
	}
	mode, err := genealogy.ParseMode(opts.Mode)
	if err != nil {
		return graph.Graph{}, err
	}
	gj, err := graph.Ancestry(res.Graph, opts.Root, mode)
	if err != nil {
		return graph.Graph{}, err
	}
	gj.Version = version
	return gj, nil
}

func renderFormat(ctx context.Context, format string, gj graph.Graph, res *Result, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := graph.Encode(gj, &buf); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := pkgio.WriteYAML(subset(res.Export, gj), &buf); err != nil {
			return nil, err
		}
	case FormatDOT:
		buf.WriteString(nodelink.ToDOT(gj, nodelink.Options{Detailed: opts.Detailed}))
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(gj, nodelink.Options{Detailed: opts.Detailed}))
	case FormatTeX:
		if err := latex.Write(&buf, gj, latex.Options{Title: opts.Title}); err != nil {
			return nil, err
		}
	default:
		return nil, ValidateFormat(format)
	}
	return buf.Bytes(), nil
}

// subset narrows the record-level export to the individuals and families
// of gj. The whole export is returned when gj is not a subset.
func subset(exp pkgio.Export, gj graph.Graph) pkgio.Export {
	if gj.Root == "" {
		return exp
	}
	inds := make(map[string]bool, len(gj.Nodes))
	for _, n := range gj.Nodes {
		inds[n.ID] = true
	}
	fams := make(map[string]bool, len(gj.Families))
	for _, f := range gj.Families {
		fams[f.ID] = true
	}

	out := pkgio.Export{Header: exp.Header, Diagnostics: exp.Diagnostics}
	for _, ind := range exp.Individuals {
		if inds[ind.ID] {
			out.Individuals = append(out.Individuals, ind)
		}
	}
	for _, f := range exp.Families {
		if fams[f.ID] {
			out.Families = append(out.Families, f)
		}
	}
	if out.Individuals == nil {
		out.Individuals = []record.Individual{}
	}
	if out.Families == nil {
		out.Families = []record.Family{}
	}
	return out
}
