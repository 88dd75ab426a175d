package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		severity string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a GEDCOM file and list its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var floor diag.Severity
			if err := floor.UnmarshalText([]byte(severity)); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --severity")
			}

			res, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(args[0], res)
			printIndividuals(res.Graph, limit)
			printDiagnosticSummary(res.Diagnostics, floor)
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "warning", "lowest diagnostic severity to list: debug, warning, error")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum individuals to list (0 for all)")

	return cmd
}

// printSummary prints the header fields and graph statistics.
func printSummary(path string, res *pipeline.Result) {
	fmt.Fprintln(stdout, StyleTitle.Render(path))
	if h, ok := res.Header().Get(); ok {
		gedc := h.GEDC.OrElse(record.GEDC{})
		printKeyValue("Version", orDash(gedc.Version))
		printKeyValue("Form", orDash(gedc.Form))
		printKeyValue("Charset", orDash(h.CharSet.OrElse(record.CharSet{}).Name))
		printKeyValue("Source", orDash(h.Source.OrElse("")))
	} else {
		printWarning("file has no header")
	}
	printStats(res.Stats.Individuals, res.Stats.Families, res.CacheInfo.LoadHit)
	printNewline()
}

// printIndividuals renders up to limit individuals as a table.
func printIndividuals(g *genealogy.Graph, limit int) {
	inds := g.Individuals()
	shown := inds
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, 0, len(shown))
	for _, ind := range shown {
		rows = append(rows, []string{
			ind.ID,
			ind.DisplayName(),
			orDash(string(ind.Sex)),
			orDash(firstDate(ind.Births)),
			orDash(firstDate(ind.Deaths)),
			orDash(strings.Join(parents(g, ind), ", ")),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("ID", "Name", "Sex", "Born", "Died", "Parents").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(stdout, t.Render())

	if len(shown) < len(inds) {
		printDetail("%d more not shown (--limit 0 lists all)", len(inds)-len(shown))
	}
	printNewline()
}

// printDiagnosticSummary lists the diagnostics at or above floor.
func printDiagnosticSummary(all []diag.Diagnostic, floor diag.Severity) {
	var shown []diag.Diagnostic
	for _, d := range all {
		if d.Severity >= floor {
			shown = append(shown, d)
		}
	}
	if len(shown) == 0 {
		printSuccess("No diagnostics at %s or above", floor)
		return
	}
	printWarning("%d diagnostics", len(shown))
	printDiagnostics(shown)
}

func parents(g *genealogy.Graph, ind *genealogy.Individual) []string {
	var out []string
	if f, ok := g.Father(ind); ok {
		out = append(out, f.ID)
	}
	if m, ok := g.Mother(ind); ok {
		out = append(out, m.ID)
	}
	return out
}

// firstDate returns the first known date among events.
func firstDate(events []record.Event) string {
	for _, e := range events {
		if d, ok := e.Date.Get(); ok {
			return d
		}
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
