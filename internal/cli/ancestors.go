package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/graph"
)

// ancestorsCommand creates the ancestors command.
func (c *CLI) ancestorsCommand() *cobra.Command {
	var (
		mode   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ancestors <file> <id>",
		Short: "List an individual and all their ancestors",
		Long: `List an individual and every ancestor reachable through father and mother
links, each exactly once. --mode bfs (default) lists generation by generation;
--mode dfs follows one line to its end before the next.`,
		Example: `  lineage ancestors family.ged I1
  lineage ancestors family.ged @I1@ --mode dfs --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode == "" {
				mode = c.Config.Traversal.Mode
			}
			m, err := genealogy.ParseMode(mode)
			if err != nil {
				return err
			}
			if err := errors.ValidateIdentifier(args[1]); err != nil {
				return err
			}
			id := errors.NormalizeIdentifier(args[1])

			res, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			gj, err := graph.Ancestry(res.Graph, id, m)
			if err != nil {
				return err
			}
			gj.Version = res.HeaderVersion().OrElse("")

			if asJSON {
				return graph.Encode(gj, stdout)
			}
			printAncestry(gj, m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "traversal order: bfs or dfs (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ancestry subgraph as JSON")

	return cmd
}

// printAncestry prints one line per ancestor, indented by generation.
func printAncestry(gj graph.Graph, m genealogy.Mode) {
	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("Ancestors of %s", gj.Root))+" "+StyleDim.Render("("+m.String()+")"))
	for _, n := range gj.Nodes {
		indent := strings.Repeat("  ", n.Row)
		fmt.Fprintf(stdout, "%s%s %s %s\n", indent, StyleDim.Render(fmt.Sprintf("%d", n.Row)), StyleValue.Render(n.ID), n.DisplayLabel())
	}
	printDetail("%d individuals", len(gj.Nodes))
}
