package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/graph"
)

// pickCommand creates the pick command.
func (c *CLI) pickCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "pick <file>",
		Short: "Choose an individual interactively and list their ancestors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode == "" {
				mode = c.Config.Traversal.Mode
			}
			m, err := genealogy.ParseMode(mode)
			if err != nil {
				return err
			}

			res, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.Graph.Len() == 0 {
				printWarning("%s has no individuals", args[0])
				return nil
			}

			final, err := tea.NewProgram(NewIndividualListModel(res.Graph), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			selected := final.(IndividualListModel).Selected
			if selected == nil {
				printInfo("Nothing selected")
				return nil
			}

			gj, err := graph.Ancestry(res.Graph, selected.ID, m)
			if err != nil {
				return err
			}
			printAncestry(gj, m)
			printNewline()
			printNextStep("Render this tree", "lineage render "+args[0]+" --root "+selected.ID+" --format svg,tex")
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "traversal order: bfs or dfs (default from config)")

	return cmd
}
