package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/store"
)

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Store the relationship graph of a file as a MongoDB snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.Config.Store.MongoURI == "" {
				return errors.New(errors.ErrCodeInvalidInput, "publish needs store.mongo_uri in the config or LINEAGE_MONGO_URI")
			}
			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}

			res, err := c.load(ctx, args[0])
			if err != nil {
				return err
			}
			snapshots, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer snapshots.Close(context.Background())

			gj := graph.FromGenealogy(res.Graph)
			gj.Version = res.HeaderVersion().OrElse("")
			snap := &store.Snapshot{
				Name:        name,
				Source:      args[0],
				FileHash:    res.FileHash,
				Graph:       gj,
				Diagnostics: res.Diagnostics,
			}
			if err := snapshots.Save(ctx, snap); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "publish %s", name)
			}

			printSuccess("Published %s", name)
			printKeyValue("ID", snap.ID)
			printKeyValue("Created", snap.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			printStats(res.Stats.Individuals, res.Stats.Families, res.CacheInfo.LoadHit)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "snapshot name (default: file name without extension)")

	return cmd
}
