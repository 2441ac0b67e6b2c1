// Package update provides the update command.
package update

import (
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/agentstation/lucro/internal/appcontext"
	"github.com/agentstation/lucro/internal/cmd/output"
	"github.com/agentstation/lucro/pkg/catalogs"
)

// Result summarizes an update.
type Result struct {
	Refreshed bool   `json:"refreshed" yaml:"refreshed"`
	Items     int    `json:"items" yaml:"items"`
	Added     int64  `json:"added" yaml:"added"`
	Updated   int64  `json:"updated" yaml:"updated"`
	Removed   int64  `json:"removed" yaml:"removed"`
	DataDir   string `json:"data_dir" yaml:"data_dir"`
}

// NewCommand creates the update command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "update",
		GroupID: "management",
		Short:   "Refresh the cached catalog",
		Long: `Update fetches the full item catalog when the cached copy is older than
the refresh interval, or always with --force. When the fetch fails the
cached catalog is kept and the error is reported.`,
		Example: `  lucro update
  lucro update --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}

			var added, updated, removed atomic.Int64
			client.OnItemAdded(func(catalogs.Item) { added.Add(1) })
			client.OnItemUpdated(func(_, _ catalogs.Item) { updated.Add(1) })
			client.OnItemRemoved(func(catalogs.Item) { removed.Add(1) })

			refreshed, err := client.Update(cmd.Context(), force)
			if err != nil {
				return err
			}

			status := client.Status()
			switch {
			case refreshed:
				app.Logger().Info().Int("items", status.Items).Msg("Catalog updated")
			case status.NextRefresh != nil:
				app.Logger().Info().Time("next_refresh", status.NextRefresh.Time).Msg("Catalog is fresh, nothing to do")
			}

			return output.FormatAny(cmd.OutOrStdout(), Result{
				Refreshed: refreshed,
				Items:     status.Items,
				Added:     added.Load(),
				Updated:   updated.Load(),
				Removed:   removed.Load(),
				DataDir:   status.DataDir,
			}, app.Flags())
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Refresh even when the cached catalog is fresh")
	return cmd
}
