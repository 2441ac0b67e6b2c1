// Package search provides the search command.
package search

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/lucro/internal/appcontext"
	"github.com/agentstation/lucro/internal/cmd/cmdutil"
	"github.com/agentstation/lucro/internal/cmd/output"
)

// NewCommand creates the search command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var searchFlags *cmdutil.SearchFlags

	cmd := &cobra.Command{
		Use:     "search <name...>",
		Aliases: []string{"s", "find"},
		GroupID: "core",
		Short:   "Resolve an item name to catalog ids",
		Long: `Search scores every cached item name against the query and prints the
best matches. Names are compared in the configured locale, ignoring case.

The catalog is refreshed first when it is stale, unless --offline is set.`,
		Example: `  lucro search espada larga
  lucro search bolsa --tier T5
  lucro search "cape" --id 'T8_*' -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := cmdutil.Query(args)
			if err != nil {
				return err
			}
			opts, err := searchFlags.Options(cmd, app.Config())
			if err != nil {
				return err
			}

			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := client.Search(cmd.Context(), query, opts...)
			if err != nil {
				return err
			}

			if len(matches) == 0 && !app.Flags().Quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "No items match %q\n", query)
			}
			return output.FormatMatches(cmd.OutOrStdout(), matches, app.Flags())
		},
	}

	searchFlags = cmdutil.AddSearchFlags(cmd, 0)
	return cmd
}
