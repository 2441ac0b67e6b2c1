// Package history provides the history command.
package history

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/lucro"
	"github.com/agentstation/lucro/internal/appcontext"
	"github.com/agentstation/lucro/internal/cmd/cmdutil"
	"github.com/agentstation/lucro/internal/cmd/output"
	"github.com/agentstation/lucro/internal/resolver"
	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
)

// NewCommand creates the history command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		timeScale int
		cityFlags *cmdutil.CityFlags
	)

	cmd := &cobra.Command{
		Use:     "history <id or name...>",
		GroupID: "core",
		Short:   "Show the price history of an item",
		Long: `History prints average prices and sold amounts per time bucket. The
argument is an exact item id such as T4_BAG, or a name resolved to its
best match.`,
		Example: `  lucro history T4_BAG
  lucro history espada larga --time-scale 6 --city Caerleon`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := cmdutil.Query(args)
			if err != nil {
				return err
			}
			if timeScale <= 0 {
				return errors.NewValidationError("time-scale", timeScale, "must be positive")
			}

			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(cmd, client, query, app)
			if err != nil {
				return err
			}

			history, err := client.History(cmd.Context(), id, timeScale, cityFlags.Resolve(app.Config()))
			if err != nil {
				return err
			}
			return output.FormatHistory(cmd.OutOrStdout(), history, app.Flags())
		},
	}

	cmd.Flags().IntVar(&timeScale, "time-scale", constants.DefaultHistoryTimeScale, "Hours per history bucket (1, 6 or 24)")
	cityFlags = cmdutil.AddCityFlags(cmd)
	return cmd
}

// resolveID returns query when it is a cached id, else the id of the best match.
func resolveID(cmd *cobra.Command, client lucro.Client, query string, app appcontext.Interface) (string, error) {
	if item, ok := client.Lookup(strings.ToUpper(query)); ok {
		return item.ID, nil
	}

	matches, err := client.Search(cmd.Context(), query,
		resolver.WithThreshold(app.Config().Threshold),
		resolver.WithLimit(1),
	)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.NewNotFoundError("item", query)
	}

	app.Logger().Debug().
		Str("query", query).
		Str("item_id", matches[0].ID).
		Int("similarity", matches[0].Similarity).
		Msg("Resolved item name")
	return matches[0].ID, nil
}
