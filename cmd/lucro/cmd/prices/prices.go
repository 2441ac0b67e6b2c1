// Package prices provides the prices command.
package prices

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/lucro"
	"github.com/agentstation/lucro/internal/appcontext"
	"github.com/agentstation/lucro/internal/cmd/cmdutil"
	"github.com/agentstation/lucro/internal/cmd/globals"
	"github.com/agentstation/lucro/internal/cmd/output"
	"github.com/agentstation/lucro/internal/prices"
	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/constants"
)

// ItemPrices is the rendered form of one priced match.
type ItemPrices struct {
	Item   catalogs.Match `json:"item" yaml:"item"`
	Prices []prices.Price `json:"prices" yaml:"prices"`
	Error  string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCommand creates the prices command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		searchFlags *cmdutil.SearchFlags
		cityFlags   *cmdutil.CityFlags
	)

	cmd := &cobra.Command{
		Use:     "prices <name...>",
		Aliases: []string{"p", "price"},
		GroupID: "core",
		Short:   "Resolve an item name and show its market prices",
		Long: `Prices resolves the name like search does and looks up the current
market prices of the best matches, five by default. A failed lookup is
reported on its item and does not stop the others.`,
		Example: `  lucro prices espada larga
  lucro prices bolsa --city Caerleon --city Martlock
  lucro prices "T4 bag" --limit 1 -o json`,
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
			results, err := client.SearchPrices(cmd.Context(), query, cityFlags.Resolve(app.Config()), opts...)
			if err != nil {
				return err
			}

			if len(results) == 0 && !app.Flags().Quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "No items match %q\n", query)
			}
			return render(cmd.OutOrStdout(), results, app.Flags())
		},
	}

	searchFlags = cmdutil.AddSearchFlags(cmd, constants.DefaultPriceMatches)
	cityFlags = cmdutil.AddCityFlags(cmd)
	return cmd
}

// render prints one block per match for tables and the whole list otherwise.
func render(w io.Writer, results []lucro.ItemPrices, flags *globals.Flags) error {
	view := make([]ItemPrices, 0, len(results))
	for _, r := range results {
		item := ItemPrices{Item: r.Match, Prices: r.Prices}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		view = append(view, item)
	}

	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		return output.FormatAny(w, view, flags)
	}

	for i, item := range view {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s (%d%%)\n", item.Item.ID, item.Item.Name, item.Item.Similarity)
		switch {
		case item.Error != "":
			fmt.Fprintf(w, "  error: %s\n", item.Error)
		case len(item.Prices) == 0:
			fmt.Fprintln(w, "  no market data")
		default:
			if err := output.FormatPrices(w, item.Prices, flags); err != nil {
				return err
			}
		}
	}
	return nil
}
