// Package status provides the status command.
package status

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/lucro/internal/appcontext"
	"github.com/agentstation/lucro/internal/cmd/output"
)

// NewCommand creates the status command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "management",
		Short:   "Show what is cached and when it is refreshed",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			return output.FormatAny(cmd.OutOrStdout(), client.Status(), app.Flags())
		},
	}
}
