package commands

import (
	"github.com/spf13/cobra"

	"github.com/carabineros/intranet/pkg/core/services"
)

// LinkRosterCmd creates the linkRoster command
func LinkRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "linkRoster <badge> <account_id>",
		Short: "Attach unlinked roster entries for a badge to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			linked, err := services.LinkRoster(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			printLinked(linked)
			return nil
		},
	}
}
