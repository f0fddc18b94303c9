package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carabineros/intranet/pkg/core/services"
)

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().In(app.Cfg.Location())

			stats, err := services.DashboardStats(app.Ctx, app.Database, now)
			if err != nil {
				return err
			}

			fmt.Printf("\n📊 %s\n\n", now.Format("2006-01-02"))
			fmt.Printf("Active posts:       %d\n", stats.ActivePosts)
			fmt.Printf("Accounts:           %d\n", stats.Accounts)
			fmt.Printf("On roster today:    %d\n", stats.EntriesToday)
			fmt.Printf("Active shift codes: %d\n\n", stats.ActiveShiftCodes)

			return nil
		},
	}
}
