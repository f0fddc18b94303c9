package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carabineros/intranet/pkg/core/services"
)

// MyRosterCmd creates the myRoster command group
func MyRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "myRoster",
		Short: "Show an account's shifts",
	}

	cmd.AddCommand(upcomingCmd(app))
	cmd.AddCommand(monthCmd(app))

	return cmd
}

func upcomingCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming <account_id>",
		Short: "Show the next days of an account's roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromFlag, _ := cmd.Flags().GetString("from")
			days, _ := cmd.Flags().GetInt("days")
			if days == 0 {
				days = app.Cfg.Roster.UpcomingDays
			}

			loc := app.Cfg.Location()
			from := time.Now().In(loc)
			if fromFlag != "" {
				parsed, err := time.ParseInLocation("2006-01-02", fromFlag, loc)
				if err != nil {
					return fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
				}
				from = parsed
			}

			shifts, err := services.UpcomingShifts(app.Ctx, app.Database, args[0], from, days, app.Cfg.Roster.UpcomingRule)
			if err != nil {
				return err
			}

			fmt.Printf("\n📅 Upcoming shifts\n\n")
			printDayShifts(shifts)
			return nil
		},
	}

	cmd.Flags().String("from", "", "First day (YYYY-MM-DD, defaults to today)")
	cmd.Flags().Int("days", 0, "Number of days (defaults to roster.upcomingDays)")

	return cmd
}

func monthCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "month <account_id> <YYYY-MM>",
		Short: "Show a month of an account's roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[1])
			if err != nil {
				return err
			}

			shifts, err := services.MonthCalendar(app.Ctx, app.Database, args[0], year, month, app.Cfg.Location())
			if err != nil {
				return err
			}

			fmt.Printf("\n📅 %s %d\n\n", month, year)
			printDayShifts(shifts)
			return nil
		},
	}
}

// parseMonth parses "2024-03" into its year and month
func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("month must be YYYY-MM, got %q", s)
	}
	return t.Year(), t.Month(), nil
}

func printDayShifts(shifts []services.DayShift) {
	fmt.Printf("%-16s  %-25s  %-13s\n", "Date", "Service", "Hours")
	fmt.Println("----------------  -------------------------  -------------")
	for _, d := range shifts {
		fmt.Printf("%-16s  %s\n", d.Date.Format("Mon 2006-01-02"), dayShiftLabel(d))
	}
	fmt.Println()
}

// dayShiftLabel renders the service and hours of a day, or a dash on free days
func dayShiftLabel(d services.DayShift) string {
	if d.Entry == nil {
		return "—"
	}
	if d.Entry.StartTime == d.Entry.EndTime {
		return d.Entry.ServiceType
	}
	return fmt.Sprintf("%-25s  %s-%s", d.Entry.ServiceType, clock(d.Entry.StartTime), clock(d.Entry.EndTime))
}
