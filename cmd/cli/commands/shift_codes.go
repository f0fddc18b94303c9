package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/core/services"
	"github.com/carabineros/intranet/pkg/db"
)

// ShiftCodesCmd creates the shiftCodes command group
func ShiftCodesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shiftCodes",
		Short: "Manage the shift code catalog",
	}

	cmd.AddCommand(listShiftCodesCmd(app))
	cmd.AddCommand(saveShiftCodeCmd(app))
	cmd.AddCommand(retireShiftCodeCmd(app))
	cmd.AddCommand(seedShiftCodesCmd(app))

	return cmd
}

func listShiftCodesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shift codes in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			codes, err := services.ListShiftCodes(app.Ctx, app.Database, all)
			if err != nil {
				return err
			}

			fmt.Printf("\n%-8s  %-25s  %-13s  %-8s  %-8s\n", "Code", "Name", "Hours", "Color", "Status")
			fmt.Println("--------  -------------------------  -------------  --------  --------")
			for _, sc := range codes {
				fmt.Printf("%-8s  %-25s  %-13s  %-8s  %-8s\n", sc.Code, sc.Name, shiftHoursLabel(sc), sc.Color, sc.Status)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include retired codes")

	return cmd
}

func saveShiftCodeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <code> <name>",
		Short: "Create a shift code, or update it with --id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			rest, _ := cmd.Flags().GetBool("rest")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			color, _ := cmd.Flags().GetString("color")
			order, _ := cmd.Flags().GetInt("order")

			app.Logger.Debug("shiftCodes save command", zap.String("code", args[0]), zap.String("id", id))

			sc, err := services.SaveShiftCode(app.Ctx, app.Database, app.Logger, services.ShiftCodeInput{
				ID:           id,
				Code:         args[0],
				Name:         args[1],
				IsRest:       rest,
				StartTime:    start,
				EndTime:      end,
				Color:        color,
				DisplayOrder: order,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ Shift code %s saved (%s)\n", sc.Code, sc.ID)
			fmt.Printf("Hours: %s\n", shiftHoursLabel(*sc))
			return nil
		},
	}

	cmd.Flags().String("id", "", "ID of an existing shift code to update")
	cmd.Flags().Bool("rest", false, "Code is a rest day without hours")
	cmd.Flags().String("start", "", "Start time (HH:MM)")
	cmd.Flags().String("end", "", "End time (HH:MM)")
	cmd.Flags().String("color", "", "Display color (#RRGGBB)")
	cmd.Flags().Int("order", 0, "Display order")

	return cmd
}

func retireShiftCodeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retire <shift_code_id>",
		Short: "Retire a shift code so future imports skip it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RetireShiftCode(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Println("\n✅ Shift code retired. Imported entries that use it are kept.")
			return nil
		},
	}
}

func seedShiftCodesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or update shift codes from the configured Google Sheets tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSheets(); err != nil {
				return err
			}

			sheetID, _ := cmd.Flags().GetString("sheet")
			tab, _ := cmd.Flags().GetString("tab")
			if sheetID == "" {
				sheetID = app.Cfg.Sheets.ShiftCodeSheetID
			}
			if tab == "" {
				tab = app.Cfg.Sheets.ShiftCodeTab
			}
			if sheetID == "" || tab == "" {
				return fmt.Errorf("no shift code sheet: set sheets.shiftCodeSheetID and sheets.shiftCodeTab or pass --sheet and --tab")
			}

			result, err := services.SeedShiftCodes(app.Ctx, app.Database, app.SheetsClient, app.Logger, sheetID, tab)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ Shift codes seeded: %d created, %d updated\n", result.Created, result.Updated)
			return nil
		},
	}

	cmd.Flags().String("sheet", "", "Spreadsheet ID (defaults to sheets.shiftCodeSheetID)")
	cmd.Flags().String("tab", "", "Tab name (defaults to sheets.shiftCodeTab)")

	return cmd
}

// shiftHoursLabel renders a shift code's hours for display
func shiftHoursLabel(sc db.ShiftCode) string {
	if sc.IsRest {
		return "rest"
	}
	if sc.StartTime == "" && sc.EndTime == "" {
		return "—"
	}
	return fmt.Sprintf("%s-%s", clock(sc.StartTime), clock(sc.EndTime))
}

// clock trims seconds from an HH:MM:SS time
func clock(t string) string {
	if t == "" {
		return model.MidnightTime[:5]
	}
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}
