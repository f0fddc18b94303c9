package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/clients/xlsxreader"
	"github.com/carabineros/intranet/pkg/core/roster"
	"github.com/carabineros/intranet/pkg/core/services"
)

const maxListed = 10

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importRoster [file.xlsx]",
		Short: "Import a shift roster from an Excel file or a Google Sheets tab",
		Long: `Import a shift roster grid. The first row holds dates from the second column
on, the first column holds badge numbers and each cell holds a shift code.

Existing entries for the imported badges and dates are replaced; entries outside
that scope are kept. Use --dry-run to preview what would be written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetID, _ := cmd.Flags().GetString("sheet")
			tab, _ := cmd.Flags().GetString("tab")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			app.Logger.Debug("importRoster command",
				zap.String("file", path),
				zap.String("sheet", sheetID),
				zap.String("tab", tab),
				zap.Bool("dry_run", dryRun))

			grid, source, err := loadGrid(app, path, sheetID, tab)
			if err != nil {
				return err
			}

			if dryRun {
				preview, err := services.PreviewRoster(grid, app.Cfg.Roster.PreviewRows)
				if err != nil {
					return err
				}
				printPreview(source, preview)
				return nil
			}

			result, err := services.ImportRoster(app.Ctx, app.Database, app.Logger, grid, roster.ReplaceOptions{
				UpsertBatchSize: app.Cfg.Roster.UpsertBatchSize,
				DeleteBatchSize: app.Cfg.Roster.DeleteBatchSize,
			})

			var rejected *roster.RejectedImportError
			if errors.As(err, &rejected) {
				fmt.Printf("\n❌ Import rejected: no assignment uses an active shift code.\n")
				if len(rejected.UnknownCodes) > 0 {
					fmt.Printf("Unknown codes: %s\n", formatList(rejected.UnknownCodes, maxListed))
				}
				fmt.Println("Nothing was written. Add the codes to the catalog or fix the file and retry.")
				return err
			}

			var batchErr *roster.BatchError
			if errors.As(err, &batchErr) {
				fmt.Printf("\n❌ Import stopped at %s batch %d.\n", batchErr.Phase, batchErr.Index)
				fmt.Println("Earlier batches were applied. Re-running the same import is safe.")
				return err
			}

			if err != nil {
				return err
			}

			printImportResult(source, result)
			return nil
		},
	}

	cmd.Flags().String("sheet", "", "Google Sheets spreadsheet ID to read instead of a file")
	cmd.Flags().String("tab", "", "Tab of the spreadsheet holding the roster")
	cmd.Flags().Bool("dry-run", false, "Show what would be imported without writing")

	return cmd
}

// loadGrid reads the roster from a file or a spreadsheet tab, whichever was given
func loadGrid(app *AppContext, path, sheetID, tab string) ([][]roster.Cell, string, error) {
	switch {
	case path != "" && sheetID != "":
		return nil, "", fmt.Errorf("give either a file or --sheet, not both")
	case path != "":
		grid, err := xlsxreader.ReadGridFile(path)
		if err != nil {
			return nil, "", err
		}
		return grid, path, nil
	case sheetID != "":
		if tab == "" {
			return nil, "", fmt.Errorf("--tab is required with --sheet")
		}
		if err := app.requireSheets(); err != nil {
			return nil, "", err
		}
		grid, err := app.SheetsClient.ReadGrid(sheetID, tab)
		if err != nil {
			return nil, "", err
		}
		return grid, fmt.Sprintf("%s/%s", sheetID, tab), nil
	default:
		return nil, "", fmt.Errorf("a roster file or --sheet is required")
	}
}

func printPreview(source string, preview *services.RosterPreview) {
	fmt.Printf("\n🔍 Import preview (dry run) for %s\n\n", source)
	fmt.Printf("Assignments: %d\n", preview.Assignments)
	fmt.Printf("Badges:      %d\n", len(preview.Badges))
	fmt.Printf("Dates:       %s\n\n", dateRange(preview.Dates))

	if len(preview.Sample) > 0 {
		fmt.Printf("%-15s  %-12s  %-8s\n", "Badge", "Date", "Code")
		fmt.Println("---------------  ------------  --------")
		for _, a := range preview.Sample {
			fmt.Printf("%-15s  %-12s  %-8s\n", a.Badge, a.Date, a.ShiftCode)
		}
		if preview.Assignments > len(preview.Sample) {
			fmt.Printf("... and %d more\n", preview.Assignments-len(preview.Sample))
		}
		fmt.Println()
	}

	fmt.Println("Nothing was written.")
}

func printImportResult(source string, result *services.ImportRosterResult) {
	rec := result.Reconciliation
	rep := result.Replace

	if rec.HasWarnings() {
		fmt.Printf("\n⚠️  Roster imported with warnings from %s\n\n", source)
	} else {
		fmt.Printf("\n✅ Roster imported from %s\n\n", source)
	}

	fmt.Printf("Assignments read:  %d\n", result.Assignments)
	fmt.Printf("Entries written:   %d\n", rep.Upserted)
	fmt.Printf("Entries replaced:  %d\n", rep.DeletedByBadge+rep.DeletedByUser)
	fmt.Printf("Dates:             %s\n", dateRange(rep.Dates))
	fmt.Printf("Write batches:     %d delete, %d upsert\n", rep.DeleteBatches, rep.UpsertBatches)

	if codes := rec.DistinctUnknownCodes(); len(codes) > 0 {
		fmt.Printf("\nSkipped %d cells with unknown codes: %s\n", len(rec.UnknownCodes), formatList(codes, maxListed))
	}
	if len(rec.UnlinkedBadges) > 0 {
		fmt.Printf("\n%d badges have no account yet and were stored unlinked: %s\n",
			len(rec.UnlinkedBadges), formatList(rec.UnlinkedBadges, maxListed))
		fmt.Println("They are linked automatically when the account is created.")
	}
	if len(rec.Duplicates) > 0 {
		fmt.Printf("\n%d cells repeated a badge and date; the last one was kept.\n", len(rec.Duplicates))
	}
	fmt.Println()
}

// formatList joins values, showing at most limit of them
func formatList(values []string, limit int) string {
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(values[:limit], ", "), len(values)-limit)
}

// dateRange summarises a sorted list of ISO dates
func dateRange(dates []string) string {
	switch len(dates) {
	case 0:
		return "none"
	case 1:
		return dates[0]
	default:
		return fmt.Sprintf("%s to %s (%d days)", dates[0], dates[len(dates)-1], len(dates))
	}
}
