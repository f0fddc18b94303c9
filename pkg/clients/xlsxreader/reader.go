package xlsxreader

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/carabineros/intranet/pkg/core/roster"
)

// ReadGrid decodes the first worksheet of an .xlsx workbook into typed cells
func ReadGrid(r io.Reader) ([][]roster.Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return readSheet(f, sheet)
}

// ReadGridFile is ReadGrid for a workbook on disk
func ReadGridFile(path string) ([][]roster.Cell, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) ([][]roster.Cell, error) {
	// Raw values keep date cells as serial numbers instead of the display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", sheet, err)
	}

	grid := make([][]roster.Cell, len(rows))
	for i, row := range rows {
		cells := make([]roster.Cell, len(row))
		for j, raw := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell %d,%d: %w", i, j, err)
			}
			cellType, err := f.GetCellType(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("failed to read type of %s: %w", ref, err)
			}
			cells[j] = decodeCell(cellType, raw)
		}
		grid[i] = cells
	}

	return grid, nil
}

func decodeCell(cellType excelize.CellType, raw string) roster.Cell {
	if strings.TrimSpace(raw) == "" {
		return roster.EmptyCell()
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return roster.StringCell(raw)
	case excelize.CellTypeBool:
		return roster.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return roster.DateCell(t)
			}
		}
		return roster.StringCell(raw)
	case excelize.CellTypeError:
		return roster.UnrecognizedCell(raw)
	default:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return roster.NumberCell(n)
		}
		return roster.StringCell(raw)
	}
}
