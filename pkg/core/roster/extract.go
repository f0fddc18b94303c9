package roster

import "strings"

// Assignment is one badge × date → shift code triple read from a roster grid
type Assignment struct {
	Badge     string
	Date      string
	ShiftCode string
}

// Extract walks a decoded roster grid and returns every non-empty assignment.
//
// Row 0 holds the dates (column 0 is ignored). Every later row starts with a
// badge cell; rows without a badge are skipped. Columns whose header is not a
// date and empty cells produce nothing.
func Extract(grid [][]Cell) []Assignment {
	if len(grid) < 2 {
		return []Assignment{}
	}

	header := grid[0]
	dates := make([]string, len(header))
	for j := 1; j < len(header); j++ {
		if date, ok := NormalizeDate(header[j]); ok {
			dates[j] = date
		}
	}

	assignments := make([]Assignment, 0)
	for _, row := range grid[1:] {
		if len(row) == 0 {
			continue
		}
		badge := strings.TrimSpace(row[0].Text())
		if badge == "" {
			continue
		}

		for j := 1; j < len(row) && j < len(dates); j++ {
			if dates[j] == "" {
				continue
			}
			code := strings.ToUpper(strings.TrimSpace(row[j].Text()))
			if code == "" {
				continue
			}
			assignments = append(assignments, Assignment{
				Badge:     badge,
				Date:      dates[j],
				ShiftCode: code,
			})
		}
	}

	return assignments
}
