package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carabineros/intranet/pkg/core/roster"
)

func TestParseShiftCodes(t *testing.T) {
	raw := [][]interface{}{
		{"Code", "Name", "Rest", "Start", "End", "Color", "Order"},
		{"T1", "Primer turno", "", "08:00", "20:00", "#2d8b4d", "1"},
		{"L", "Libre", "Sí", "", "", "", "2"},
		{"", "blank row"},
		{"N", "Noche"},
	}

	codes, err := parseShiftCodes(raw)
	require.NoError(t, err)
	require.Len(t, codes, 3)

	assert.Equal(t, "T1", codes[0].Code)
	assert.Equal(t, "Primer turno", codes[0].Name)
	assert.False(t, codes[0].IsRest)
	assert.Equal(t, "08:00", codes[0].StartTime)
	assert.Equal(t, "20:00", codes[0].EndTime)
	assert.Equal(t, 1, codes[0].DisplayOrder)

	assert.True(t, codes[1].IsRest)
	assert.Equal(t, 2, codes[1].DisplayOrder)

	assert.Equal(t, "N", codes[2].Code)
	assert.Empty(t, codes[2].StartTime)
	assert.Zero(t, codes[2].DisplayOrder)
}

func TestParseShiftCodes_HeaderIsCaseInsensitive(t *testing.T) {
	raw := [][]interface{}{
		{" code ", "NAME"},
		{"T1", "Primer turno"},
	}

	codes, err := parseShiftCodes(raw)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "Primer turno", codes[0].Name)
}

func TestParseShiftCodes_MissingRequiredField(t *testing.T) {
	raw := [][]interface{}{
		{"Code", "Start"},
		{"T1", "08:00"},
	}

	_, err := parseShiftCodes(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field in header: Name")
}

func TestParseShiftCodes_InvalidOrder(t *testing.T) {
	raw := [][]interface{}{
		{"Code", "Name", "Order"},
		{"T1", "Primer turno", "first"},
	}

	_, err := parseShiftCodes(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestToGrid(t *testing.T) {
	values := [][]interface{}{
		{"badge", float64(45366)},
		{"123", "T1", nil},
	}

	grid := toGrid(values)

	require.Len(t, grid, 2)
	assert.Equal(t, roster.CellString, grid[0][0].Kind)
	assert.Equal(t, roster.CellNumber, grid[0][1].Kind)
	assert.Equal(t, roster.CellEmpty, grid[1][2].Kind)

	assignments := roster.Extract(grid)
	require.Len(t, assignments, 1)
	assert.Equal(t, "2024-03-15", assignments[0].Date)
}
