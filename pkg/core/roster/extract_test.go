package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_SingleAssignment(t *testing.T) {
	grid := [][]Cell{
		{StringCell("badge"), StringCell("15/03/2024"), StringCell("16/03/2024")},
		{StringCell("123"), StringCell("T1"), StringCell("")},
	}

	assignments := Extract(grid)

	require.Len(t, assignments, 1)
	assert.Equal(t, Assignment{Badge: "123", Date: "2024-03-15", ShiftCode: "T1"}, assignments[0])
}

func TestExtract_TooFewRows(t *testing.T) {
	assert.Empty(t, Extract(nil))
	assert.Empty(t, Extract([][]Cell{{StringCell("badge"), StringCell("2024-03-15")}}))
}

func TestExtract_MixedHeaderKinds(t *testing.T) {
	grid := [][]Cell{
		{StringCell("Placa"), NumberCell(45366), StringCell("notes"), StringCell("2024-03-16")},
		{NumberCell(123), StringCell(" t1 "), StringCell("ignored"), StringCell("l")},
	}

	assignments := Extract(grid)

	require.Len(t, assignments, 2)
	assert.Equal(t, Assignment{Badge: "123", Date: "2024-03-15", ShiftCode: "T1"}, assignments[0])
	assert.Equal(t, Assignment{Badge: "123", Date: "2024-03-16", ShiftCode: "L"}, assignments[1])
}

func TestExtract_SkipsColumnsWithImpossibleDates(t *testing.T) {
	grid := [][]Cell{
		{StringCell("badge"), StringCell("2024-02-30"), StringCell("2024-03-01"), NumberCell(1e20), StringCell("2024-13-01")},
		{StringCell("123"), StringCell("T1"), StringCell("N"), StringCell("T1"), StringCell("T1")},
	}

	assignments := Extract(grid)

	require.Len(t, assignments, 1)
	assert.Equal(t, Assignment{Badge: "123", Date: "2024-03-01", ShiftCode: "N"}, assignments[0])
}

func TestExtract_SkipsRowsWithoutBadge(t *testing.T) {
	grid := [][]Cell{
		{StringCell("badge"), StringCell("2024-03-15")},
		{StringCell("  "), StringCell("T1")},
		{},
		{EmptyCell(), StringCell("T2")},
		{StringCell("456"), StringCell("T3")},
	}

	assignments := Extract(grid)

	require.Len(t, assignments, 1)
	assert.Equal(t, "456", assignments[0].Badge)
	assert.Equal(t, "T3", assignments[0].ShiftCode)
}

func TestExtract_RaggedRows(t *testing.T) {
	grid := [][]Cell{
		{StringCell("badge"), StringCell("2024-03-15")},
		{StringCell("123"), StringCell("T1"), StringCell("T2"), StringCell("T3")},
	}

	assignments := Extract(grid)

	require.Len(t, assignments, 1)
	assert.Equal(t, "2024-03-15", assignments[0].Date)
}

func TestExtract_KeepsRawBadgeText(t *testing.T) {
	grid := [][]Cell{
		{StringCell("badge"), StringCell("2024-03-15")},
		{StringCell(" 12.345-k "), StringCell("T1")},
	}

	assignments := Extract(grid)

	require.Len(t, assignments, 1)
	assert.Equal(t, "12.345-k", assignments[0].Badge)
}
