package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carabineros/intranet/pkg/core/services"
	"github.com/carabineros/intranet/pkg/db"
)

func TestFormatList(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		limit    int
		expected string
	}{
		{"empty", nil, 3, ""},
		{"under limit", []string{"X", "Y"}, 3, "X, Y"},
		{"at limit", []string{"X", "Y", "Z"}, 3, "X, Y, Z"},
		{"over limit", []string{"A", "B", "C", "D", "E"}, 2, "A, B and 3 more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatList(tt.values, tt.limit))
		})
	}
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "none", dateRange(nil))
	assert.Equal(t, "2024-03-15", dateRange([]string{"2024-03-15"}))
	assert.Equal(t, "2024-03-15 to 2024-03-17 (3 days)", dateRange([]string{"2024-03-15", "2024-03-16", "2024-03-17"}))
}

func TestParseMonth(t *testing.T) {
	year, month, err := parseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.February, month)

	for _, bad := range []string{"2024-13", "02-2024", "2024", ""} {
		_, _, err := parseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestShiftHoursLabel(t *testing.T) {
	tests := []struct {
		name     string
		code     db.ShiftCode
		expected string
	}{
		{"rest", db.ShiftCode{IsRest: true, StartTime: "08:00:00"}, "rest"},
		{"no hours", db.ShiftCode{}, "—"},
		{"day shift", db.ShiftCode{StartTime: "08:00:00", EndTime: "20:00:00"}, "08:00-20:00"},
		{"open end", db.ShiftCode{StartTime: "20:00:00"}, "20:00-00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shiftHoursLabel(tt.code))
		})
	}
}

func TestDayShiftLabel(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "—", dayShiftLabel(services.DayShift{Date: day}))

	rest := &db.RosterEntry{ServiceType: "Libre", StartTime: "00:00:00", EndTime: "00:00:00"}
	assert.Equal(t, "Libre", dayShiftLabel(services.DayShift{Date: day, Entry: rest}))

	work := &db.RosterEntry{ServiceType: "Primer turno", StartTime: "08:00:00", EndTime: "20:00:00"}
	assert.Contains(t, dayShiftLabel(services.DayShift{Date: day, Entry: work}), "08:00-20:00")
}

func TestLoadGrid_SourceSelection(t *testing.T) {
	app := &AppContext{}

	_, _, err := loadGrid(app, "", "", "")
	assert.Error(t, err)

	_, _, err = loadGrid(app, "roster.xlsx", "sheet-1", "Marzo")
	assert.Error(t, err)

	_, _, err = loadGrid(app, "", "sheet-1", "")
	assert.ErrorContains(t, err, "--tab")

	_, _, err = loadGrid(app, "", "sheet-1", "Marzo")
	assert.ErrorContains(t, err, "not configured")
}
