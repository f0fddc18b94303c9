package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carabineros/intranet/pkg/db"
)

func calendarStore() *memStore {
	store := newMemStore()
	for _, e := range []db.RosterEntry{
		{ID: "e1", BadgeNumberRaw: "123", UserID: "acc-1", Date: "2024-03-15", ServiceType: "Primer turno"},
		{ID: "e2", BadgeNumberRaw: "123", UserID: "acc-1", Date: "2024-03-17", ServiceType: "Libre"},
		{ID: "e3", BadgeNumberRaw: "456", UserID: "acc-2", Date: "2024-03-16", ServiceType: "Noche"},
		{ID: "e4", BadgeNumberRaw: "123", UserID: "acc-1", Date: "2024-03-30", ServiceType: "Noche"},
	} {
		store.entries[entryKey(e.BadgeNumberRaw, e.Date)] = e
	}
	return store
}

func TestUpcomingShifts(t *testing.T) {
	from := time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)

	days, err := UpcomingShifts(context.Background(), calendarStore(), "acc-1", from, 7, "")
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, "2024-03-15", days[0].Date.Format(dateLayout))
	assert.Equal(t, "2024-03-21", days[6].Date.Format(dateLayout))

	require.NotNil(t, days[0].Entry)
	assert.Equal(t, "e1", days[0].Entry.ID)
	assert.Nil(t, days[1].Entry)
	require.NotNil(t, days[2].Entry)
	assert.Equal(t, "Libre", days[2].Entry.ServiceType)
}

func TestUpcomingShifts_WeekdayRule(t *testing.T) {
	from := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	days, err := UpcomingShifts(context.Background(), calendarStore(), "acc-1", from, 7, "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR")
	require.NoError(t, err)

	var dates []string
	for _, d := range days {
		dates = append(dates, d.Date.Format(dateLayout))
	}
	assert.Equal(t, []string{"2024-03-15", "2024-03-18", "2024-03-19", "2024-03-20", "2024-03-21"}, dates)
}

func TestUpcomingShifts_Invalid(t *testing.T) {
	from := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	_, err := UpcomingShifts(context.Background(), calendarStore(), "acc-1", from, 0, "")
	assert.Error(t, err)

	_, err = UpcomingShifts(context.Background(), calendarStore(), "acc-1", from, 7, "FREQ=SOMETIMES")
	assert.Error(t, err)
}

func TestMonthCalendar(t *testing.T) {
	days, err := MonthCalendar(context.Background(), calendarStore(), "acc-1", 2024, time.March, time.UTC)
	require.NoError(t, err)
	require.Len(t, days, 31)

	var assigned []string
	for _, d := range days {
		if d.Entry != nil {
			assigned = append(assigned, d.Entry.ID)
		}
	}
	assert.Equal(t, []string{"e1", "e2", "e4"}, assigned)
}

func TestMonthCalendar_LeapFebruary(t *testing.T) {
	days, err := MonthCalendar(context.Background(), calendarStore(), "acc-1", 2024, time.February, time.UTC)
	require.NoError(t, err)
	assert.Len(t, days, 29)
	assert.Equal(t, "2024-02-29", days[28].Date.Format(dateLayout))
}

func TestMonthCalendar_InvalidMonth(t *testing.T) {
	_, err := MonthCalendar(context.Background(), calendarStore(), "acc-1", 2024, time.Month(13), time.UTC)
	assert.Error(t, err)
}
