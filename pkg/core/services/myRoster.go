package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/carabineros/intranet/pkg/db"
)

const dateLayout = "2006-01-02"

// RosterReader reads roster entries
type RosterReader interface {
	GetRosterEntries(ctx context.Context, filter db.RosterFilter) ([]db.RosterEntry, error)
}

// DayShift is one calendar day of a user's roster. Entry is nil on days
// without an assignment.
type DayShift struct {
	Date  time.Time
	Entry *db.RosterEntry
}

// UpcomingShifts returns the days of the window [from, from+days) for userID
// with the entry assigned on each. When rule is set only the days it selects
// are listed, e.g. "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR".
func UpcomingShifts(ctx context.Context, store RosterReader, userID string, from time.Time, days int, rule string) ([]DayShift, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	start := startOfDay(from)
	end := start.AddDate(0, 0, days-1)

	dates, err := daySeries(start, end, rule)
	if err != nil {
		return nil, err
	}

	return shiftsOn(ctx, store, userID, dates, start, end)
}

// MonthCalendar returns every day of the given month for userID with the entry assigned on each
func MonthCalendar(ctx context.Context, store RosterReader, userID string, year int, month time.Month, loc *time.Location) ([]DayShift, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)

	dates, err := daySeries(start, end, "")
	if err != nil {
		return nil, err
	}

	return shiftsOn(ctx, store, userID, dates, start, end)
}

// daySeries lists the days from start to end inclusive, filtered by rule when set
func daySeries(start, end time.Time, rule string) ([]time.Time, error) {
	if rule == "" {
		r, err := rrule.NewRRule(rrule.ROption{
			Freq:    rrule.DAILY,
			Dtstart: start,
			Until:   end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build day series: %w", err)
		}
		return r.All(), nil
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule: %w", err)
	}
	r.DTStart(start)
	return r.Between(start, end, true), nil
}

func shiftsOn(ctx context.Context, store RosterReader, userID string, dates []time.Time, start, end time.Time) ([]DayShift, error) {
	entries, err := store.GetRosterEntries(ctx, db.RosterFilter{
		UserID:   userID,
		DateFrom: start.Format(dateLayout),
		DateTo:   end.Format(dateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster entries: %w", err)
	}

	byDate := make(map[string]db.RosterEntry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	shifts := make([]DayShift, 0, len(dates))
	for _, d := range dates {
		day := DayShift{Date: d}
		if e, ok := byDate[d.Format(dateLayout)]; ok {
			entry := e
			day.Entry = &entry
		}
		shifts = append(shifts, day)
	}

	return shifts, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
