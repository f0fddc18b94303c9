package services

import (
	"context"
	"fmt"
	"time"

	"github.com/carabineros/intranet/pkg/db"
)

// StatsStore reads the dashboard counters
type StatsStore interface {
	GetStats(ctx context.Context, today string) (*db.Stats, error)
}

// DashboardStats returns the administrator dashboard counters for the day of now
func DashboardStats(ctx context.Context, store StatsStore, now time.Time) (*db.Stats, error) {
	stats, err := store.GetStats(ctx, now.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	return stats, nil
}
