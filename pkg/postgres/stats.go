package postgres

import (
	"context"
	"fmt"

	"github.com/carabineros/intranet/pkg/db"
)

// GetStats counts active posts, accounts, roster entries on today and active shift codes
func (d *DB) GetStats(ctx context.Context, today string) (*db.Stats, error) {
	var s db.Stats
	err := d.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM post WHERE is_active),
			(SELECT COUNT(*) FROM account),
			(SELECT COUNT(*) FROM roster_entry WHERE date = $1::text::date),
			(SELECT COUNT(*) FROM shift_code WHERE status = 'active')
	`, today).Scan(&s.ActivePosts, &s.Accounts, &s.EntriesToday, &s.ActiveShiftCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &s, nil
}
