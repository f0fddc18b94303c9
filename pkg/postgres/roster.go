package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/carabineros/intranet/pkg/core/roster"
	"github.com/carabineros/intranet/pkg/db"
)

// GetRosterEntries retrieves roster entries matching the filter, ordered by date then badge
func (d *DB) GetRosterEntries(ctx context.Context, filter db.RosterFilter) ([]db.RosterEntry, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d::text::date", len(args)))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d::text::date", len(args)))
	}

	query := `
		SELECT id, badge_number_raw, user_id, shift_code_id, date::text, service_type,
		       start_time::text, end_time::text
		FROM roster_entry`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, badge_number_raw"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster entries: %w", err)
	}
	defer rows.Close()

	var entries []db.RosterEntry
	for rows.Next() {
		var e db.RosterEntry
		var userID *string
		if err := rows.Scan(&e.ID, &e.BadgeNumberRaw, &userID, &e.ShiftCodeID, &e.Date, &e.ServiceType, &e.StartTime, &e.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		e.UserID = fromNullable(userID)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster entries: %w", err)
	}

	return entries, nil
}

// DeleteRosterEntriesByBadges deletes entries whose raw badge is in badges and date is in dates
func (d *DB) DeleteRosterEntriesByBadges(ctx context.Context, badges []string, dates []string) (int64, error) {
	if len(badges) == 0 || len(dates) == 0 {
		return 0, nil
	}

	tag, err := d.pool.Exec(ctx, `
		DELETE FROM roster_entry
		WHERE badge_number_raw = ANY($1::text[]) AND date = ANY($2::text[]::date[])
	`, badges, dates)
	if err != nil {
		return 0, fmt.Errorf("failed to delete roster entries by badge: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteRosterEntriesByUsers deletes entries linked to userIDs on dates
func (d *DB) DeleteRosterEntriesByUsers(ctx context.Context, userIDs []string, dates []string) (int64, error) {
	if len(userIDs) == 0 || len(dates) == 0 {
		return 0, nil
	}

	tag, err := d.pool.Exec(ctx, `
		DELETE FROM roster_entry
		WHERE user_id = ANY($1::text[]) AND date = ANY($2::text[]::date[])
	`, userIDs, dates)
	if err != nil {
		return 0, fmt.Errorf("failed to delete roster entries by user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpsertRosterEntries inserts entries in one transaction, overwriting any entry
// with the same raw badge and date. An existing account link is kept when the
// incoming entry is unlinked.
func (d *DB) UpsertRosterEntries(ctx context.Context, entries []db.RosterEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return d.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(`
				INSERT INTO roster_entry (id, badge_number_raw, badge_key, user_id, shift_code_id, date, service_type, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5, $6::text::date, $7, $8::text::time, $9::text::time)
				ON CONFLICT (badge_number_raw, date) DO UPDATE SET
					badge_key = EXCLUDED.badge_key,
					user_id = COALESCE(EXCLUDED.user_id, roster_entry.user_id),
					shift_code_id = EXCLUDED.shift_code_id,
					service_type = EXCLUDED.service_type,
					start_time = EXCLUDED.start_time,
					end_time = EXCLUDED.end_time,
					updated_at = NOW()
			`, upsertArgs(e)...)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range entries {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to upsert roster entry %s/%s: %w", entries[i].BadgeNumberRaw, entries[i].Date, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close upsert batch: %w", err)
		}
		return nil
	})
}

// upsertArgs lists the insert parameters of an entry. badge_key uses the same
// normalisation as account matching so later links find the row.
func upsertArgs(e db.RosterEntry) []any {
	return []any{
		e.ID,
		e.BadgeNumberRaw,
		roster.NormalizeBadge(e.BadgeNumberRaw),
		nullable(e.UserID),
		e.ShiftCodeID,
		e.Date,
		e.ServiceType,
		e.StartTime,
		e.EndTime,
	}
}

// LinkRosterEntries attaches every unlinked entry whose normalised badge equals
// badgeKey to userID. Entries already linked are left alone.
func (d *DB) LinkRosterEntries(ctx context.Context, badgeKey string, userID string) (int64, error) {
	tag, err := d.pool.Exec(ctx, `
		UPDATE roster_entry
		SET user_id = $2, updated_at = NOW()
		WHERE badge_key = $1 AND user_id IS NULL
	`, badgeKey, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to link roster entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
