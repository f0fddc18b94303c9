package postgres

import (
	"context"
	"fmt"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/db"
)

// GetShiftCodes retrieves every shift code, active and retired, in display order
func (d *DB) GetShiftCodes(ctx context.Context) ([]db.ShiftCode, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, code, name, is_rest, start_time::text, end_time::text, color, status, display_order
		FROM shift_code
		ORDER BY display_order, code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift codes: %w", err)
	}
	defer rows.Close()

	var codes []db.ShiftCode
	for rows.Next() {
		var sc db.ShiftCode
		var startTime, endTime *string
		var status string
		if err := rows.Scan(&sc.ID, &sc.Code, &sc.Name, &sc.IsRest, &startTime, &endTime, &sc.Color, &status, &sc.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan shift code: %w", err)
		}
		sc.Status = model.ShiftCodeStatus(status)
		sc.StartTime = fromNullable(startTime)
		sc.EndTime = fromNullable(endTime)
		codes = append(codes, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift codes: %w", err)
	}

	return codes, nil
}

// InsertShiftCode inserts a new shift code. A code that already exists yields db.ErrConflict.
func (d *DB) InsertShiftCode(ctx context.Context, sc *db.ShiftCode) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO shift_code (id, code, name, is_rest, start_time, end_time, color, status, display_order)
		VALUES ($1, $2, $3, $4, $5::text::time, $6::text::time, $7, $8, $9)
	`, sc.ID, sc.Code, sc.Name, sc.IsRest, nullable(sc.StartTime), nullable(sc.EndTime), sc.Color, string(sc.Status), sc.DisplayOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to insert shift code %s: %w", sc.Code, db.ErrConflict)
		}
		return fmt.Errorf("failed to insert shift code: %w", err)
	}
	return nil
}

// UpdateShiftCode updates everything but the code itself
func (d *DB) UpdateShiftCode(ctx context.Context, sc *db.ShiftCode) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE shift_code
		SET name = $2, is_rest = $3, start_time = $4::text::time, end_time = $5::text::time,
		    color = $6, status = $7, display_order = $8
		WHERE id = $1
	`, sc.ID, sc.Name, sc.IsRest, nullable(sc.StartTime), nullable(sc.EndTime), sc.Color, string(sc.Status), sc.DisplayOrder)
	if err != nil {
		return fmt.Errorf("failed to update shift code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift code %s: %w", sc.ID, db.ErrNotFound)
	}
	return nil
}

// SetShiftCodeStatus changes the status of a shift code
func (d *DB) SetShiftCodeStatus(ctx context.Context, id string, status model.ShiftCodeStatus) error {
	tag, err := d.pool.Exec(ctx, `UPDATE shift_code SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update shift code status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift code %s: %w", id, db.ErrNotFound)
	}
	return nil
}
