package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/db"
)

const accountColumns = `id, badge_number, full_name, rank, role, email, phone, whatsapp_enabled`

func scanAccount(row pgx.Row) (db.Account, error) {
	var a db.Account
	var rank, phone *string
	var role string
	if err := row.Scan(&a.ID, &a.BadgeNumber, &a.FullName, &rank, &role, &a.Email, &phone, &a.WhatsappEnabled); err != nil {
		return a, err
	}
	a.Rank = fromNullable(rank)
	a.Phone = fromNullable(phone)
	a.Role = model.Role(role)
	return a, nil
}

// GetAccounts retrieves every account ordered by name
func (d *DB) GetAccounts(ctx context.Context) ([]db.Account, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+accountColumns+` FROM account ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []db.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// GetAccount retrieves one account by id
func (d *DB) GetAccount(ctx context.Context, id string) (*db.Account, error) {
	a, err := scanAccount(d.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &a, nil
}
