package repository

import (
	"context"
	"fmt"
)

type ledgerRepo struct{}

// NewLedgerRepository returns a pgx-backed LedgerRepository.
func NewLedgerRepository() LedgerRepository {
	return &ledgerRepo{}
}

func (r *ledgerRepo) LoadAll(ctx context.Context, db DBTX) ([]LedgerRow, error) {
	rows, err := db.Query(ctx, `SELECT match_id, home, draw, away FROM ledger_pnl`)
	if err != nil {
		return nil, fmt.Errorf("query ledger_pnl: %w", err)
	}
	defer rows.Close()

	var out []LedgerRow
	for rows.Next() {
		var row LedgerRow
		if err := rows.Scan(&row.MatchID, &row.Home, &row.Draw, &row.Away); err != nil {
			return nil, fmt.Errorf("scan ledger_pnl row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ledgerRepo) Upsert(ctx context.Context, db DBTX, row LedgerRow) error {
	_, err := db.Exec(ctx, `
		INSERT INTO ledger_pnl (match_id, home, draw, away)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO UPDATE SET
			home = excluded.home, draw = excluded.draw, away = excluded.away, updated_at = now()`,
		row.MatchID, row.Home, row.Draw, row.Away)
	return err
}

func (r *ledgerRepo) DeleteAll(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, `DELETE FROM ledger_pnl`)
	return err
}
