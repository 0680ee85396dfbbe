package repository

import (
	"context"
	"fmt"
)

type orderBookRepo struct{}

// NewOrderBookRepository returns a pgx-backed OrderBookRepository.
func NewOrderBookRepository() OrderBookRepository {
	return &orderBookRepo{}
}

func (r *orderBookRepo) Insert(ctx context.Context, db DBTX, row OrderBookEntryRow) error {
	_, err := db.Exec(ctx, `
		INSERT INTO order_book
			(ticket_id, ticket_type, stake, action, retained_liability, hedge_stake, danger_match_id, danger_selection)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.TicketID, row.TicketType, row.Stake, row.Action,
		row.RetainedLiability, row.HedgeStake, row.DangerMatchID, row.DangerSelection)
	return err
}

func (r *orderBookRepo) ListRecent(ctx context.Context, db DBTX, limit int) ([]OrderBookEntryRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
		SELECT ticket_id, ticket_type, stake, action, retained_liability, hedge_stake, danger_match_id, danger_selection, timestamp
		FROM order_book ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query order_book: %w", err)
	}
	defer rows.Close()

	var out []OrderBookEntryRow
	for rows.Next() {
		var row OrderBookEntryRow
		if err := rows.Scan(
			&row.TicketID, &row.TicketType, &row.Stake, &row.Action,
			&row.RetainedLiability, &row.HedgeStake, &row.DangerMatchID, &row.DangerSelection, &row.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan order_book row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *orderBookRepo) DeleteAll(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, `DELETE FROM order_book`)
	return err
}
