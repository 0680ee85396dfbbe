package ledger

import (
	"context"
	"fmt"

	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/attaboy/shadowbook/internal/repository"
)

// OrderBook is the append-only audit trail of every committed ticket.
type OrderBook struct {
	repo repository.OrderBookRepository
	db   repository.DBTX
}

// NewOrderBook builds an OrderBook backed by the given repository and
// connection.
func NewOrderBook(repo repository.OrderBookRepository, db repository.DBTX) *OrderBook {
	return &OrderBook{repo: repo, db: db}
}

// Record appends one committed ticket's decision to the audit trail.
func (o *OrderBook) Record(ctx context.Context, ticket domain.CustomerTicket, decision domain.RiskDecision) error {
	row := repository.OrderBookEntryRow{
		TicketID:          ticket.TicketID,
		TicketType:        string(ticket.TicketType),
		Stake:             ticket.Stake,
		Action:            string(decision.Action),
		RetainedLiability: decision.RetainedLiability,
		HedgeStake:        decision.HedgeStake,
		DangerMatchID:     decision.DangerMatchID,
		DangerSelection:   string(decision.DangerSelection),
	}
	if err := o.repo.Insert(ctx, o.db, row); err != nil {
		return fmt.Errorf("insert order book row: %w", err)
	}
	return nil
}

// Recent returns the most recently committed tickets, newest first.
func (o *OrderBook) Recent(ctx context.Context, limit int) ([]domain.OrderBookEntry, error) {
	rows, err := o.repo.ListRecent(ctx, o.db, limit)
	if err != nil {
		return nil, fmt.Errorf("list order book rows: %w", err)
	}
	out := make([]domain.OrderBookEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.OrderBookEntry{
			TicketID:          r.TicketID,
			TicketType:        domain.TicketType(r.TicketType),
			Stake:             r.Stake,
			Action:            domain.Action(r.Action),
			RetainedLiability: r.RetainedLiability,
			HedgeStake:        r.HedgeStake,
			DangerMatchID:     r.DangerMatchID,
			DangerSelection:   domain.Selection(r.DangerSelection),
			Timestamp:         r.Timestamp,
		})
	}
	return out, nil
}

// Wipe clears every audit row — the daily settlement reset.
func (o *OrderBook) Wipe(ctx context.Context) error {
	if err := o.repo.DeleteAll(ctx, o.db); err != nil {
		return fmt.Errorf("wipe order book: %w", err)
	}
	return nil
}
