// Package broker implements the orchestrator (C8): the single entry point
// that wires the market cache, risk engine, and ledger together to turn an
// incoming ticket into a committed routing decision.
package broker

import (
	"context"
	"fmt"

	"github.com/attaboy/shadowbook/internal/domain"
)

// MarketSource is the subset of the market cache the broker depends on.
type MarketSource interface {
	GetLiveMarket(ctx context.Context, force bool) (map[string]domain.MarketQuote, error)
}

// RiskEvaluator is the subset of the risk engine the broker depends on.
type RiskEvaluator interface {
	Evaluate(ticket domain.CustomerTicket, market map[string]domain.MarketQuote) domain.RiskDecision
}

// Ledger is the subset of the global ledger the broker depends on for
// committing an accepted ticket's retained exposure.
type Ledger interface {
	CommitBet(ctx context.Context, matchID string, selection domain.Selection, stake, liability float64) (domain.PnLVector, error)
	GetAllExposures() map[string]domain.PnLVector
	Wipe(ctx context.Context) error
}

// OrderBook records every committed ticket for audit.
type OrderBook interface {
	Record(ctx context.Context, ticket domain.CustomerTicket, decision domain.RiskDecision) error
	Recent(ctx context.Context, limit int) ([]domain.OrderBookEntry, error)
	Wipe(ctx context.Context) error
}

// Broker is the process-wide singleton that owns the market cache, risk
// engine, ledger, and order book and coordinates them per incoming ticket.
type Broker struct {
	market MarketSource
	risk   RiskEvaluator
	ledger Ledger
	orders OrderBook
}

// New builds a Broker from its four collaborators.
func New(market MarketSource, risk RiskEvaluator, ledger Ledger, orders OrderBook) *Broker {
	return &Broker{market: market, risk: risk, ledger: ledger, orders: orders}
}

// Evaluate fetches the current market snapshot and runs the risk engine
// against each ticket, returning one decision per ticket in order. It
// performs no ledger mutation — callers decide separately whether to Commit.
func (b *Broker) Evaluate(ctx context.Context, tickets []domain.CustomerTicket) ([]domain.RiskDecision, error) {
	market, err := b.market.GetLiveMarket(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("fetch live market: %w", err)
	}

	decisions := make([]domain.RiskDecision, 0, len(tickets))
	for _, ticket := range tickets {
		if err := ticket.Validate(); err != nil {
			decisions = append(decisions, domain.RiskDecision{
				TicketID: ticket.TicketID,
				Action:   domain.ActionReject,
				Reason:   err.Error(),
			})
			continue
		}
		decisions = append(decisions, b.risk.Evaluate(ticket, market))
	}
	return decisions, nil
}

// Commit persists an accepted decision: it retains the decision's surviving
// stake and liability on the danger leg's match in the ledger, then appends
// an audit row to the order book. A REJECT decision is a no-op (Invariant 3).
func (b *Broker) Commit(ctx context.Context, ticket domain.CustomerTicket, decision domain.RiskDecision) error {
	if !decision.Committable() {
		return nil
	}

	if _, err := b.ledger.CommitBet(ctx, decision.DangerMatchID, decision.DangerSelection, decision.RetainedStake, decision.RetainedLiability); err != nil {
		return fmt.Errorf("commit bet: %w", err)
	}
	if err := b.orders.Record(ctx, ticket, decision); err != nil {
		return fmt.Errorf("record order book entry: %w", err)
	}
	return nil
}

// Exposures returns the current worst-case PnL vector for every match the
// house is currently on risk for.
func (b *Broker) Exposures() map[string]domain.PnLVector {
	return b.ledger.GetAllExposures()
}

// OrderHistory returns the most recently committed tickets, newest first.
func (b *Broker) OrderHistory(ctx context.Context, limit int) ([]domain.OrderBookEntry, error) {
	return b.orders.Recent(ctx, limit)
}

// WipeAll clears every ledger exposure and order book entry — the daily
// settlement reset triggered from the admin surface.
func (b *Broker) WipeAll(ctx context.Context) error {
	if err := b.ledger.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe ledger: %w", err)
	}
	if err := b.orders.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe order book: %w", err)
	}
	return nil
}
