// Package ledger holds the global PnL ledger (C5): the house's running
// worst-case exposure per match, held in memory for speed and write-through
// persisted to Postgres so a restart resumes from the last committed state.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/attaboy/shadowbook/internal/repository"
)

// Ledger is the single source of truth for every match's PnL exposure. All
// reads and writes go through its mutex — SimulateBet never mutates state,
// only CommitBet does.
type Ledger struct {
	mu    sync.RWMutex
	pools map[string]domain.PnLVector

	repo repository.LedgerRepository
	db   repository.DBTX
}

// New builds an empty Ledger backed by the given repository and connection.
// Call Load before serving traffic to recover state from a prior run.
func New(repo repository.LedgerRepository, db repository.DBTX) *Ledger {
	return &Ledger{
		pools: make(map[string]domain.PnLVector),
		repo:  repo,
		db:    db,
	}
}

// Load recovers every persisted exposure row from Postgres into memory.
// Called once at startup (Invariant 8: durable restart).
func (l *Ledger) Load(ctx context.Context) error {
	rows, err := l.repo.LoadAll(ctx, l.db)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, row := range rows {
		l.pools[row.MatchID] = domain.PnLVector{Home: row.Home, Draw: row.Draw, Away: row.Away}
	}
	return nil
}

// SimulateBet projects the worst-case PnL vector that would result from
// accepting a bet, without mutating the ledger. This is the pure read the
// risk engine drives its decision from.
func (l *Ledger) SimulateBet(matchID string, selection domain.Selection, stake, liability float64) domain.PnLVector {
	l.mu.RLock()
	current := l.pools[matchID]
	l.mu.RUnlock()
	return applyBet(current, selection, stake, liability)
}

// CommitBet applies a bet to the in-memory ledger and writes the result
// through to Postgres before returning. If the durable write fails, the
// in-memory state is rolled back so memory and disk never diverge.
func (l *Ledger) CommitBet(ctx context.Context, matchID string, selection domain.Selection, stake, liability float64) (domain.PnLVector, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.pools[matchID]
	after := applyBet(before, selection, stake, liability)
	l.pools[matchID] = after

	row := repository.LedgerRow{MatchID: matchID, Home: after.Home, Draw: after.Draw, Away: after.Away}
	if err := l.repo.Upsert(ctx, l.db, row); err != nil {
		l.pools[matchID] = before
		return domain.PnLVector{}, domain.ErrLedgerUnavailable(err)
	}
	return after, nil
}

// GetAllExposures returns a snapshot of every match's current PnL vector.
func (l *Ledger) GetAllExposures() map[string]domain.PnLVector {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]domain.PnLVector, len(l.pools))
	for k, v := range l.pools {
		out[k] = v
	}
	return out
}

// Wipe clears every exposure, in memory and in Postgres — the daily
// settlement reset.
func (l *Ledger) Wipe(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.repo.DeleteAll(ctx, l.db); err != nil {
		return fmt.Errorf("wipe ledger: %w", err)
	}
	l.pools = make(map[string]domain.PnLVector)
	return nil
}

// applyBet is the pure projection shared by SimulateBet and CommitBet: the
// chosen selection absorbs the liability, every other outcome gains the stake.
func applyBet(v domain.PnLVector, selection domain.Selection, stake, liability float64) domain.PnLVector {
	out := v.WithAt(selection, v.At(selection)-liability)
	if selection != domain.SelectionHome {
		out.Home += stake
	}
	if selection != domain.SelectionDraw {
		out.Draw += stake
	}
	if selection != domain.SelectionAway {
		out.Away += stake
	}
	return out
}
