package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// LedgerRow is one persisted row of the global ledger_pnl table: the
// house's running PnL exposure for one match across its three outcomes.
type LedgerRow struct {
	MatchID string
	Home    float64
	Draw    float64
	Away    float64
}

// LedgerRepository provides durable access to ledger_pnl.
type LedgerRepository interface {
	// LoadAll returns every persisted exposure row, used to rebuild the
	// in-memory ledger on process start.
	LoadAll(ctx context.Context, db DBTX) ([]LedgerRow, error)

	// Upsert writes (or overwrites) the exposure row for one match.
	Upsert(ctx context.Context, db DBTX, row LedgerRow) error

	// DeleteAll wipes every exposure row — the daily settlement reset.
	DeleteAll(ctx context.Context, db DBTX) error
}

// OrderBookEntryRow is one persisted row of the order_book audit table.
type OrderBookEntryRow struct {
	TicketID          string
	TicketType        string
	Stake             float64
	Action            string
	RetainedLiability float64
	HedgeStake        float64
	DangerMatchID     string
	DangerSelection   string
	Timestamp         time.Time
}

// OrderBookRepository provides durable access to order_book.
type OrderBookRepository interface {
	// Insert appends one committed ticket to the audit trail.
	Insert(ctx context.Context, db DBTX, row OrderBookEntryRow) error

	// ListRecent returns the most recently committed tickets, newest first.
	ListRecent(ctx context.Context, db DBTX, limit int) ([]OrderBookEntryRow, error)

	// DeleteAll wipes every order book row — the daily settlement reset.
	DeleteAll(ctx context.Context, db DBTX) error
}
