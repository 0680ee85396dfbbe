package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/attaboy/shadowbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderBookRepo struct {
	rows []repository.OrderBookEntryRow
}

func (f *fakeOrderBookRepo) Insert(ctx context.Context, db repository.DBTX, row repository.OrderBookEntryRow) error {
	row.Timestamp = time.Unix(int64(len(f.rows)), 0)
	f.rows = append([]repository.OrderBookEntryRow{row}, f.rows...)
	return nil
}

func (f *fakeOrderBookRepo) ListRecent(ctx context.Context, db repository.DBTX, limit int) ([]repository.OrderBookEntryRow, error) {
	if limit <= 0 || limit > len(f.rows) {
		limit = len(f.rows)
	}
	return f.rows[:limit], nil
}

func (f *fakeOrderBookRepo) DeleteAll(ctx context.Context, db repository.DBTX) error {
	f.rows = nil
	return nil
}

func TestOrderBook_RecordAndRecent(t *testing.T) {
	repo := &fakeOrderBookRepo{}
	ob := NewOrderBook(repo, nil)
	ctx := context.Background()

	ticket := domain.CustomerTicket{TicketID: "T1", TicketType: domain.TicketSingle, Stake: 10000}
	decision := domain.RiskDecision{
		Action:            domain.ActionAcceptBBook,
		RetainedLiability: 10000,
		DangerMatchID:     "A vs B",
		DangerSelection:   domain.SelectionHome,
	}

	require.NoError(t, ob.Record(ctx, ticket, decision))

	recent, err := ob.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "T1", recent[0].TicketID)
	assert.Equal(t, domain.ActionAcceptBBook, recent[0].Action)
}

func TestOrderBook_Wipe(t *testing.T) {
	repo := &fakeOrderBookRepo{rows: []repository.OrderBookEntryRow{{TicketID: "T1"}}}
	ob := NewOrderBook(repo, nil)

	require.NoError(t, ob.Wipe(context.Background()))
	recent, err := ob.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
