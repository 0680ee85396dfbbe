package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketSource struct {
	quotes map[string]domain.MarketQuote
	err    error
	calls  int
}

func (f *fakeMarketSource) GetLiveMarket(ctx context.Context, force bool) (map[string]domain.MarketQuote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

type fakeRiskEvaluator struct {
	decision domain.RiskDecision
	seen     []domain.CustomerTicket
}

func (f *fakeRiskEvaluator) Evaluate(ticket domain.CustomerTicket, market map[string]domain.MarketQuote) domain.RiskDecision {
	f.seen = append(f.seen, ticket)
	d := f.decision
	d.TicketID = ticket.TicketID
	return d
}

type fakeLedger struct {
	exposures    map[string]domain.PnLVector
	commitCalls  int
	commitErr    error
	wipeCalled   bool
	wipeErr      error
	lastSelected domain.Selection
	lastStake    float64
	lastLiab     float64
}

func (f *fakeLedger) CommitBet(ctx context.Context, matchID string, selection domain.Selection, stake, liability float64) (domain.PnLVector, error) {
	f.commitCalls++
	f.lastSelected = selection
	f.lastStake = stake
	f.lastLiab = liability
	if f.commitErr != nil {
		return domain.PnLVector{}, f.commitErr
	}
	return domain.PnLVector{}, nil
}

func (f *fakeLedger) GetAllExposures() map[string]domain.PnLVector {
	return f.exposures
}

func (f *fakeLedger) Wipe(ctx context.Context) error {
	f.wipeCalled = true
	return f.wipeErr
}

type fakeOrderBook struct {
	recorded   []domain.RiskDecision
	recordErr  error
	recent     []domain.OrderBookEntry
	wipeCalled bool
	wipeErr    error
}

func (f *fakeOrderBook) Record(ctx context.Context, ticket domain.CustomerTicket, decision domain.RiskDecision) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, decision)
	return nil
}

func (f *fakeOrderBook) Recent(ctx context.Context, limit int) ([]domain.OrderBookEntry, error) {
	return f.recent, nil
}

func (f *fakeOrderBook) Wipe(ctx context.Context) error {
	f.wipeCalled = true
	return f.wipeErr
}

func validTicket(id string) domain.CustomerTicket {
	return domain.CustomerTicket{
		TicketID:   id,
		TicketType: domain.TicketSingle,
		Stake:      10000,
		Legs: []domain.TicketLeg{
			{MatchID: "Home vs Away", Selection: domain.SelectionHome, CustomerOdds: 2.0},
		},
	}
}

func TestBroker_EvaluateRejectsInvalidTicketBeforeRiskEngine(t *testing.T) {
	market := &fakeMarketSource{quotes: map[string]domain.MarketQuote{}}
	risk := &fakeRiskEvaluator{decision: domain.RiskDecision{Action: domain.ActionAcceptBBook}}
	b := New(market, risk, &fakeLedger{}, &fakeOrderBook{})

	bad := domain.CustomerTicket{TicketID: "bad", Stake: 10}
	decisions, err := b.Evaluate(context.Background(), []domain.CustomerTicket{bad})

	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, domain.ActionReject, decisions[0].Action)
	assert.Equal(t, "bad", decisions[0].TicketID)
	assert.Empty(t, risk.seen, "invalid ticket must never reach the risk engine")
}

func TestBroker_EvaluateRunsValidTicketsThroughRiskEngine(t *testing.T) {
	market := &fakeMarketSource{quotes: map[string]domain.MarketQuote{}}
	risk := &fakeRiskEvaluator{decision: domain.RiskDecision{Action: domain.ActionAcceptBBook}}
	b := New(market, risk, &fakeLedger{}, &fakeOrderBook{})

	ticket := validTicket("T1")
	decisions, err := b.Evaluate(context.Background(), []domain.CustomerTicket{ticket})

	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, domain.ActionAcceptBBook, decisions[0].Action)
	require.Len(t, risk.seen, 1)
	assert.Equal(t, "T1", risk.seen[0].TicketID)
}

func TestBroker_EvaluatePropagatesMarketError(t *testing.T) {
	market := &fakeMarketSource{err: errors.New("feed down")}
	risk := &fakeRiskEvaluator{}
	b := New(market, risk, &fakeLedger{}, &fakeOrderBook{})

	_, err := b.Evaluate(context.Background(), []domain.CustomerTicket{validTicket("T1")})
	assert.Error(t, err)
}

func TestBroker_CommitIsNoOpForReject(t *testing.T) {
	ledger := &fakeLedger{}
	orders := &fakeOrderBook{}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, ledger, orders)

	decision := domain.RiskDecision{Action: domain.ActionReject}
	err := b.Commit(context.Background(), validTicket("T1"), decision)

	require.NoError(t, err)
	assert.Zero(t, ledger.commitCalls)
	assert.Empty(t, orders.recorded)
}

func TestBroker_CommitUsesRetainedStakeAndLiabilityNotRawTicketValues(t *testing.T) {
	ledger := &fakeLedger{}
	orders := &fakeOrderBook{}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, ledger, orders)

	ticket := validTicket("T1")
	decision := domain.RiskDecision{
		Action:            domain.ActionAcceptPartialHedge,
		DangerMatchID:     "Home vs Away",
		DangerSelection:   domain.SelectionHome,
		RetainedStake:     2700,
		RetainedLiability: 2500,
	}

	err := b.Commit(context.Background(), ticket, decision)

	require.NoError(t, err)
	assert.Equal(t, 1, ledger.commitCalls)
	assert.Equal(t, domain.SelectionHome, ledger.lastSelected)
	assert.Equal(t, 2700.0, ledger.lastStake)
	assert.Equal(t, 2500.0, ledger.lastLiab)
	require.Len(t, orders.recorded, 1)
	assert.Equal(t, domain.ActionAcceptPartialHedge, orders.recorded[0].Action)
}

func TestBroker_CommitSurfacesLedgerFailureAndSkipsOrderBook(t *testing.T) {
	ledger := &fakeLedger{commitErr: errors.New("db down")}
	orders := &fakeOrderBook{}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, ledger, orders)

	decision := domain.RiskDecision{Action: domain.ActionAcceptBBook, DangerMatchID: "Home vs Away", DangerSelection: domain.SelectionHome}
	err := b.Commit(context.Background(), validTicket("T1"), decision)

	assert.Error(t, err)
	assert.Empty(t, orders.recorded, "order book must not be written if the ledger commit failed")
}

func TestBroker_CommitSurfacesOrderBookFailure(t *testing.T) {
	ledger := &fakeLedger{}
	orders := &fakeOrderBook{recordErr: errors.New("disk full")}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, ledger, orders)

	decision := domain.RiskDecision{Action: domain.ActionAcceptBBook, DangerMatchID: "Home vs Away", DangerSelection: domain.SelectionHome}
	err := b.Commit(context.Background(), validTicket("T1"), decision)

	assert.Error(t, err)
	assert.Equal(t, 1, ledger.commitCalls)
}

func TestBroker_ExposuresDelegatesToLedger(t *testing.T) {
	exposures := map[string]domain.PnLVector{"Home vs Away": {Home: 100, Draw: -50, Away: -50}}
	ledger := &fakeLedger{exposures: exposures}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, ledger, &fakeOrderBook{})

	assert.Equal(t, exposures, b.Exposures())
}

func TestBroker_OrderHistoryDelegatesToOrderBook(t *testing.T) {
	recent := []domain.OrderBookEntry{{TicketID: "T1"}}
	orders := &fakeOrderBook{recent: recent}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, &fakeLedger{}, orders)

	got, err := b.OrderHistory(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, recent, got)
}

func TestBroker_WipeAllWipesBothLedgerAndOrderBook(t *testing.T) {
	ledger := &fakeLedger{}
	orders := &fakeOrderBook{}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, ledger, orders)

	require.NoError(t, b.WipeAll(context.Background()))
	assert.True(t, ledger.wipeCalled)
	assert.True(t, orders.wipeCalled)
}

func TestBroker_WipeAllStopsAtLedgerFailure(t *testing.T) {
	ledger := &fakeLedger{wipeErr: errors.New("db down")}
	orders := &fakeOrderBook{}
	b := New(&fakeMarketSource{}, &fakeRiskEvaluator{}, ledger, orders)

	err := b.WipeAll(context.Background())
	assert.Error(t, err)
	assert.False(t, orders.wipeCalled, "order book wipe must not run if the ledger wipe failed")
}
