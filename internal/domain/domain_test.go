package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := ErrValidation("stake out of range")
		assert.Equal(t, "VALIDATION_ERROR: stake out of range", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrLedgerUnavailable(cause)
		assert.Contains(t, err.Error(), "LEDGER_UNAVAILABLE")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrInternal("wrapped", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestErrorFactories(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"ErrValidation", ErrValidation("bad input"), "VALIDATION_ERROR", 400},
		{"ErrConflict", ErrConflict("already committed"), "CONFLICT", 409},
		{"ErrForbidden", ErrForbidden("not allowed"), "FORBIDDEN", 403},
		{"ErrLedgerUnavailable", ErrLedgerUnavailable(nil), "LEDGER_UNAVAILABLE", 503},
		{"ErrInternal", ErrInternal("oops", nil), "INTERNAL_ERROR", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestCustomerTicket_Derived(t *testing.T) {
	ticket := CustomerTicket{
		TicketID:   "t1",
		TicketType: TicketParlay2,
		Stake:      1000,
		Legs: []TicketLeg{
			{MatchID: "A vs B", Selection: SelectionHome, CustomerOdds: 2.0},
			{MatchID: "C vs D", Selection: SelectionAway, CustomerOdds: 1.5},
		},
	}
	assert.InDelta(t, 3.0, ticket.TotalOdds(), 1e-9)
	assert.InDelta(t, 3000, ticket.PotentialPayout(), 1e-9)
	assert.InDelta(t, 2000, ticket.Liability(), 1e-9)
}

func TestCustomerTicket_Validate(t *testing.T) {
	valid := CustomerTicket{
		TicketID:   "t1",
		TicketType: TicketSingle,
		Stake:      15000,
		Legs:       []TicketLeg{{MatchID: "A vs B", Selection: SelectionHome, CustomerOdds: 2.0}},
	}

	t.Run("valid single", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("stake below minimum", func(t *testing.T) {
		tk := valid
		tk.Stake = 500
		require.Error(t, tk.Validate())
	})

	t.Run("stake above maximum", func(t *testing.T) {
		tk := valid
		tk.Stake = 100000
		require.Error(t, tk.Validate())
	})

	t.Run("zero legs", func(t *testing.T) {
		tk := valid
		tk.Legs = nil
		require.Error(t, tk.Validate())
	})

	t.Run("three legs", func(t *testing.T) {
		tk := valid
		tk.Legs = append(tk.Legs, tk.Legs[0], tk.Legs[0])
		require.Error(t, tk.Validate())
	})

	t.Run("unknown selection", func(t *testing.T) {
		tk := valid
		tk.Legs = []TicketLeg{{MatchID: "A vs B", Selection: "over", CustomerOdds: 2.0}}
		require.Error(t, tk.Validate())
	})

	t.Run("ticket_type mismatch", func(t *testing.T) {
		tk := valid
		tk.TicketType = TicketParlay2
		require.Error(t, tk.Validate())
	})
}

func TestPnLVector_WorstAndAt(t *testing.T) {
	v := PnLVector{Home: -15000, Draw: 15000, Away: 15000}
	assert.InDelta(t, -15000, v.Worst(), 1e-9)
	assert.InDelta(t, -15000, v.At(SelectionHome), 1e-9)

	updated := v.WithAt(SelectionAway, 500)
	assert.InDelta(t, 500, updated.Away, 1e-9)
	assert.InDelta(t, 15000, v.Away, 1e-9, "WithAt must not mutate the receiver")
}

func TestMatchFingerprint(t *testing.T) {
	assert.Equal(t, "Arsenal vs Chelsea", MatchFingerprint("Arsenal", "Chelsea"))
}

func TestRiskDecision_Committable(t *testing.T) {
	assert.False(t, RiskDecision{Action: ActionReject}.Committable())
	assert.True(t, RiskDecision{Action: ActionAcceptBBook}.Committable())
}
