package domain

import "time"

// Selection identifies an outcome of a three-way moneyline market.
type Selection string

const (
	SelectionHome Selection = "home"
	SelectionDraw Selection = "draw"
	SelectionAway Selection = "away"
)

// TicketType distinguishes a single-leg wager from a two-leg parlay.
type TicketType string

const (
	TicketSingle  TicketType = "single"
	TicketParlay2 TicketType = "parlay_2"
)

// Action is the fixed set of routing decisions the risk engine may emit.
type Action string

const (
	ActionReject            Action = "REJECT"
	ActionAcceptBBook        Action = "ACCEPT_B_BOOK"
	ActionAcceptABookHedge   Action = "ACCEPT_A_BOOK_HEDGE"
	ActionAcceptPartialHedge Action = "ACCEPT_PARTIAL_HEDGE"
)

const (
	minStake = 1000
	maxStake = 50000
)

// MarketQuote is a three-way moneyline price from one bookmaker for one match.
//
// MatchID is derived, never supplied by a caller: it is the canonical
// fingerprint "{home} vs {away}" built from the two canonical team names in
// source order. Two quotes sharing a MatchID refer to the same fixture
// (Invariant 4).
type MarketQuote struct {
	Bookmaker string    `json:"bookmaker"`
	MatchID   string    `json:"match_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeOdds  float64   `json:"home_odds"`
	AwayOdds  float64   `json:"away_odds"`
	DrawOdds  float64   `json:"draw_odds,omitempty"`
}

// Odds returns the quoted price for the given selection, or 0 if the market
// carries no price for it (e.g. a two-way market queried for draw).
func (q MarketQuote) Odds(s Selection) float64 {
	switch s {
	case SelectionHome:
		return q.HomeOdds
	case SelectionAway:
		return q.AwayOdds
	case SelectionDraw:
		return q.DrawOdds
	default:
		return 0
	}
}

// MatchFingerprint builds the canonical match_id from two canonical team
// names in source (home, away) order. This is the one convention enforced
// process-wide; see SPEC_FULL.md §3.
func MatchFingerprint(home, away string) string {
	return home + " vs " + away
}

// TicketLeg is one leg of a customer ticket.
type TicketLeg struct {
	MatchID       string    `json:"match_id"`
	Selection     Selection `json:"selection"`
	CustomerOdds  float64   `json:"customer_odds"`
}

// CustomerTicket is an incoming wager, single-leg or two-leg parlay.
type CustomerTicket struct {
	TicketID   string      `json:"ticket_id"`
	TicketType TicketType  `json:"ticket_type"`
	Stake      float64     `json:"stake"`
	Legs       []TicketLeg `json:"legs"`
}

// TotalOdds is the product of each leg's customer-offered price.
func (t CustomerTicket) TotalOdds() float64 {
	odds := 1.0
	for _, leg := range t.Legs {
		odds *= leg.CustomerOdds
	}
	return odds
}

// PotentialPayout is stake × total odds.
func (t CustomerTicket) PotentialPayout() float64 {
	return t.Stake * t.TotalOdds()
}

// Liability is the net amount the house owes if the customer wins.
func (t CustomerTicket) Liability() float64 {
	return t.PotentialPayout() - t.Stake
}

// Validate checks the boundary constraints from SPEC_FULL.md §7: stake
// range, leg count, and selection enum. This runs before the ticket ever
// reaches the risk engine — the engine assumes well-formed input.
func (t CustomerTicket) Validate() error {
	if t.TicketID == "" {
		return ErrValidation("ticket_id is required")
	}
	if t.Stake < minStake || t.Stake > maxStake {
		return ErrValidation("stake must be between 1000 and 50000")
	}
	if len(t.Legs) == 0 || len(t.Legs) > 2 {
		return ErrValidation("ticket must carry 1 or 2 legs")
	}
	for _, leg := range t.Legs {
		switch leg.Selection {
		case SelectionHome, SelectionDraw, SelectionAway:
		default:
			return ErrValidation("unknown selection: " + string(leg.Selection))
		}
		if leg.MatchID == "" {
			return ErrValidation("leg match_id is required")
		}
		if leg.CustomerOdds <= 1.0 {
			return ErrValidation("leg customer_odds must exceed 1.0")
		}
	}
	if len(t.Legs) == 1 && t.TicketType != TicketSingle {
		return ErrValidation("single-leg ticket must carry ticket_type single")
	}
	if len(t.Legs) == 2 && t.TicketType != TicketParlay2 {
		return ErrValidation("two-leg ticket must carry ticket_type parlay_2")
	}
	return nil
}

// RiskDecision is the risk engine's output for one ticket: exactly one
// action, with every field the orchestrator needs to commit it and every
// field an auditor needs to understand it.
type RiskDecision struct {
	TicketID          string    `json:"ticket_id"`
	Action            Action    `json:"action"`
	Reason            string    `json:"reason"`
	HouseEV           float64   `json:"house_ev"`
	TrueProbability   float64   `json:"true_probability"`
	HedgeStake        float64   `json:"hedge_stake"`
	HedgeOdds         float64   `json:"hedge_odds"`
	BBookStake        float64   `json:"b_book_stake"`
	RetainedStake     float64   `json:"retained_stake"`
	RetainedLiability float64   `json:"retained_liability"`
	DangerMatchID     string    `json:"danger_match_id"`
	DangerSelection   Selection `json:"danger_selection"`
}

// Committable reports whether the decision results in a ledger mutation and
// an order-book entry — every action except REJECT (Invariant 3).
func (d RiskDecision) Committable() bool {
	return d.Action != ActionReject
}

// PnLVector is the projected profit or loss for one match across its three
// possible outcomes. A negative value at an outcome means the house pays
// out net on that outcome; positive means the house nets stake inflow.
type PnLVector struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// At returns the vector's value for the given selection.
func (v PnLVector) At(s Selection) float64 {
	switch s {
	case SelectionHome:
		return v.Home
	case SelectionAway:
		return v.Away
	case SelectionDraw:
		return v.Draw
	default:
		return 0
	}
}

// WithAt returns a copy of v with the given selection's value replaced.
func (v PnLVector) WithAt(s Selection, value float64) PnLVector {
	switch s {
	case SelectionHome:
		v.Home = value
	case SelectionAway:
		v.Away = value
	case SelectionDraw:
		v.Draw = value
	}
	return v
}

// Worst is min(home, draw, away) — the house's worst-case PnL for the match.
func (v PnLVector) Worst() float64 {
	w := v.Home
	if v.Draw < w {
		w = v.Draw
	}
	if v.Away < w {
		w = v.Away
	}
	return w
}

// OrderBookEntry is one append-only row recording a committed ticket.
type OrderBookEntry struct {
	TicketID          string     `json:"ticket_id"`
	TicketType        TicketType `json:"ticket_type"`
	Stake             float64    `json:"stake"`
	Action            Action     `json:"action"`
	RetainedLiability float64    `json:"retained_liability"`
	HedgeStake        float64    `json:"hedge_stake"`
	DangerMatchID     string     `json:"danger_match_id"`
	DangerSelection   Selection  `json:"danger_selection"`
	Timestamp         time.Time  `json:"timestamp"`
}
