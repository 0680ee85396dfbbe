package risk

import (
	"fmt"
	"math"

	"github.com/attaboy/shadowbook/internal/domain"
)

// DefaultMaxGlobalLiability is the absolute worst-case PnL cap per match
// (SPEC_FULL.md §6, config key max_global_liability).
const DefaultMaxGlobalLiability = 30000.0

// DefaultMinHouseEdge is the EV floor below which tickets are rejected as
// poison (config key min_house_edge). Mild customer edges above this floor
// are still accepted for volume.
const DefaultMinHouseEdge = -0.05

// DefaultHedgeRounding is the monetary lot hedge stakes round up to
// (config key hedge_rounding).
const DefaultHedgeRounding = 50.0

// Config carries the risk engine's tunable thresholds.
type Config struct {
	MaxGlobalLiability float64
	MinHouseEdge       float64
	HedgeRounding      float64
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxGlobalLiability: DefaultMaxGlobalLiability,
		MinHouseEdge:       DefaultMinHouseEdge,
		HedgeRounding:      DefaultHedgeRounding,
	}
}

// LedgerReader is the read-only slice of the global ledger (C5) the engine
// needs: a pure, non-mutating worst-case projection. Defined here rather
// than imported from package ledger so risk has no dependency on the
// ledger's durable-store concerns.
type LedgerReader interface {
	SimulateBet(matchID string, selection domain.Selection, stake, liability float64) domain.PnLVector
}

// Engine is the decision state machine (C7): it combines the devig
// calculator (C6) with a worst-case ledger projection (C5) to emit exactly
// one RiskDecision per ticket.
type Engine struct {
	ledger LedgerReader
	cfg    Config
}

// NewEngine builds a risk Engine against the given ledger reader and config.
func NewEngine(ledger LedgerReader, cfg Config) *Engine {
	return &Engine{ledger: ledger, cfg: cfg}
}

type legEval struct {
	matchID   string
	selection domain.Selection
	sharpOdds float64
	trueProb  float64
}

// Evaluate runs the S0-S5 decision tree from SPEC_FULL.md §4.5 against a
// ticket and the current market snapshot, producing exactly one decision.
// It performs no I/O and mutates nothing — callers decide separately
// whether to commit the result.
func (e *Engine) Evaluate(ticket domain.CustomerTicket, market map[string]domain.MarketQuote) domain.RiskDecision {
	legs := make([]legEval, 0, len(ticket.Legs))
	combinedTrueProb := 1.0

	for _, leg := range ticket.Legs {
		quote, ok := market[leg.MatchID]
		if !ok {
			return reject(ticket.TicketID, "missing external benchmark for "+leg.MatchID)
		}
		sharpOdds := quote.Odds(leg.Selection)
		if sharpOdds <= 1.0 {
			return reject(ticket.TicketID, "market closed for "+leg.MatchID)
		}
		trueProb := TrueProbability(quote, leg.Selection)
		combinedTrueProb *= trueProb
		legs = append(legs, legEval{matchID: leg.MatchID, selection: leg.Selection, sharpOdds: sharpOdds, trueProb: trueProb})
	}

	houseEV := HouseEV(combinedTrueProb, ticket.TotalOdds())

	// S0: poison rejection.
	if houseEV < e.cfg.MinHouseEdge {
		d := reject(ticket.TicketID, fmt.Sprintf(
			"poison ticket: customer win probability %.1f%% against these odds implies house EV %.4f, below the %.4f floor",
			combinedTrueProb*100, houseEV, e.cfg.MinHouseEdge))
		d.HouseEV = houseEV
		d.TrueProbability = combinedTrueProb
		return d
	}

	// S1: danger leg — the leg most likely to actually occur.
	danger := legs[0]
	for _, l := range legs[1:] {
		if l.trueProb > danger.trueProb {
			danger = l
		}
	}

	// S2: global worst-case projection.
	sim := e.ledger.SimulateBet(danger.matchID, danger.selection, ticket.Stake, ticket.Liability())
	worst := sim.Worst()

	decision := domain.RiskDecision{
		TicketID:        ticket.TicketID,
		HouseEV:         houseEV,
		TrueProbability: combinedTrueProb,
		DangerMatchID:   danger.matchID,
		DangerSelection: danger.selection,
	}

	// S3: safe absorb.
	if worst >= -e.cfg.MaxGlobalLiability {
		decision.Action = domain.ActionAcceptBBook
		decision.Reason = fmt.Sprintf(
			"absorbed: worst-case PnL %.0f for %s stays within the %.0f global liability line",
			worst, danger.matchID, e.cfg.MaxGlobalLiability)
		decision.BBookStake = ticket.Stake
		decision.RetainedStake = ticket.Stake
		decision.RetainedLiability = ticket.Liability()
		return decision
	}

	// S4: hedge sizing.
	excess := -worst - e.cfg.MaxGlobalLiability
	rawHedge := excess / (danger.sharpOdds - 1.0)
	hedgeStake := math.Ceil(rawHedge/e.cfg.HedgeRounding) * e.cfg.HedgeRounding
	retainedStake := ticket.Stake - hedgeStake
	retainedLiability := ticket.Liability() - hedgeStake*(danger.sharpOdds-1.0)

	decision.HedgeStake = hedgeStake
	decision.HedgeOdds = danger.sharpOdds
	decision.RetainedStake = retainedStake
	decision.RetainedLiability = retainedLiability

	// S5: route by residual.
	if retainedStake > 0 {
		decision.Action = domain.ActionAcceptPartialHedge
		decision.BBookStake = retainedStake
		decision.Reason = fmt.Sprintf(
			"worst-case breach of %.0f on %s: laying off %.0f at %.2f, retaining %.0f in-house",
			excess, danger.matchID, hedgeStake, danger.sharpOdds, retainedStake)
	} else {
		decision.Action = domain.ActionAcceptABookHedge
		decision.BBookStake = 0
		decision.Reason = fmt.Sprintf(
			"worst-case breach of %.0f on %s exceeds the stake itself: fully laid off at %.2f, house retains spread only",
			excess, danger.matchID, danger.sharpOdds)
	}
	return decision
}

func reject(ticketID, reason string) domain.RiskDecision {
	return domain.RiskDecision{TicketID: ticketID, Action: domain.ActionReject, Reason: reason}
}
