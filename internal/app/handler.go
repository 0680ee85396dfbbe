package app

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/attaboy/shadowbook/internal/arbitrage"
	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/attaboy/shadowbook/internal/guard"
	"github.com/attaboy/shadowbook/internal/telemetry"
)

// Broker is the subset of *broker.Broker the HTTP surface depends on.
type Broker interface {
	Evaluate(ctx context.Context, tickets []domain.CustomerTicket) ([]domain.RiskDecision, error)
	Commit(ctx context.Context, ticket domain.CustomerTicket, decision domain.RiskDecision) error
	Exposures() map[string]domain.PnLVector
	OrderHistory(ctx context.Context, limit int) ([]domain.OrderBookEntry, error)
	WipeAll(ctx context.Context) error
}

// RiskHandler exposes the broker's evaluate/commit/exposures/orders/wipe
// operations over HTTP, plus a read-only view of the arbitrage scanner.
type RiskHandler struct {
	broker   Broker
	scanner  *arbitrage.Scanner
	metrics  *telemetry.Metrics
	idem     *guard.IdempotencyGuard
	logger   *slog.Logger
}

// NewRiskHandler builds a RiskHandler from its collaborators. scanner and
// metrics may be nil, in which case the arbitrage endpoint is disabled and
// metric observation is skipped.
func NewRiskHandler(broker Broker, scanner *arbitrage.Scanner, metrics *telemetry.Metrics, logger *slog.Logger) *RiskHandler {
	return &RiskHandler{
		broker:  broker,
		scanner: scanner,
		metrics: metrics,
		idem:    guard.NewIdempotencyGuard(),
		logger:  logger,
	}
}

type evaluateRequest struct {
	Tickets []domain.CustomerTicket `json:"tickets"`
}

// Evaluate runs the risk engine over a batch of tickets without mutating
// the ledger or order book.
func (h *RiskHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("malformed request body"))
		return
	}

	decisions, err := h.broker.Evaluate(r.Context(), req.Tickets)
	if err != nil {
		RespondError(w, err)
		return
	}

	if h.metrics != nil {
		for _, d := range decisions {
			h.metrics.ObserveDecision(string(d.Action), d.HouseEV)
		}
	}
	RespondJSON(w, http.StatusOK, decisions)
}

type commitRequest struct {
	Ticket   domain.CustomerTicket `json:"ticket"`
	Decision domain.RiskDecision   `json:"decision"`
}

// Commit persists a previously evaluated decision. Requests carrying a
// ticket_id already seen by this process are rejected as duplicates
// (Invariant: a ticket is committed at most once).
func (h *RiskHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("malformed request body"))
		return
	}

	check := h.idem.Check(r.Context(), req.Ticket.TicketID)
	if !check.Allowed {
		RespondError(w, domain.ErrConflict(check.Reason))
		return
	}

	if err := h.broker.Commit(r.Context(), req.Ticket, req.Decision); err != nil {
		h.idem.Remove(req.Ticket.TicketID)
		RespondError(w, err)
		return
	}

	if h.metrics != nil {
		for matchID, vector := range h.broker.Exposures() {
			h.metrics.SetLedgerWorstCase(matchID, vector.Worst())
		}
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "committed"})
}

// Exposures returns the current worst-case PnL vector for every match the
// house is on risk for.
func (h *RiskHandler) Exposures(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.broker.Exposures())
}

// Orders returns the most recently committed tickets, newest first.
func (h *RiskHandler) Orders(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	orders, err := h.broker.OrderHistory(r.Context(), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, orders)
}

// Wipe clears every ledger exposure and order book entry — the daily
// settlement reset.
func (h *RiskHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.broker.WipeAll(r.Context()); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// Arbitrage runs the arbitrage scanner once and returns every opportunity
// found, sorted by margin descending.
func (h *RiskHandler) Arbitrage(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		RespondError(w, domain.ErrValidation("arbitrage scanning is not configured"))
		return
	}
	opportunities := h.scanner.Scan(r.Context())
	if h.metrics != nil {
		h.metrics.RecordArbitrageOpportunities(len(opportunities))
	}
	RespondJSON(w, http.StatusOK, opportunities)
}
