package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/attaboy/shadowbook/internal/guard"
	"github.com/attaboy/shadowbook/internal/normalize"
)

// odds88Selection is one priced outcome on the Odds88 board snapshot.
type odds88Selection struct {
	MatchID  string  `json:"matchId"`
	HomeTeam string  `json:"homeTeam"`
	AwayTeam string  `json:"awayTeam"`
	Home     float64 `json:"homeOdds"`
	Away     float64 `json:"awayOdds"`
	Draw     float64 `json:"drawOdds"`
}

// Odds88Feed polls Odds88's board snapshot endpoint. It exists as a second,
// independent bookmaker source so the arbitrage scanner has more than
// one book to compare against — a single source can never disagree with
// itself.
type Odds88Feed struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	normalizer *normalize.Normalizer
	breaker    *guard.CircuitBreaker
	logger     *slog.Logger
}

// NewOdds88Feed builds a feed against the Odds88 board snapshot API.
func NewOdds88Feed(baseURL, apiKey string, timeout time.Duration, normalizer *normalize.Normalizer, logger *slog.Logger) *Odds88Feed {
	return &Odds88Feed{
		baseURL:    baseURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: timeout},
		normalizer: normalizer,
		breaker:    guard.NewCircuitBreaker(5, 30*time.Second),
		logger:     logger,
	}
}

func (f *Odds88Feed) Name() string { return "odds88" }

func (f *Odds88Feed) FetchOdds(ctx context.Context) ([]domain.MarketQuote, error) {
	check := f.breaker.Check(ctx, f.Name())
	if !check.Allowed {
		f.logger.Warn("odds feed circuit open, skipping fetch", "feed", f.Name(), "reason", check.Reason)
		return nil, nil
	}

	selections, err := f.fetchBoard(ctx)
	if err != nil {
		f.breaker.RecordFailure(f.Name())
		f.logger.Error("odds feed fetch failed, reporting empty board", "feed", f.Name(), "error", err)
		return nil, nil
	}
	f.breaker.RecordSuccess(f.Name())

	quotes := make([]domain.MarketQuote, 0, len(selections))
	for _, s := range selections {
		if s.Home <= 1.0 || s.Away <= 1.0 {
			continue
		}
		homeCanonical := f.normalizer.Standardize(s.HomeTeam)
		awayCanonical := f.normalizer.Standardize(s.AwayTeam)
		quote := domain.MarketQuote{
			Bookmaker: f.Name(),
			MatchID:   domain.MatchFingerprint(homeCanonical, awayCanonical),
			HomeTeam:  homeCanonical,
			AwayTeam:  awayCanonical,
			HomeOdds:  s.Home,
			AwayOdds:  s.Away,
		}
		if s.Draw > 1.0 {
			quote.DrawOdds = s.Draw
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

func (f *Odds88Feed) fetchBoard(ctx context.Context) ([]odds88Selection, error) {
	endpoint := fmt.Sprintf("%s/v1/board?apiKey=%s", f.baseURL, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch odds88 board: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds88 board returned %d", resp.StatusCode)
	}

	var selections []odds88Selection
	if err := json.NewDecoder(resp.Body).Decode(&selections); err != nil {
		return nil, fmt.Errorf("decode odds88 board: %w", err)
	}
	return selections, nil
}
