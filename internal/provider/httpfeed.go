package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/attaboy/shadowbook/internal/guard"
	"github.com/attaboy/shadowbook/internal/normalize"
)

// retryBaseDelay and retryMaxDelay bound the exponential backoff between
// fetch attempts (SPEC_FULL.md §4.2: 2s floor, 10s ceiling, 3 attempts).
const (
	retryBaseDelay = 2 * time.Second
	retryMaxDelay  = 10 * time.Second
	retryAttempts  = 3
)

type oddsEvent struct {
	ID           string          `json:"id"`
	CommenceTime string          `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []oddsBookmaker `json:"bookmakers"`
}

type oddsBookmaker struct {
	Key     string       `json:"key"`
	Markets []oddsMarket `json:"markets"`
}

type oddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []oddsOutcome `json:"outcomes"`
}

type oddsOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// HTTPFeed fetches moneyline quotes from The Odds API, narrowed to the h2h
// market and the pinnacle bookmaker (the sharpest, lowest-margin book,
// making it the best proxy for a true line).
type HTTPFeed struct {
	baseURL    string
	apiKey     string
	sportKey   string
	bookmaker  string
	client     *http.Client
	normalizer *normalize.Normalizer
	breaker    *guard.CircuitBreaker
	logger     *slog.Logger
}

// NewHTTPFeed builds a live odds feed against The Odds API.
func NewHTTPFeed(baseURL, apiKey string, timeout time.Duration, normalizer *normalize.Normalizer, logger *slog.Logger) *HTTPFeed {
	return &HTTPFeed{
		baseURL:    baseURL,
		apiKey:     apiKey,
		sportKey:   "soccer_upcoming",
		bookmaker:  "pinnacle",
		client:     &http.Client{Timeout: timeout},
		normalizer: normalizer,
		breaker:    guard.NewCircuitBreaker(5, 30*time.Second),
		logger:     logger,
	}
}

func (f *HTTPFeed) Name() string { return "pinnacle" }

// FetchOdds pulls the current soccer_upcoming h2h board, retrying transient
// failures with exponential backoff before giving up and reporting an empty
// board (the cache then serves the last good snapshot instead).
func (f *HTTPFeed) FetchOdds(ctx context.Context) ([]domain.MarketQuote, error) {
	check := f.breaker.Check(ctx, f.Name())
	if !check.Allowed {
		f.logger.Warn("odds feed circuit open, skipping fetch", "feed", f.Name(), "reason", check.Reason)
		return nil, nil
	}

	events, err := f.fetchWithRetry(ctx)
	if err != nil {
		f.breaker.RecordFailure(f.Name())
		f.logger.Error("odds feed exhausted retries, reporting empty board", "feed", f.Name(), "error", err)
		return nil, nil
	}
	f.breaker.RecordSuccess(f.Name())

	return f.toQuotes(events), nil
}

func (f *HTTPFeed) fetchWithRetry(ctx context.Context) ([]oddsEvent, error) {
	delay := retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		events, err := f.fetchOnce(ctx)
		if err == nil {
			return events, nil
		}
		lastErr = err
		f.logger.Warn("odds feed fetch failed", "feed", f.Name(), "attempt", attempt, "error", err)

		if attempt == retryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
	return nil, fmt.Errorf("odds feed exhausted %d attempts: %w", retryAttempts, lastErr)
}

func (f *HTTPFeed) fetchOnce(ctx context.Context) ([]oddsEvent, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/odds", f.baseURL, f.sportKey)
	q := url.Values{}
	q.Set("apiKey", f.apiKey)
	q.Set("regions", "eu")
	q.Set("markets", "h2h")
	q.Set("bookmakers", f.bookmaker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("odds feed quota exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds feed returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var events []oddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode odds feed response: %w", err)
	}
	return events, nil
}

func (f *HTTPFeed) toQuotes(events []oddsEvent) []domain.MarketQuote {
	quotes := make([]domain.MarketQuote, 0, len(events))
	for _, event := range events {
		if event.HomeTeam == "" || event.AwayTeam == "" {
			continue
		}
		homeCanonical := f.normalizer.Standardize(event.HomeTeam)
		awayCanonical := f.normalizer.Standardize(event.AwayTeam)
		matchID := domain.MatchFingerprint(homeCanonical, awayCanonical)

		for _, bk := range event.Bookmakers {
			if bk.Key != f.bookmaker {
				continue
			}
			for _, mkt := range bk.Markets {
				if mkt.Key != "h2h" {
					continue
				}
				quote, ok := quoteFromOutcomes(mkt.Outcomes, event.HomeTeam, event.AwayTeam)
				if !ok {
					continue
				}
				quote.Bookmaker = f.Name()
				quote.MatchID = matchID
				quote.HomeTeam = homeCanonical
				quote.AwayTeam = awayCanonical
				quotes = append(quotes, quote)
			}
		}
	}
	return quotes
}

func quoteFromOutcomes(outcomes []oddsOutcome, homeRaw, awayRaw string) (domain.MarketQuote, bool) {
	var home, away, draw float64
	for _, o := range outcomes {
		switch {
		case o.Name == homeRaw:
			home = o.Price
		case o.Name == awayRaw:
			away = o.Price
		case strings.EqualFold(o.Name, "draw"):
			draw = o.Price
		}
	}
	if home <= 1.0 || away <= 1.0 {
		return domain.MarketQuote{}, false
	}
	quote := domain.MarketQuote{HomeOdds: home, AwayOdds: away}
	if draw > 1.0 {
		quote.DrawOdds = draw
	}
	return quote, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
