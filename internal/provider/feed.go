// Package provider implements the external odds sources (C2): the live
// HTTP feed against The Odds API, and deterministic stub fixtures for
// environments with no API key.
package provider

import (
	"context"

	"github.com/attaboy/shadowbook/internal/domain"
)

// OddsFeed is the contract every bookmaker source satisfies. FetchOdds
// returns the current three-way moneyline quotes it has available; an
// empty slice (not an error) means the source currently has nothing to
// report.
type OddsFeed interface {
	Name() string
	FetchOdds(ctx context.Context) ([]domain.MarketQuote, error)
}
