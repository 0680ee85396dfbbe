package provider

import (
	"context"

	"github.com/attaboy/shadowbook/internal/domain"
	"github.com/attaboy/shadowbook/internal/normalize"
)

// StubFeed is a deterministic fixture feed used when no ODDS_API_KEY is
// configured, and by tests. It feeds raw, unmapped team names through the
// normalizer, so its match_ids depend on TEAM_MAPPING_PATH: names the
// mapping does not cover pass through unchanged, without any error.
type StubFeed struct {
	name       string
	normalizer *normalize.Normalizer
	fixtures   []rawQuote
}

type rawQuote struct {
	homeRaw, awayRaw    string
	home, away, draw float64
}

// NewStubFeed builds the default single-fixture stub: Manchester United at
// home to Tottenham Hotspur, entered under the dirty spellings a real feed
// would plausibly send.
func NewStubFeed(normalizer *normalize.Normalizer) *StubFeed {
	return &StubFeed{
		name:       "pinnacle-stub",
		normalizer: normalizer,
		fixtures: []rawQuote{
			{homeRaw: "Man Utd", awayRaw: "Spurs", home: 2.10, away: 3.20, draw: 3.50},
		},
	}
}

func (f *StubFeed) Name() string { return f.name }

func (f *StubFeed) FetchOdds(ctx context.Context) ([]domain.MarketQuote, error) {
	quotes := make([]domain.MarketQuote, 0, len(f.fixtures))
	for _, fx := range f.fixtures {
		home := f.normalizer.Standardize(fx.homeRaw)
		away := f.normalizer.Standardize(fx.awayRaw)
		quotes = append(quotes, domain.MarketQuote{
			Bookmaker: f.name,
			MatchID:   domain.MatchFingerprint(home, away),
			HomeTeam:  home,
			AwayTeam:  away,
			HomeOdds:  fx.home,
			AwayOdds:  fx.away,
			DrawOdds:  fx.draw,
		})
	}
	return quotes, nil
}

// NewArbitrageStubFeed builds a second stub feed, deliberately mispriced
// against NewStubFeed's board so the arbitrage scanner has something to
// find in local/demo environments. The two boards share a match_id only
// when the team mapping turns "Man Utd"/"Spurs" into these canonical names.
func NewArbitrageStubFeed(normalizer *normalize.Normalizer) *StubFeed {
	return &StubFeed{
		name:       "wildscraper-stub",
		normalizer: normalizer,
		fixtures: []rawQuote{
			{homeRaw: "Manchester United", awayRaw: "Tottenham Hotspur", home: 1.90, away: 3.55, draw: 3.50},
		},
	}
}
