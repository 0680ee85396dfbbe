package provider

import (
	"context"
	"testing"

	"github.com/attaboy/shadowbook/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubFeed_NormalizesDirtyFixtureNames(t *testing.T) {
	n := normalize.New(map[string]string{"Man Utd": "Manchester United", "Spurs": "Tottenham Hotspur"}, 0)
	feed := NewStubFeed(n)

	quotes, err := feed.FetchOdds(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Manchester United", quotes[0].HomeTeam)
	assert.Equal(t, "Tottenham Hotspur", quotes[0].AwayTeam)
}

func TestArbitrageStubFeed_DisagreesWithPrimaryStub(t *testing.T) {
	n := normalize.New(nil, 0)
	primary := NewStubFeed(n)
	secondary := NewArbitrageStubFeed(n)

	pq, err := primary.FetchOdds(context.Background())
	require.NoError(t, err)
	sq, err := secondary.FetchOdds(context.Background())
	require.NoError(t, err)

	require.Len(t, pq, 1)
	require.Len(t, sq, 1)

	bestHome := pq[0].HomeOdds
	if sq[0].HomeOdds > bestHome {
		bestHome = sq[0].HomeOdds
	}
	bestAway := pq[0].AwayOdds
	if sq[0].AwayOdds > bestAway {
		bestAway = sq[0].AwayOdds
	}
	margin := 1.0/bestHome + 1.0/bestAway
	assert.Less(t, margin, 1.0, "the two stub feeds should disagree enough to expose an arbitrage margin")
}
