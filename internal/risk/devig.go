// Package risk implements the devig/EV calculator (C6) and the decision
// state machine (C7) described in SPEC_FULL.md §4.4-§4.5.
package risk

import "github.com/attaboy/shadowbook/internal/domain"

// TrueProbability recovers the fair (vig-free) probability of a selection
// from a three-way market quote by proportional margin removal:
// true_p(s) = p_s / M, where M is the market's overround.
func TrueProbability(q domain.MarketQuote, s domain.Selection) float64 {
	pHome := 1.0 / q.HomeOdds
	pAway := 1.0 / q.AwayOdds
	pDraw := 0.0
	if q.DrawOdds > 0 {
		pDraw = 1.0 / q.DrawOdds
	}
	margin := pHome + pAway + pDraw
	if margin == 0 {
		return 0
	}
	switch s {
	case domain.SelectionHome:
		return pHome / margin
	case domain.SelectionAway:
		return pAway / margin
	case domain.SelectionDraw:
		return pDraw / margin
	default:
		return 0
	}
}

// HouseEV is the house's expected value against a combined true probability
// and the customer's total offered odds: 1 - combinedTrueProb * totalOdds.
// Positive means the house expects to profit over time.
func HouseEV(combinedTrueProb, totalOdds float64) float64 {
	return 1.0 - combinedTrueProb*totalOdds
}
