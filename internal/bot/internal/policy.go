package internal

import (
	"konkan/internal/domain"
)

// PolicyWeights tune the heuristic discard policy shared by the leveled
// strategies and the search rollouts.
type PolicyWeights struct {
	DeadwoodWeight  float64
	SynergyWeight   float64
	FeedSarfPenalty float64
	JokerPenalty    float64
	LayDownBonus    float64
	// TrashDrawMargin is the keep-value a trash card must clear before a
	// bot prefers it over the blind stock draw.
	TrashDrawMargin float64
}

// DiscardScore rates trashing one card: shedding points is good, breaking
// up synergy is bad, and feeding the next player or giving up a Joker is
// heavily punished. The demand estimate sharpens both ends: opponents close
// to coming down make deadwood more urgent to shed, and a table full of
// melds raises the price of a feeding discard.
func DiscardScore(g *domain.Game, seat int, shape HandShape, demand DemandEstimate, card domain.CardID, w PolicyWeights) float64 {
	score := float64(card.Points()) * w.DeadwoodWeight * (1 + demand.ComeDownRisk)
	score -= shape.KeepValue(card) * w.SynergyWeight
	if card.IsJoker() {
		score -= w.JokerPenalty
	}
	if DiscardFeedsNextPlayer(g, seat, card) {
		score -= w.FeedSarfPenalty * demand.SarfRisk * (1 + demand.ExposurePressure)
	}
	return score
}
