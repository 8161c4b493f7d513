package internal

import (
	"math/rand"

	"konkan/internal/domain"
)

// SearchConfig sizes the determinized discard search.
type SearchConfig struct {
	Simulations int
	Exploration float64
	MaxArms     int
	MaxDepth    int
}

// DefaultSearchConfig matches a server-side per-turn budget of a few dozen
// milliseconds on a three-seat table.
var DefaultSearchConfig = SearchConfig{
	Simulations: 64,
	Exploration: 1.2,
	MaxArms:     8,
	MaxDepth:    12,
}

// SearchDiscard runs information-set sampling over the discard decision:
// each simulation redeals the hidden cards, commits one candidate discard
// and plays the rest of the round with the greedy policy. Returns false
// when the seat has nothing to discard.
func SearchDiscard(g *domain.Game, seat int, cfg SearchConfig, w PolicyWeights, rng *rand.Rand) (domain.CardID, bool) {
	ranked := RankedDiscards(g, seat, w)
	if len(ranked) == 0 {
		return 0, false
	}
	if len(ranked) == 1 {
		return ranked[0].Card, true
	}

	tree := newRoot(ranked, cfg.MaxArms)
	for i := 0; i < cfg.Simulations; i++ {
		arm := tree.selectChild(cfg.Exploration)
		world := SampleWorld(g, seat, rng)
		if err := world.TrashCard(seat, arm.card); err != nil {
			tree.update(arm, -1)
			continue
		}
		reward := Rollout(world, seat, w, rng, cfg.MaxDepth)
		tree.update(arm, reward)
	}
	return tree.bestChild().card, true
}
