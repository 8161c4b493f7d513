package bot

import (
	"math/rand"

	botinternal "konkan/internal/bot/internal"
	"konkan/internal/domain"
)

// SearchBot keeps SmartBot's draw and sarf behaviour but chooses its
// discard with determinized simulations: the hidden cards are redealt per
// sample and each candidate discard is played out with the greedy policy.
type SearchBot struct {
	SmartBot
	Config botinternal.SearchConfig
	Rng    *rand.Rand
}

func (b *SearchBot) ChoosePlay(game *domain.Game, seat int) (Play, error) {
	return planPlay(game, seat, func(sim *domain.Game) (domain.CardID, bool) {
		if card, ok := botinternal.SearchDiscard(sim, seat, b.Config, DefaultTuning, b.Rng); ok {
			return card, true
		}
		ranked := botinternal.RankedDiscards(sim, seat, DefaultTuning)
		if len(ranked) == 0 {
			return 0, false
		}
		return ranked[0].Card, true
	})
}
