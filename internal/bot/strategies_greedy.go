package bot

import (
	botinternal "konkan/internal/bot/internal"
	"konkan/internal/domain"
)

// GreedyBot plays the obvious move: it takes trash only when the card slots
// straight into a meld, comes down as soon as it can, sarfs everything and
// dumps its most expensive loose card.
type GreedyBot struct{}

func (b *GreedyBot) ChooseDraw(game *domain.Game, seat int) DrawSource {
	if !game.CanDrawFromTrash(seat) {
		return DrawStock
	}
	player := game.Player(seat)
	top := domain.CardID(game.TopTrash())
	before := domain.BestCover(player.Hand, domain.MaxCoverage, 0)
	after := domain.BestCover(player.Hand.With(top), domain.MaxCoverage, 0)
	if after.CoveredCards > before.CoveredCards {
		return DrawTrash
	}
	return DrawStock
}

func (b *GreedyBot) ChoosePlay(game *domain.Game, seat int) (Play, error) {
	return planPlay(game, seat, func(sim *domain.Game) (domain.CardID, bool) {
		player := sim.Player(seat)
		shape := botinternal.AnalyzeHand(player.Hand)

		// Most expensive card outside the best cover; any card if the
		// whole hand melds.
		var pick domain.CardID
		best := -1
		for _, card := range player.Hand.Cards() {
			if shape.Covered.Has(card) || card.IsJoker() {
				continue
			}
			if pts := card.Points(); pts > best {
				best = pts
				pick = card
			}
		}
		if best >= 0 {
			return pick, true
		}
		cards := player.Hand.Cards()
		if len(cards) == 0 {
			return 0, false
		}
		return cards[0], true
	})
}

func (b *GreedyBot) OnEvent(event interface{}) {}
