package bot

import (
	botinternal "konkan/internal/bot/internal"
	"konkan/internal/domain"
)

// SmartBot layers the tuned discard policy and table-demand awareness on
// top of the greedy skeleton.
type SmartBot struct{}

func (b *SmartBot) ChooseDraw(game *domain.Game, seat int) DrawSource {
	if !game.CanDrawFromTrash(seat) {
		return DrawStock
	}
	player := game.Player(seat)
	top := domain.CardID(game.TopTrash())

	shape := botinternal.AnalyzeHand(player.Hand.With(top))
	if shape.Covered.Has(top) {
		return DrawTrash
	}
	if player.HasComeDown && botinternal.CardEnablesSarf(game, top) {
		return DrawTrash
	}
	if shape.KeepValue(top) >= DefaultTuning.TrashDrawMargin {
		return DrawTrash
	}
	return DrawStock
}

func (b *SmartBot) ChoosePlay(game *domain.Game, seat int) (Play, error) {
	return planPlay(game, seat, func(sim *domain.Game) (domain.CardID, bool) {
		ranked := botinternal.RankedDiscards(sim, seat, DefaultTuning)
		if len(ranked) == 0 {
			return 0, false
		}
		return ranked[0].Card, true
	})
}

func (b *SmartBot) OnEvent(event interface{}) {}
