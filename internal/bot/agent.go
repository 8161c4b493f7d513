package bot

import (
	"konkan/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// ChooseDraw asks the agent where to draw from for the given seat.
func (a *Agent) ChooseDraw(game *domain.Game, seat int) DrawSource {
	return a.Strategy.ChooseDraw(game, seat)
}

// ChoosePlay asks the agent for its full post-draw turn at the given seat.
func (a *Agent) ChoosePlay(game *domain.Game, seat int) (Play, error) {
	player := game.Player(seat)
	if player == nil || player.Hand.IsEmpty() {
		return Play{}, domain.ErrNotYourTurn
	}
	return a.Strategy.ChoosePlay(game, seat)
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event interface{}) {
	a.Strategy.OnEvent(event)
}
