package bot

import (
	"errors"

	botinternal "konkan/internal/bot/internal"
	"konkan/internal/domain"
)

var errNoDiscard = errors.New("no discard available")

// planPlay assembles the common turn skeleton on a clone: resolve an armed
// Joker swap, come down when the threshold is reachable, sarf greedily, then
// delegate the closing discard to the strategy-specific picker. The picker
// sees the clone with every prior step already applied.
func planPlay(game *domain.Game, seat int, pick func(*domain.Game) (domain.CardID, bool)) (Play, error) {
	sim := game.Clone()
	player := sim.Player(seat)
	if player == nil {
		return Play{}, domain.ErrNotYourTurn
	}

	var play Play
	if player.PendingSwap {
		if idx, replacement, ok := botinternal.FindJokerSwap(sim, seat); ok {
			if err := sim.JokerSwap(seat, idx, replacement); err == nil {
				play.Swap = &SwapMove{MeldIndex: idx, Replacement: replacement}
			}
		}
	}
	if !player.HasComeDown {
		if reserve, ok := botinternal.PickReserve(sim, seat); ok {
			if _, err := sim.LayDown(seat, reserve); err == nil {
				play.LayDown = true
				play.Reserve = reserve
			}
		}
	}
	if player.HasComeDown {
		for _, step := range botinternal.GreedySarfs(sim, seat) {
			if err := sim.SarfCard(seat, step.MeldIndex, step.Card); err != nil {
				break
			}
			play.Sarfs = append(play.Sarfs, SarfMove{MeldIndex: step.MeldIndex, Card: step.Card})
		}
	}

	discard, ok := pick(sim)
	if !ok {
		return Play{}, errNoDiscard
	}
	play.Discard = discard
	return play, nil
}
