package internal

import (
	"math/rand"

	"konkan/internal/domain"
)

const rewardScale = 150.0

// Rollout plays the game forward with the greedy policy for every seat and
// returns a reward in [-1, 1] from the given seat's perspective. Games that
// outlast maxTurns are scored by the standing position instead.
func Rollout(g *domain.Game, seat int, w PolicyWeights, rng *rand.Rand, maxTurns int) float64 {
	for turn := 0; turn < maxTurns && g.Phase == domain.PhasePlaying; turn++ {
		if !playGreedyTurn(g, g.Turn, w, rng) {
			break
		}
	}
	if g.Phase == domain.PhaseEnded {
		for _, score := range g.ScoreRound() {
			if score.Seat == seat {
				return clampReward(float64(score.NetPoints) / rewardScale)
			}
		}
	}
	return clampReward(standingValue(g, seat, w) / rewardScale)
}

// standingValue scores an unfinished game: points already laid plus the
// latent value of the hand's best cover, minus remaining deadwood. Seats
// that are already down collect the lay-down bonus since they can sarf and
// can no longer be caught with a full hand.
func standingValue(g *domain.Game, seat int, w PolicyWeights) float64 {
	player := g.Player(seat)
	if player == nil {
		return 0
	}
	cover := domain.BestCover(player.Hand, domain.MaxPoints, 0)
	deadwood := player.Hand.Points() - cover.TotalPoints
	value := float64(player.LaidPoints + cover.TotalPoints - deadwood)
	if player.HasComeDown {
		value += w.LayDownBonus
	}
	return value
}

func clampReward(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// playGreedyTurn runs one full draw-play-trash turn for the seat. Returns
// false when the turn cannot be completed, which ends the rollout.
func playGreedyTurn(g *domain.Game, seat int, w PolicyWeights, rng *rand.Rand) bool {
	if g.CanDrawFromTrash(seat) {
		if _, err := g.DrawFromTrash(seat); err != nil {
			return false
		}
	} else if _, err := g.DrawFromStock(seat, rng); err != nil {
		return false
	}

	player := g.Player(seat)
	if player.PendingSwap {
		if idx, replacement, ok := FindJokerSwap(g, seat); ok {
			_ = g.JokerSwap(seat, idx, replacement)
		}
	}
	if !player.HasComeDown {
		if reserve, ok := PickReserve(g, seat); ok {
			_, _ = g.LayDown(seat, reserve)
		}
	}
	if player.HasComeDown {
		for _, step := range GreedySarfs(g, seat) {
			if err := g.SarfCard(seat, step.MeldIndex, step.Card); err != nil {
				break
			}
		}
	}

	ranked := RankedDiscards(g, seat, w)
	if len(ranked) == 0 {
		return false
	}
	return g.TrashCard(seat, ranked[0].Card) == nil
}
