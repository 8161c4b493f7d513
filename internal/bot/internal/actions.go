package internal

import (
	"sort"

	"konkan/internal/domain"
)

// ScoredDiscard pairs a discard candidate with its policy score.
type ScoredDiscard struct {
	Card  domain.CardID
	Score float64
}

// RankedDiscards scores every card in the seat's hand as a discard and
// returns them best-first. Ties break toward the higher card id so the
// ordering is deterministic.
func RankedDiscards(g *domain.Game, seat int, w PolicyWeights) []ScoredDiscard {
	player := g.Player(seat)
	if player == nil {
		return nil
	}
	shape := AnalyzeHand(player.Hand)
	demand := EstimateDemand(g, seat)
	ranked := make([]ScoredDiscard, 0, player.Hand.Count())
	for _, card := range player.Hand.Cards() {
		ranked = append(ranked, ScoredDiscard{
			Card:  card,
			Score: DiscardScore(g, seat, shape, demand, card, w),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Card > ranked[j].Card
	})
	return ranked
}

// PickReserve chooses the card to withhold from a come-down so a trash
// remains: the lowest keep-value card whose exclusion still clears the
// threshold.
func PickReserve(g *domain.Game, seat int) (domain.CardID, bool) {
	player := g.Player(seat)
	if player == nil {
		return 0, false
	}
	shape := AnalyzeHand(player.Hand)
	candidates := append([]domain.CardID(nil), player.Hand.Cards()...)
	sort.Slice(candidates, func(i, j int) bool {
		vi, vj := shape.KeepValue(candidates[i]), shape.KeepValue(candidates[j])
		if vi != vj {
			return vi < vj
		}
		return candidates[i] < candidates[j]
	})
	threshold := g.ComeDownThreshold()
	for _, reserve := range candidates {
		cover := domain.BestCover(player.Hand.Without(reserve), domain.MaxPoints, threshold)
		if cover.TotalPoints >= threshold {
			return reserve, true
		}
	}
	return 0, false
}

// SarfStep is one planned table addition.
type SarfStep struct {
	MeldIndex int
	Card      domain.CardID
}

// GreedySarfs plans every sarf the seat can make, applied against a clone so
// chained additions stay legal. The last hand card is never sarfed away
// because a trash must close the turn.
func GreedySarfs(g *domain.Game, seat int) []SarfStep {
	sim := g.Clone()
	player := sim.Player(seat)
	if player == nil || !player.HasComeDown {
		return nil
	}
	var steps []SarfStep
	for player.Hand.Count() > 1 {
		advanced := false
		for _, card := range player.Hand.Cards() {
			placed := false
			for idx := range sim.Table {
				if sim.CanSarfCard(seat, idx, card) {
					if err := sim.SarfCard(seat, idx, card); err != nil {
						continue
					}
					steps = append(steps, SarfStep{MeldIndex: idx, Card: card})
					placed = true
					break
				}
			}
			if placed {
				advanced = true
				break
			}
		}
		if !advanced {
			break
		}
	}
	return steps
}

// FindJokerSwap returns a legal (meld, replacement) pair for a seat with an
// armed swap obligation, or false when no table Joker can be claimed.
func FindJokerSwap(g *domain.Game, seat int) (int, domain.CardID, bool) {
	player := g.Player(seat)
	if player == nil || !player.PendingSwap {
		return 0, 0, false
	}
	for idx, tm := range g.Table {
		if tm.JokersUsed == 0 {
			continue
		}
		var joker domain.CardID
		found := false
		for _, id := range tm.Mask.Cards() {
			if id.IsJoker() {
				joker = id
				found = true
				break
			}
		}
		if !found {
			continue
		}
		for _, replacement := range player.Hand.Cards() {
			if replacement.IsJoker() {
				continue
			}
			if cardExtendsMeld(tm.Mask.Without(joker), replacement) {
				return idx, replacement, true
			}
		}
	}
	return 0, 0, false
}
