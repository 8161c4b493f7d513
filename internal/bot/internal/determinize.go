package internal

import (
	"math/rand"

	"konkan/internal/domain"
)

// SampleWorld builds one determinization of the hidden state as seen from a
// seat: opponent hands and the stock are redealt from the pool of unseen
// cards, while the seat's own hand, the table and the trash stay fixed.
func SampleWorld(g *domain.Game, seat int, rng *rand.Rand) *domain.Game {
	world := g.Clone()

	seen := world.Player(seat).Hand.Union(world.TableMasks())
	for _, card := range world.TrashPile {
		seen = seen.With(card)
	}

	unseen := make([]domain.CardID, 0, domain.NumCards)
	for id := 0; id < domain.NumCards; id++ {
		if !seen.Has(domain.CardID(id)) {
			unseen = append(unseen, domain.CardID(id))
		}
	}
	rng.Shuffle(len(unseen), func(i, j int) { unseen[i], unseen[j] = unseen[j], unseen[i] })

	idx := 0
	for s, p := range world.Players {
		if s == seat {
			continue
		}
		count := p.Hand.Count()
		p.Hand = domain.CardMask{}
		for i := 0; i < count && idx < len(unseen); i++ {
			p.Hand = p.Hand.With(unseen[idx])
			idx++
		}
	}
	world.DrawPile = append(world.DrawPile[:0], unseen[idx:]...)
	return world
}
