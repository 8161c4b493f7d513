package internal

import (
	"konkan/internal/domain"
)

// cardExtendsMeld reports whether adding the card to the meld mask still
// forms a single legal meld over exactly the extended membership.
func cardExtendsMeld(mask domain.CardMask, card domain.CardID) bool {
	union := mask.With(card)
	for _, m := range domain.EnumerateMelds(union) {
		if m.Mask == union {
			return true
		}
	}
	return false
}

// CardEnablesSarf reports whether the card fits onto any meld currently on
// the table.
func CardEnablesSarf(g *domain.Game, card domain.CardID) bool {
	for _, tm := range g.Table {
		if cardExtendsMeld(tm.Mask, card) {
			return true
		}
	}
	return false
}

// DiscardFeedsNextPlayer reports whether trashing the card hands the next
// seat a free sarf: the next player is down and the card extends a table
// meld they can reach.
func DiscardFeedsNextPlayer(g *domain.Game, seat int, card domain.CardID) bool {
	next := g.Player((seat + 1) % len(g.Players))
	if next == nil || !next.HasComeDown {
		return false
	}
	return CardEnablesSarf(g, card)
}
