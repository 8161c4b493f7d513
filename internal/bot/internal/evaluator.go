package internal

import (
	"konkan/internal/domain"
)

const (
	keepJoker    = 100.0
	keepCovered  = 60.0
	keepSameRank = 8.0
	keepNeighbor = 5.0
)

// HandShape caches per-hand analysis so candidate scoring does not rerun the
// cover search for every card.
type HandShape struct {
	Hand    domain.CardMask
	Cover   domain.CoverResult
	Covered domain.CardMask
}

// AnalyzeHand computes the hand's best point cover once for reuse.
func AnalyzeHand(hand domain.CardMask) HandShape {
	cover := domain.BestCover(hand, domain.MaxPoints, 0)
	return HandShape{
		Hand:    hand,
		Cover:   cover,
		Covered: cover.UsedMask(),
	}
}

// KeepValue scores how much a card is worth holding on to. Jokers outrank
// everything, cards inside the best cover come next, and loose cards are
// valued by how many meld partners they still have in hand.
func (s HandShape) KeepValue(card domain.CardID) float64 {
	if card.IsJoker() {
		return keepJoker
	}
	if s.Covered.Has(card) {
		return keepCovered + float64(card.Points())
	}

	info := domain.Decode(card)
	value := 0.0
	for _, other := range s.Hand.Cards() {
		if other == card {
			continue
		}
		oi := domain.Decode(other)
		if oi.IsJoker {
			continue
		}
		if oi.Rank == info.Rank && oi.Suit != info.Suit {
			value += keepSameRank
		}
		if oi.Suit == info.Suit {
			gap := oi.Rank - info.Rank
			if gap < 0 {
				gap = -gap
			}
			if gap >= 1 && gap <= 2 {
				value += keepNeighbor
			}
		}
	}
	return value
}
