package domain

import "math/rand"

// NewDeck returns all 106 card ids in deterministic order: both copies of
// the four suits rank by rank, then the two printed Jokers.
func NewDeck() []CardID {
	deck := make([]CardID, 0, NumCards)
	for copyIdx := 0; copyIdx < 2; copyIdx++ {
		for suit := 0; suit < NumSuits; suit++ {
			for rank := 0; rank < NumRanks; rank++ {
				deck = append(deck, CardOf(suit, rank, copyIdx))
			}
		}
	}
	deck = append(deck, JokerLow, JokerHigh)
	return deck
}

// ShuffleDeck shuffles the deck in place using the provided source so deals
// stay reproducible under a seeded rng.
func ShuffleDeck(deck []CardID, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}
