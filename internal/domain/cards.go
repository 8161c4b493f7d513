package domain

import "fmt"

// The Konkan deck is two full 52-card decks plus two printed Jokers: 106
// physical slots with fixed identifiers. Slots 0-51 are copy 0, 52-103 are
// copy 1, and 104/105 are the Jokers. Within a copy, cards are grouped by
// suit and ordered by rank, so id = copy*52 + suit*13 + rank.
const (
	NumRanks      = 13
	NumSuits      = 4
	NumCards      = 106
	MaxMeldJokers = 2

	JokerLow  CardID = 104
	JokerHigh CardID = 105
)

// Suit indexes. Jokers have no suit.
const (
	SuitSpades = iota
	SuitHearts
	SuitDiamonds
	SuitClubs
)

// Rank indexes. Ace is 0 and may sit before the 2 or after the King in a run.
const (
	RankAce = iota
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
)

// rankPoints maps a rank index to its point value: Ace, 10 and faces are
// worth 10, pip cards their face value.
var rankPoints = [NumRanks]int{10, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10}

var rankNames = [NumRanks]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
var suitNames = [NumSuits]string{"S", "H", "D", "C"}

// CardID identifies one of the 106 physical card slots.
type CardID uint8

// CardInfo holds the decoded static attributes of a card slot.
type CardInfo struct {
	ID      CardID
	Rank    int // -1 for Jokers
	Suit    int // -1 for Jokers
	Copy    int // 0 or 1 duplicate index; -1 for Jokers
	IsJoker bool
}

// CardOf encodes (suit, rank, copy) into a card identifier.
func CardOf(suit, rank, copyIdx int) CardID {
	return CardID(copyIdx*52 + suit*13 + rank)
}

// Decode returns the static attributes for any id in 0..105. Encoding is
// total: every id decodes, Jokers included.
func Decode(id CardID) CardInfo {
	if id >= JokerLow {
		return CardInfo{ID: id, Rank: -1, Suit: -1, Copy: -1, IsJoker: true}
	}
	copyIdx := int(id) / 52
	base := int(id) - copyIdx*52
	return CardInfo{
		ID:   id,
		Rank: base % 13,
		Suit: base / 13,
		Copy: copyIdx,
	}
}

// PointsForRank returns the scoring value of a rank index.
func PointsForRank(rank int) int {
	return rankPoints[rank]
}

// Points returns the static point value of a card. Jokers score zero here;
// their value only exists inside a meld, where they count as the rank they
// substitute.
func (id CardID) Points() int {
	info := Decode(id)
	if info.IsJoker {
		return 0
	}
	return rankPoints[info.Rank]
}

// IsJoker reports whether the id names one of the two printed Jokers.
func (id CardID) IsJoker() bool {
	return id >= JokerLow
}

// String renders a short human-readable label such as "10H#1" or "JOKER#0".
func (id CardID) String() string {
	info := Decode(id)
	if info.IsJoker {
		return fmt.Sprintf("JOKER#%d", int(id-JokerLow))
	}
	return fmt.Sprintf("%s%s#%d", rankNames[info.Rank], suitNames[info.Suit], info.Copy)
}
