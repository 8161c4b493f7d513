package domain

import (
	"testing"
)

func maskSet(melds []Meld) map[CardMask]Meld {
	out := make(map[CardMask]Meld, len(melds))
	for _, m := range melds {
		out[m.Mask] = m
	}
	return out
}

func TestDecodeRoundTrip(t *testing.T) {
	seen := make(map[CardID]bool)
	for copyIdx := 0; copyIdx < 2; copyIdx++ {
		for suit := 0; suit < NumSuits; suit++ {
			for rank := 0; rank < NumRanks; rank++ {
				id := CardOf(suit, rank, copyIdx)
				if seen[id] {
					t.Fatalf("duplicate id %d for %d/%d/%d", id, suit, rank, copyIdx)
				}
				seen[id] = true
				info := Decode(id)
				if info.Suit != suit || info.Rank != rank || info.Copy != copyIdx || info.IsJoker {
					t.Errorf("Decode(%d) = %+v, want suit=%d rank=%d copy=%d", id, info, suit, rank, copyIdx)
				}
			}
		}
	}
	for _, id := range []CardID{JokerLow, JokerHigh} {
		if !Decode(id).IsJoker {
			t.Errorf("Decode(%d) should be a joker", id)
		}
	}
	if len(seen) != 104 {
		t.Errorf("expected 104 distinct standard ids, got %d", len(seen))
	}
}

func TestPointValues(t *testing.T) {
	tests := []struct {
		rank   int
		points int
	}{
		{RankAce, 10},
		{RankTwo, 2},
		{RankNine, 9},
		{RankTen, 10},
		{RankJack, 10},
		{RankQueen, 10},
		{RankKing, 10},
	}
	for _, tt := range tests {
		if got := PointsForRank(tt.rank); got != tt.points {
			t.Errorf("PointsForRank(%d) = %d, want %d", tt.rank, got, tt.points)
		}
	}
	if JokerLow.Points() != 0 || JokerHigh.Points() != 0 {
		t.Error("jokers must have no static point value")
	}
}

func TestEnumerateSimpleRun(t *testing.T) {
	// Ace-2-3 of hearts and nothing else: exactly one meld.
	hand := MaskOf(
		CardOf(SuitHearts, RankAce, 0),
		CardOf(SuitHearts, RankTwo, 0),
		CardOf(SuitHearts, RankThree, 0),
	)
	melds := EnumerateMelds(hand)
	if len(melds) != 1 {
		t.Fatalf("expected exactly one meld, got %d: %v", len(melds), melds)
	}
	m := melds[0]
	if m.Kind != MeldRun {
		t.Errorf("kind = %v, want RUN", m.Kind)
	}
	if m.Points != 15 {
		t.Errorf("points = %d, want 15 (10+2+3)", m.Points)
	}
	if m.JokersUsed != 0 {
		t.Errorf("jokers_used = %d, want 0", m.JokersUsed)
	}
	if m.Mask != hand {
		t.Errorf("mask = %v, want full hand", m.Mask)
	}
}

func TestEnumerateSets(t *testing.T) {
	three := MaskOf(
		CardOf(SuitSpades, RankSeven, 0),
		CardOf(SuitDiamonds, RankSeven, 0),
		CardOf(SuitClubs, RankSeven, 0),
	)
	melds := EnumerateMelds(three)
	if len(melds) != 1 {
		t.Fatalf("expected one meld for three sevens, got %d", len(melds))
	}
	if melds[0].Kind != MeldSet || melds[0].Points != 21 {
		t.Errorf("got %+v, want SET worth 21", melds[0])
	}

	// Adding the fourth suit keeps the 3-card variants and adds the 4-card set.
	four := three.With(CardOf(SuitHearts, RankSeven, 0))
	melds = EnumerateMelds(four)
	byMask := maskSet(melds)
	if m, ok := byMask[three]; !ok {
		t.Error("3-card sub-set should remain enumerable")
	} else if m.Points != 21 {
		t.Errorf("3-card set points = %d, want 21", m.Points)
	}
	if m, ok := byMask[four]; !ok {
		t.Error("4-card set should be enumerated")
	} else if m.Points != 28 {
		t.Errorf("4-card set points = %d, want 28", m.Points)
	}
	// Four suits give C(4,3)=4 three-card variants plus the four-card set.
	if len(melds) != 5 {
		t.Errorf("expected 5 melds, got %d: %v", len(melds), melds)
	}
}

func TestEnumerateSetRejectsDuplicateSuit(t *testing.T) {
	// Two physical copies of 7S plus 7D: no valid set (suits must be
	// pairwise distinct), no run (same rank).
	hand := MaskOf(
		CardOf(SuitSpades, RankSeven, 0),
		CardOf(SuitSpades, RankSeven, 1),
		CardOf(SuitDiamonds, RankSeven, 0),
	)
	if melds := EnumerateMelds(hand); len(melds) != 0 {
		t.Errorf("expected no melds, got %v", melds)
	}
}

func TestEnumerateJokerSet(t *testing.T) {
	hand := MaskOf(
		CardOf(SuitSpades, RankSeven, 0),
		CardOf(SuitDiamonds, RankSeven, 0),
		JokerLow,
	)
	melds := EnumerateMelds(hand)
	var found bool
	for _, m := range melds {
		if m.Kind == MeldSet && m.Mask == hand {
			found = true
			if m.JokersUsed != 1 {
				t.Errorf("jokers_used = %d, want 1", m.JokersUsed)
			}
			if m.Points != 21 {
				t.Errorf("points = %d, want 21 (joker counts as a seven)", m.Points)
			}
		}
	}
	if !found {
		t.Fatalf("expected a joker-completed set, got %v", melds)
	}
}

func TestEnumerateJokerRunBindings(t *testing.T) {
	// 5H 6H + joker: one mask, many possible bindings (4-5-6, 5-6-7, joker
	// inside is impossible here). Dedupe must keep the best-points binding:
	// joker as the 7 gives 5+6+7=18 over 4+5+6=15.
	hand := MaskOf(
		CardOf(SuitHearts, RankFive, 0),
		CardOf(SuitHearts, RankSix, 0),
		JokerLow,
	)
	melds := EnumerateMelds(hand)
	if len(melds) != 1 {
		t.Fatalf("expected one deduplicated meld, got %d: %v", len(melds), melds)
	}
	m := melds[0]
	if m.Kind != MeldRun || m.JokersUsed != 1 {
		t.Errorf("got %+v, want RUN with one joker", m)
	}
	if m.Points != 18 {
		t.Errorf("points = %d, want 18 (joker bound to the seven)", m.Points)
	}
}

func TestEnumerateJokerBridgesGap(t *testing.T) {
	hand := MaskOf(
		CardOf(SuitClubs, RankNine, 0),
		CardOf(SuitClubs, RankJack, 0),
		JokerHigh,
	)
	melds := EnumerateMelds(hand)
	if len(melds) != 1 {
		t.Fatalf("expected one meld (9-J-joker bridging the 10), got %v", melds)
	}
	if m := melds[0]; m.Kind != MeldRun || m.Points != 29 {
		t.Errorf("got %+v, want RUN worth 9+10+10", m)
	}
}

func TestEnumerateAceHighRun(t *testing.T) {
	hand := MaskOf(
		CardOf(SuitSpades, RankQueen, 0),
		CardOf(SuitSpades, RankKing, 0),
		CardOf(SuitSpades, RankAce, 0),
	)
	melds := EnumerateMelds(hand)
	if len(melds) != 1 {
		t.Fatalf("expected one Q-K-A run, got %v", melds)
	}
	if m := melds[0]; m.Kind != MeldRun || m.Points != 30 {
		t.Errorf("got %+v, want RUN worth 30", m)
	}
}

func TestEnumerateNoWrapAround(t *testing.T) {
	// K-A-2 is not a run: the Ace sits at one end or the other, never in
	// the middle of a wrap.
	hand := MaskOf(
		CardOf(SuitSpades, RankKing, 0),
		CardOf(SuitSpades, RankAce, 0),
		CardOf(SuitSpades, RankTwo, 0),
	)
	if melds := EnumerateMelds(hand); len(melds) != 0 {
		t.Errorf("K-A-2 must not form a meld, got %v", melds)
	}
}

func TestEnumerateEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		hand CardMask
	}{
		{"empty hand", CardMask{}},
		{"two cards", MaskOf(CardOf(SuitHearts, RankAce, 0), CardOf(SuitHearts, RankTwo, 0))},
		{"only jokers", MaskOf(JokerLow, JokerHigh)},
		{"isolated ranks", MaskOf(
			CardOf(SuitSpades, RankTwo, 0),
			CardOf(SuitHearts, RankFive, 0),
			CardOf(SuitDiamonds, RankNine, 0),
			CardOf(SuitClubs, RankKing, 0),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if melds := EnumerateMelds(tt.hand); len(melds) != 0 {
				t.Errorf("expected no melds, got %v", melds)
			}
		})
	}
}

func TestEnumerateContainmentAndUniqueness(t *testing.T) {
	hand := MaskOf(
		CardOf(SuitHearts, RankAce, 0),
		CardOf(SuitHearts, RankTwo, 0),
		CardOf(SuitHearts, RankThree, 0),
		CardOf(SuitHearts, RankFour, 0),
		CardOf(SuitHearts, RankThree, 1),
		CardOf(SuitSpades, RankThree, 0),
		CardOf(SuitDiamonds, RankThree, 0),
		JokerLow,
	)
	melds := EnumerateMelds(hand)
	seen := make(map[CardMask]bool)
	for _, m := range melds {
		if !hand.ContainsAll(m.Mask) {
			t.Errorf("meld %v not contained in hand", m.Mask)
		}
		if seen[m.Mask] {
			t.Errorf("duplicate meld mask %v", m.Mask)
		}
		seen[m.Mask] = true
		if m.Mask.Count() < 3 {
			t.Errorf("meld %v shorter than 3 cards", m.Mask)
		}
	}
}

func TestEnumerateDuplicateCopiesInRuns(t *testing.T) {
	// Both physical copies of 2H can each anchor a separate A-2-3 run
	// candidate with distinct masks.
	hand := MaskOf(
		CardOf(SuitHearts, RankAce, 0),
		CardOf(SuitHearts, RankTwo, 0),
		CardOf(SuitHearts, RankTwo, 1),
		CardOf(SuitHearts, RankThree, 0),
	)
	melds := EnumerateMelds(hand)
	runs := 0
	for _, m := range melds {
		if m.Kind == MeldRun && m.Mask.Count() == 3 {
			runs++
		}
	}
	if runs != 2 {
		t.Errorf("expected 2 three-card run variants (one per copy of 2H), got %d", runs)
	}
}

func TestEnumerateDeterministicOrder(t *testing.T) {
	hand := MaskOf(
		CardOf(SuitSpades, RankSeven, 0),
		CardOf(SuitDiamonds, RankSeven, 0),
		CardOf(SuitClubs, RankSeven, 0),
		CardOf(SuitHearts, RankSeven, 0),
		CardOf(SuitHearts, RankEight, 0),
		CardOf(SuitHearts, RankNine, 0),
		JokerLow,
	)
	first := EnumerateMelds(hand)
	second := EnumerateMelds(hand)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("meld %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSetInvariantDistinctSuits(t *testing.T) {
	hand := MaskOf(
		CardOf(SuitSpades, RankKing, 0),
		CardOf(SuitSpades, RankKing, 1),
		CardOf(SuitHearts, RankKing, 0),
		CardOf(SuitDiamonds, RankKing, 0),
		CardOf(SuitClubs, RankKing, 0),
	)
	for _, m := range EnumerateMelds(hand) {
		if m.Kind != MeldSet {
			continue
		}
		suits := make(map[int]bool)
		for _, id := range m.Mask.Cards() {
			info := Decode(id)
			if info.IsJoker {
				continue
			}
			if suits[info.Suit] {
				t.Errorf("set %v repeats suit %d", m.Mask, info.Suit)
			}
			suits[info.Suit] = true
		}
	}
}
