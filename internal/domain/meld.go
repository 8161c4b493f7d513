package domain

import "sort"

// MeldKind discriminates the two legal meld shapes.
type MeldKind uint8

const (
	MeldSet MeldKind = iota
	MeldRun
)

func (k MeldKind) String() string {
	if k == MeldRun {
		return "RUN"
	}
	return "SET"
}

// Meld is an immutable candidate or chosen grouping of 3-4 card slots. Mask
// holds exactly the member slots. Points counts Jokers at the value of the
// position they substitute.
type Meld struct {
	Mask       CardMask
	Kind       MeldKind
	Points     int
	JokersUsed int
}

// Run positions span 0..13: position 0 is the low Ace (before the 2),
// positions 1..12 are ranks 2..K, and position 13 is the high Ace (after the
// King). A single run never uses both Ace ends, so ranks never wrap.
const numRunPositions = NumRanks + 1

func rankAtPosition(pos int) int {
	if pos == numRunPositions-1 {
		return RankAce
	}
	return pos
}

// meldCollector accumulates candidates and deduplicates them by member mask.
// When two Joker bindings produce the same member mask (a Joker closing a run
// on either side, or a mask viable as both SET and RUN) the higher-points
// binding wins.
type meldCollector struct {
	index map[CardMask]int
	melds []Meld
}

func newMeldCollector() *meldCollector {
	return &meldCollector{index: make(map[CardMask]int)}
}

func (c *meldCollector) add(m Meld) {
	if i, ok := c.index[m.Mask]; ok {
		if m.Points > c.melds[i].Points {
			c.melds[i] = m
		}
		return
	}
	c.index[m.Mask] = len(c.melds)
	c.melds = append(c.melds, m)
}

// EnumerateMelds returns every legal meld fully containable in the hand:
// all length>=3 contiguous sub-runs per suit and all 3- and 4-card same-rank
// sets with pairwise-distinct suits, with Jokers substituting for up to two
// missing positions per candidate. Jokers in the hand are treated as free
// wildcards per candidate; disjointness across melds is the cover search's
// concern. The result has no duplicate member masks and a stable order for a
// given input. Pure function: no state survives the call.
func EnumerateMelds(hand CardMask) []Meld {
	var naturals []CardInfo
	var jokers []CardID
	for _, id := range hand.Cards() {
		info := Decode(id)
		if info.IsJoker {
			jokers = append(jokers, id)
		} else {
			naturals = append(naturals, info)
		}
	}

	// A meld needs at least one natural anchor: a pure-Joker group has no
	// determinable rank, suit, or point value.
	if len(naturals) == 0 {
		return nil
	}

	collector := newMeldCollector()
	enumerateSets(naturals, jokers, collector)
	enumerateRuns(naturals, jokers, collector)

	melds := collector.melds
	sort.Slice(melds, func(i, j int) bool {
		a, b := melds[i], melds[j]
		if a.Mask != b.Mask {
			return a.Mask.Less(b.Mask)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.JokersUsed != b.JokersUsed {
			return a.JokersUsed < b.JokersUsed
		}
		return a.Points < b.Points
	})
	return melds
}

// enumerateSets emits all same-rank combinations of 3 or 4 distinct suits.
// Duplicate physical copies expand combinatorially, but a set never holds two
// copies of the same suit.
func enumerateSets(naturals []CardInfo, jokers []CardID, collector *meldCollector) {
	var byRankSuit [NumRanks][NumSuits][]CardID
	for _, info := range naturals {
		byRankSuit[info.Rank][info.Suit] = append(byRankSuit[info.Rank][info.Suit], info.ID)
	}

	for rank := 0; rank < NumRanks; rank++ {
		for targetSize := 3; targetSize <= 4; targetSize++ {
			for suitSubset := 1; suitSubset < 1<<NumSuits; suitSubset++ {
				naturalCount := popcount4(suitSubset)
				if naturalCount > targetSize {
					continue
				}
				jokersNeeded := targetSize - naturalCount
				if jokersNeeded > len(jokers) || jokersNeeded > MaxMeldJokers {
					continue
				}

				var suitLists [][]CardID
				valid := true
				for suit := 0; suit < NumSuits; suit++ {
					if suitSubset&(1<<suit) == 0 {
						continue
					}
					if len(byRankSuit[rank][suit]) == 0 {
						valid = false
						break
					}
					suitLists = append(suitLists, byRankSuit[rank][suit])
				}
				if !valid {
					continue
				}

				points := PointsForRank(rank) * targetSize
				forEachPick(suitLists, func(picked []CardID) {
					forEachJokerCombo(jokers, jokersNeeded, func(jokerPick []CardID) {
						mask := MaskOf(picked...)
						for _, j := range jokerPick {
							mask = mask.With(j)
						}
						collector.add(Meld{
							Mask:       mask,
							Kind:       MeldSet,
							Points:     points,
							JokersUsed: jokersNeeded,
						})
					})
				})
			}
		}
	}
}

// enumerateRuns walks each suit's position axis depth-first, extending the
// current sequence with either a physical card of the next rank (each copy
// separately) or an unused Joker, and records every >=3-length prefix.
func enumerateRuns(naturals []CardInfo, jokers []CardID, collector *meldCollector) {
	var bySuitPos [NumSuits][numRunPositions][]CardID
	for _, info := range naturals {
		bySuitPos[info.Suit][info.Rank] = append(bySuitPos[info.Suit][info.Rank], info.ID)
		if info.Rank == RankAce {
			bySuitPos[info.Suit][numRunPositions-1] = append(bySuitPos[info.Suit][numRunPositions-1], info.ID)
		}
	}

	for suit := 0; suit < NumSuits; suit++ {
		for start := 0; start < numRunPositions; start++ {
			// Runs starting at the low Ace stop before the high Ace slot so
			// the same sequence never holds both Ace ends.
			limit := numRunPositions
			if start == 0 {
				limit = numRunPositions - 1
			}
			walk := runWalker{
				positions: &bySuitPos[suit],
				jokers:    jokers,
				limit:     limit,
				collector: collector,
			}
			walk.extend(start, runState{})
		}
	}
}

type runState struct {
	mask     CardMask
	points   int
	length   int
	naturals int
	jokerUse int
}

type runWalker struct {
	positions *[numRunPositions][]CardID
	jokers    []CardID
	limit     int
	collector *meldCollector
}

func (w *runWalker) extend(pos int, state runState) {
	if pos >= w.limit {
		return
	}
	posPoints := PointsForRank(rankAtPosition(pos))

	step := func(next runState) {
		if next.length >= 3 && next.naturals >= 1 {
			w.collector.add(Meld{
				Mask:       next.mask,
				Kind:       MeldRun,
				Points:     next.points,
				JokersUsed: next.jokerUse,
			})
		}
		w.extend(pos+1, next)
	}

	for _, id := range w.positions[pos] {
		// An Ace listed at both ends can still only occupy one of them;
		// the position limit guarantees no overlap inside one sequence.
		next := state
		next.mask = next.mask.With(id)
		next.points += posPoints
		next.length++
		next.naturals++
		step(next)
	}

	if state.jokerUse < MaxMeldJokers {
		for _, joker := range w.jokers {
			if state.mask.Has(joker) {
				continue
			}
			next := state
			next.mask = next.mask.With(joker)
			next.points += posPoints
			next.length++
			next.jokerUse++
			step(next)
		}
	}
}

// forEachPick invokes fn with one card chosen from each list, covering the
// full cartesian product of duplicate copies.
func forEachPick(lists [][]CardID, fn func([]CardID)) {
	picked := make([]CardID, len(lists))
	var recurse func(depth int)
	recurse = func(depth int) {
		if depth == len(lists) {
			fn(picked)
			return
		}
		for _, id := range lists[depth] {
			picked[depth] = id
			recurse(depth + 1)
		}
	}
	recurse(0)
}

// forEachJokerCombo invokes fn with each k-subset of the Joker ids in
// ascending order.
func forEachJokerCombo(jokers []CardID, k int, fn func([]CardID)) {
	if k == 0 {
		fn(nil)
		return
	}
	if len(jokers) < k {
		return
	}
	picked := make([]CardID, 0, k)
	var recurse func(start int)
	recurse = func(start int) {
		if len(picked) == k {
			fn(picked)
			return
		}
		for i := start; i < len(jokers); i++ {
			picked = append(picked, jokers[i])
			recurse(i + 1)
			picked = picked[:len(picked)-1]
		}
	}
	recurse(0)
}

func popcount4(v int) int {
	count := 0
	for v != 0 {
		v &= v - 1
		count++
	}
	return count
}
