package domain

// Objective selects what a best-cover search maximizes.
type Objective uint8

const (
	// MaxPoints maximizes total meld points; used for come-down eligibility
	// and trash pickup ranking.
	MaxPoints Objective = iota
	// MaxCoverage maximizes covered card count with points as tie-break;
	// used for go-out checks and the sarf endgame.
	MaxCoverage
)

// CoverResult reports an optimal disjoint meld selection. The zero value is
// the "no feasible cover" answer: callers branch on CoveredCards or
// TotalPoints, never on an error.
type CoverResult struct {
	Melds        []Meld
	CoveredCards int
	TotalPoints  int
	UsedJokers   int
}

// UsedMask returns the union of the chosen melds' member masks.
func (r CoverResult) UsedMask() CardMask {
	var m CardMask
	for _, meld := range r.Melds {
		m = m.Union(meld.Mask)
	}
	return m
}

// BestCover searches disjoint combinations of the hand's candidate melds for
// an optimal cover under the objective. The threshold is a feasibility gate
// interpreted by the caller: the best cover found is always returned, whether
// or not it reaches the threshold. Repeated calls with identical arguments
// return bit-identical results; ties break on fewer melds, fewer Jokers, then
// the lexicographically smaller member-mask union. All memoization is local
// to this invocation, so concurrent calls share nothing.
func BestCover(hand CardMask, objective Objective, threshold int) CoverResult {
	candidates := EnumerateMelds(hand)
	if len(candidates) == 0 {
		return CoverResult{}
	}

	search := coverSearch{
		candidates: candidates,
		objective:  objective,
		memo:       make(map[coverKey]coverOutcome),
	}
	outcome := search.solve(0, CardMask{})

	result := CoverResult{
		CoveredCards: outcome.cards,
		TotalPoints:  outcome.points,
		UsedJokers:   outcome.jokers,
	}
	for _, idx := range outcome.chosen {
		result.Melds = append(result.Melds, candidates[idx])
	}
	return result
}

type coverKey struct {
	idx int
	hi  uint64
	lo  uint64
}

// coverOutcome is the best completion reachable from a search state. The
// totals are deltas relative to that state, so outcomes memoized under one
// prefix remain valid under any other prefix reaching the same state.
type coverOutcome struct {
	points int
	cards  int
	jokers int
	melds  int
	union  CardMask
	chosen []int
}

type coverSearch struct {
	candidates []Meld
	objective  Objective
	memo       map[coverKey]coverOutcome
}

// solve returns the optimal completion over candidates[idx:] given the cards
// already consumed. Candidates are in enumeration order, so identical
// (idx, used) states always resolve identically.
func (s *coverSearch) solve(idx int, used CardMask) coverOutcome {
	if idx == len(s.candidates) {
		return coverOutcome{}
	}
	key := coverKey{idx: idx, hi: used.Hi, lo: used.Lo}
	if cached, ok := s.memo[key]; ok {
		return cached
	}

	best := s.solve(idx+1, used)

	meld := s.candidates[idx]
	if !used.Overlaps(meld.Mask) {
		tail := s.solve(idx+1, used.Union(meld.Mask))
		taken := coverOutcome{
			points: meld.Points + tail.points,
			cards:  meld.Mask.Count() + tail.cards,
			jokers: meld.JokersUsed + tail.jokers,
			melds:  1 + tail.melds,
			union:  meld.Mask.Union(tail.union),
			chosen: append([]int{idx}, tail.chosen...),
		}
		if s.better(taken, best) {
			best = taken
		}
	}

	s.memo[key] = best
	return best
}

// better applies the objective ordering with the fixed deterministic
// tie-break chain.
func (s *coverSearch) better(a, b coverOutcome) bool {
	if s.objective == MaxCoverage {
		if a.cards != b.cards {
			return a.cards > b.cards
		}
	}
	if a.points != b.points {
		return a.points > b.points
	}
	if s.objective == MaxPoints && a.cards != b.cards {
		return a.cards > b.cards
	}
	if a.melds != b.melds {
		return a.melds < b.melds
	}
	if a.jokers != b.jokers {
		return a.jokers < b.jokers
	}
	if a.union != b.union {
		return a.union.Less(b.union)
	}
	return false
}
