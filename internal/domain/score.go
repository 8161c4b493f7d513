package domain

// RoundSummary records the outcome of one completed round.
type RoundSummary struct {
	RoundID    string
	WinnerSeat int
	Scores     []PlayerRoundScore
	Turns      int
}

// PlayerMatchTotal accumulates a seat's results across rounds.
type PlayerMatchTotal struct {
	Seat       int
	UserID     string
	NetPoints  int
	RoundsWon  int
	RoundsLost int
}

// MatchHistory keeps round summaries and running totals for one table.
type MatchHistory struct {
	Rounds []RoundSummary
	Totals []PlayerMatchTotal
}

func NewMatchHistory(userIDs []string) *MatchHistory {
	totals := make([]PlayerMatchTotal, len(userIDs))
	for seat, id := range userIDs {
		totals[seat] = PlayerMatchTotal{Seat: seat, UserID: id}
	}
	return &MatchHistory{Totals: totals}
}

// Record folds a finished round into the history.
func (h *MatchHistory) Record(summary RoundSummary) {
	h.Rounds = append(h.Rounds, summary)
	for _, score := range summary.Scores {
		if score.Seat < 0 || score.Seat >= len(h.Totals) {
			continue
		}
		total := &h.Totals[score.Seat]
		total.NetPoints += score.NetPoints
		if score.WonRound {
			total.RoundsWon++
		} else {
			total.RoundsLost++
		}
	}
}

// Leader returns the seat with the highest running net points, ties going
// to the lower seat index.
func (h *MatchHistory) Leader() int {
	leader := -1
	best := 0
	for _, total := range h.Totals {
		if leader == -1 || total.NetPoints > best {
			leader = total.Seat
			best = total.NetPoints
		}
	}
	return leader
}
