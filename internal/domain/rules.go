package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrNotPlaying     = errors.New("round is not in progress")
	ErrNotYourTurn    = errors.New("not this seat's turn")
	ErrWrongPhase     = errors.New("action not allowed in current turn phase")
	ErrIllegalDraw    = errors.New("draw not allowed")
	ErrIllegalTrash   = errors.New("trash not allowed")
	ErrIllegalSarf    = errors.New("sarf not allowed")
	ErrIllegalSwap    = errors.New("joker swap not allowed")
	ErrBelowThreshold = errors.New("hand does not meet come-down threshold")
)

// ComeDownThreshold returns the points required for the next come-down: 81
// for the first player down, one more than the current table maximum after.
func (g *Game) ComeDownThreshold() int {
	threshold := g.Rules.ComeDownPoints
	if g.HighestTablePoints > 0 && g.HighestTablePoints+1 > threshold {
		threshold = g.HighestTablePoints + 1
	}
	return threshold
}

func (g *Game) actingPlayer(seat int, phase TurnPhase) (*PlayerState, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrNotPlaying
	}
	player := g.Player(seat)
	if player == nil {
		return nil, fmt.Errorf("seat %d: %w", seat, ErrNotYourTurn)
	}
	if g.Turn != seat {
		return nil, ErrNotYourTurn
	}
	if player.Phase != phase {
		return nil, ErrWrongPhase
	}
	return player, nil
}

// CanDrawFromTrash reports whether the seat may take the top trash card. A
// player may never reclaim their own last trash, and a player who has not
// come down may only pick up trash that immediately makes their hand
// come-down eligible, tested on the hand-plus-candidate union.
func (g *Game) CanDrawFromTrash(seat int) bool {
	player := g.Player(seat)
	if player == nil || g.Phase != PhasePlaying || g.Turn != seat || player.Phase != TurnAwaitingDraw {
		return false
	}
	top := g.TopTrash()
	if top == NoCard {
		return false
	}
	if player.LastTrash == top {
		return false
	}
	if !player.HasComeDown {
		union := player.Hand.With(CardID(top))
		threshold := g.ComeDownThreshold()
		cover := BestCover(union, MaxPoints, threshold)
		if cover.TotalPoints < threshold {
			return false
		}
	}
	return true
}

// DrawFromTrash moves the top trash card into the seat's hand. Drawing a
// printed Joker arms the Joker-swap obligation for this turn.
func (g *Game) DrawFromTrash(seat int) (CardID, error) {
	player, err := g.actingPlayer(seat, TurnAwaitingDraw)
	if err != nil {
		return 0, err
	}
	if !g.CanDrawFromTrash(seat) {
		return 0, fmt.Errorf("top trash not eligible: %w", ErrIllegalDraw)
	}
	card := g.TrashPile[len(g.TrashPile)-1]
	g.TrashPile = g.TrashPile[:len(g.TrashPile)-1]
	player.Hand = player.Hand.With(card)
	player.Phase = TurnAwaitingTrash
	player.PendingSwap = card.IsJoker()
	return card, nil
}

// DrawFromStock pops the stock, recycling the trash pile (all but the top
// card, reshuffled) when the stock is exhausted.
func (g *Game) DrawFromStock(seat int, rng *rand.Rand) (CardID, error) {
	player, err := g.actingPlayer(seat, TurnAwaitingDraw)
	if err != nil {
		return 0, err
	}
	if len(g.DrawPile) == 0 {
		if err := g.recycleTrash(rng); err != nil {
			return 0, err
		}
	}
	card := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	player.Hand = player.Hand.With(card)
	player.Phase = TurnAwaitingTrash
	player.PendingSwap = false
	return card, nil
}

func (g *Game) recycleTrash(rng *rand.Rand) error {
	if len(g.TrashPile) <= 1 {
		return fmt.Errorf("stock empty and trash too small to recycle: %w", ErrIllegalDraw)
	}
	top := g.TrashPile[len(g.TrashPile)-1]
	recycled := append([]CardID(nil), g.TrashPile[:len(g.TrashPile)-1]...)
	rng.Shuffle(len(recycled), func(i, j int) { recycled[i], recycled[j] = recycled[j], recycled[i] })
	g.DrawPile = append(recycled, g.DrawPile...)
	g.TrashPile = []CardID{top}
	return nil
}

// CanComeDown reports whether the seat's current hand clears the come-down
// threshold while leaving at least one card to trash.
func (g *Game) CanComeDown(seat int) bool {
	player := g.Player(seat)
	if player == nil || player.HasComeDown || player.Phase != TurnAwaitingTrash {
		return false
	}
	threshold := g.ComeDownThreshold()
	cover := BestCover(player.Hand, MaxPoints, threshold)
	if cover.TotalPoints < threshold {
		return false
	}
	return cover.CoveredCards < player.Hand.Count()
}

// LayDown moves the seat's best point cover onto the table. The reserve card
// is withheld from the cover so the player always keeps a card to trash.
// Returns the cover that was laid.
func (g *Game) LayDown(seat int, reserve CardID) (CoverResult, error) {
	player, err := g.actingPlayer(seat, TurnAwaitingTrash)
	if err != nil {
		return CoverResult{}, err
	}
	if player.HasComeDown {
		return CoverResult{}, fmt.Errorf("seat %d already came down: %w", seat, ErrWrongPhase)
	}
	if !player.Hand.Has(reserve) {
		return CoverResult{}, fmt.Errorf("reserve card %v not in hand: %w", reserve, ErrIllegalTrash)
	}
	threshold := g.ComeDownThreshold()
	cover := BestCover(player.Hand.Without(reserve), MaxPoints, threshold)
	if cover.TotalPoints < threshold {
		return CoverResult{}, fmt.Errorf("%d points against threshold %d: %w", cover.TotalPoints, threshold, ErrBelowThreshold)
	}
	for _, meld := range cover.Melds {
		g.Table = append(g.Table, TableMeld{Meld: meld, Owner: seat})
	}
	player.Hand = player.Hand.Diff(cover.UsedMask())
	player.HasComeDown = true
	player.LaidPoints = cover.TotalPoints
	if cover.TotalPoints > g.HighestTablePoints {
		g.HighestTablePoints = cover.TotalPoints
	}
	return cover, nil
}

// CanSarfCard reports whether adding the card to the indexed table meld
// still yields a legal meld membership. The extended group must itself be
// enumerable as a meld over exactly its member slots.
func (g *Game) CanSarfCard(seat, meldIndex int, card CardID) bool {
	player := g.Player(seat)
	if player == nil || !player.HasComeDown || !player.Hand.Has(card) {
		return false
	}
	if meldIndex < 0 || meldIndex >= len(g.Table) {
		return false
	}
	target := g.Table[meldIndex]
	union := target.Mask.With(card)
	return extendedMeld(union) != nil
}

// extendedMeld returns the meld covering exactly the union mask, or nil.
func extendedMeld(union CardMask) *Meld {
	for _, candidate := range EnumerateMelds(union) {
		if candidate.Mask == union {
			meld := candidate
			return &meld
		}
	}
	return nil
}

// SarfCard moves a hand card onto an existing table meld.
func (g *Game) SarfCard(seat, meldIndex int, card CardID) error {
	player, err := g.actingPlayer(seat, TurnAwaitingTrash)
	if err != nil {
		return err
	}
	if !player.HasComeDown {
		return fmt.Errorf("seat %d has not come down: %w", seat, ErrIllegalSarf)
	}
	if !g.CanSarfCard(seat, meldIndex, card) {
		return fmt.Errorf("card %v does not extend meld %d: %w", card, meldIndex, ErrIllegalSarf)
	}
	extended := extendedMeld(g.Table[meldIndex].Mask.With(card))
	g.Table[meldIndex].Meld = *extended
	player.Hand = player.Hand.Without(card)
	return nil
}

// JokerSwap trades a natural replacement card for a printed Joker exposed in
// a table meld. Only legal while the swap obligation from drawing a trash
// Joker is armed, and only when the replacement keeps the meld legal.
func (g *Game) JokerSwap(seat, meldIndex int, replacement CardID) error {
	player, err := g.actingPlayer(seat, TurnAwaitingTrash)
	if err != nil {
		return err
	}
	if !player.PendingSwap {
		return fmt.Errorf("seat %d is not in joker swap mode: %w", seat, ErrIllegalSwap)
	}
	if !player.Hand.Has(replacement) || replacement.IsJoker() {
		return fmt.Errorf("replacement %v not usable: %w", replacement, ErrIllegalSwap)
	}
	if meldIndex < 0 || meldIndex >= len(g.Table) {
		return fmt.Errorf("meld index %d out of range: %w", meldIndex, ErrIllegalSwap)
	}
	target := g.Table[meldIndex]
	var joker CardID
	found := false
	for _, id := range target.Mask.Cards() {
		if id.IsJoker() {
			joker = id
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("meld %d exposes no joker: %w", meldIndex, ErrIllegalSwap)
	}
	swapped := target.Mask.Without(joker).With(replacement)
	meld := extendedMeld(swapped)
	if meld == nil {
		return fmt.Errorf("replacement %v breaks the meld: %w", replacement, ErrIllegalSwap)
	}
	g.Table[meldIndex].Meld = *meld
	player.Hand = player.Hand.Without(replacement).With(joker)
	player.PendingSwap = false
	return nil
}

// TrashCard discards a card and ends the turn. A player who has come down
// and empties their hand wins the round.
func (g *Game) TrashCard(seat int, card CardID) error {
	player, err := g.actingPlayer(seat, TurnAwaitingTrash)
	if err != nil {
		return err
	}
	if !player.Hand.Has(card) {
		return fmt.Errorf("card %v not in hand: %w", card, ErrIllegalTrash)
	}
	player.Hand = player.Hand.Without(card)
	player.LastTrash = int(card)
	player.Phase = TurnWaiting
	player.PendingSwap = false
	g.TrashPile = append(g.TrashPile, card)

	if player.HasComeDown && player.Hand.IsEmpty() {
		g.WinnerSeat = seat
		g.Phase = PhaseEnded
		return nil
	}
	g.advanceTurn()
	return nil
}

func (g *Game) advanceTurn() {
	g.Turn = (g.Turn + 1) % len(g.Players)
	g.TurnCount++
	for seat, p := range g.Players {
		if seat == g.Turn {
			p.Phase = TurnAwaitingDraw
		} else {
			p.Phase = TurnWaiting
		}
	}
}

// CanGoOut reports whether all but one card of the hand can be covered by
// disjoint melds, the go-out condition tested after drawing.
func CanGoOut(hand CardMask) bool {
	if hand.Count() < 2 {
		return false
	}
	need := hand.Count() - 1
	cover := BestCover(hand, MaxCoverage, need)
	return cover.CoveredCards >= need
}

// PlayerRoundScore is one seat's outcome for a finished round.
type PlayerRoundScore struct {
	Seat           int  `json:"seat"`
	LaidPoints     int  `json:"laid_points"`
	DeadwoodPoints int  `json:"deadwood_points"`
	NetPoints      int  `json:"net_points"`
	WonRound       bool `json:"won_round"`
}

// ScoreRound computes final scores: laid table points minus the deadwood
// still held. Jokers in hand carry no static value, matching the card model.
func (g *Game) ScoreRound() []PlayerRoundScore {
	scores := make([]PlayerRoundScore, len(g.Players))
	for seat, p := range g.Players {
		deadwood := p.Hand.Points()
		scores[seat] = PlayerRoundScore{
			Seat:           seat,
			LaidPoints:     p.LaidPoints,
			DeadwoodPoints: deadwood,
			NetPoints:      p.LaidPoints - deadwood,
			WonRound:       seat == g.WinnerSeat,
		}
	}
	return scores
}
