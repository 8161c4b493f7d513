package domain

// Phase represents the lifecycle stage of a Konkan match.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the active round state.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state after a round concludes.
	PhaseEnded Phase = "ended"
)

// TurnPhase tracks where a player is inside their own turn.
type TurnPhase int

const (
	// TurnWaiting: not this player's turn.
	TurnWaiting TurnPhase = iota
	// TurnAwaitingDraw: must draw from stock or trash.
	TurnAwaitingDraw
	// TurnAwaitingTrash: drew a card, must finish by trashing one.
	TurnAwaitingTrash
)

// NoCard marks the absence of a card in fields that would otherwise hold a
// CardID.
const NoCard = -1

// RuleSet carries the tunable rule values for a round.
type RuleSet struct {
	NumPlayers     int
	HandSize       int
	ComeDownPoints int
}

// DefaultRules is the standard three-seat Konkan configuration: 14-card
// hands and an 81-point first come-down.
var DefaultRules = RuleSet{
	NumPlayers:     3,
	HandSize:       14,
	ComeDownPoints: 81,
}

// TableMeld is a meld laid on the table, tagged with the seat that owns it.
// Sarf additions mutate the mask and points but never the owner.
type TableMeld struct {
	Meld
	Owner int
}

// PlayerState holds one seat's view of the round. Hands are bitmasks; card
// order is presentation concern only.
type PlayerState struct {
	UserID      string
	Seat        int
	Hand        CardMask
	Phase       TurnPhase
	HasComeDown bool
	LaidPoints  int
	// LastTrash is the card this player trashed most recently, or NoCard.
	// Players may not reclaim their own last trash.
	LastTrash int
	// PendingSwap is set after drawing a printed Joker from the trash; the
	// player's table operation this turn must be a Joker swap.
	PendingSwap bool
}

// Game is the authoritative state of one Konkan round.
type Game struct {
	Rules      RuleSet
	Phase      Phase
	Players    []*PlayerState
	DrawPile   []CardID
	TrashPile  []CardID
	Table      []TableMeld
	Turn       int // seat index of the player to act
	TurnCount  int
	WinnerSeat int
	// HighestTablePoints tracks the largest come-down laid so far; later
	// players must beat it by at least one point.
	HighestTablePoints int
}

// NewGame deals a fresh round from an already-shuffled deck. Each seat gets
// HandSize cards, one card seeds the trash pile, and the remainder is stock.
func NewGame(rules RuleSet, playerIDs []string, deck []CardID) *Game {
	game := &Game{
		Rules:      rules,
		Phase:      PhasePlaying,
		Turn:       0,
		WinnerSeat: -1,
	}
	idx := 0
	for seat, userID := range playerIDs {
		player := &PlayerState{
			UserID:    userID,
			Seat:      seat,
			LastTrash: NoCard,
			Phase:     TurnWaiting,
		}
		for i := 0; i < rules.HandSize; i++ {
			player.Hand = player.Hand.With(deck[idx])
			idx++
		}
		game.Players = append(game.Players, player)
	}
	game.TrashPile = append(game.TrashPile, deck[idx])
	idx++
	game.DrawPile = append(game.DrawPile, deck[idx:]...)
	game.Players[0].Phase = TurnAwaitingDraw
	return game
}

// Clone returns a deep copy suitable for branching simulation.
func (g *Game) Clone() *Game {
	clone := &Game{
		Rules:              g.Rules,
		Phase:              g.Phase,
		DrawPile:           append([]CardID(nil), g.DrawPile...),
		TrashPile:          append([]CardID(nil), g.TrashPile...),
		Table:              append([]TableMeld(nil), g.Table...),
		Turn:               g.Turn,
		TurnCount:          g.TurnCount,
		WinnerSeat:         g.WinnerSeat,
		HighestTablePoints: g.HighestTablePoints,
	}
	clone.Players = make([]*PlayerState, len(g.Players))
	for i, p := range g.Players {
		copied := *p
		clone.Players[i] = &copied
	}
	return clone
}

// TopTrash returns the visible top of the trash pile, or NoCard.
func (g *Game) TopTrash() int {
	if len(g.TrashPile) == 0 {
		return NoCard
	}
	return int(g.TrashPile[len(g.TrashPile)-1])
}

// Player returns the state for a seat, or nil for an invalid index.
func (g *Game) Player(seat int) *PlayerState {
	if seat < 0 || seat >= len(g.Players) {
		return nil
	}
	return g.Players[seat]
}

// TableMasks returns the union of all table meld masks.
func (g *Game) TableMasks() CardMask {
	var m CardMask
	for _, tm := range g.Table {
		m = m.Union(tm.Mask)
	}
	return m
}
