package bot

import (
	"konkan/internal/domain"
)

// DrawSource picks where the bot takes its turn card from.
type DrawSource int

const (
	DrawStock DrawSource = iota
	DrawTrash
)

// SarfMove adds one hand card onto an existing table meld.
type SarfMove struct {
	MeldIndex int
	Card      domain.CardID
}

// SwapMove trades a natural card for an exposed table Joker.
type SwapMove struct {
	MeldIndex   int
	Replacement domain.CardID
}

// Play is the full post-draw decision for one turn: an optional come-down,
// any number of sarf additions, an optional Joker swap and the closing
// discard. The driver applies the pieces in that order.
type Play struct {
	LayDown bool
	Reserve domain.CardID
	Sarfs   []SarfMove
	Swap    *SwapMove
	Discard domain.CardID
}

// Brain is the interface all bot strategies implement. Both methods observe
// the game from one seat's perspective and must not mutate it.
type Brain interface {
	ChooseDraw(game *domain.Game, seat int) DrawSource
	ChoosePlay(game *domain.Game, seat int) (Play, error)
	OnEvent(event interface{})
}
