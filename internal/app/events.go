package app

import "konkan/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventPlayerLeft   EventKind = "player_left"
	EventRoundStarted EventKind = "round_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventCardDrawn    EventKind = "card_drawn"
	EventCameDown     EventKind = "came_down"
	EventCardSarfed   EventKind = "card_sarfed"
	EventJokerSwapped EventKind = "joker_swapped"
	EventCardTrashed  EventKind = "card_trashed"
	EventRoundEnded   EventKind = "round_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Owner  bool   `json:"owner"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type RoundStartedPayload struct {
	RoundID         string   `json:"round_id"`
	Seats           []string `json:"seats"`
	FirstTurnUserID string   `json:"first_turn_user_id"`
	TrashTop        int      `json:"trash_top"` // NoCard when the trash is empty
}

type HandDealtPayload struct {
	UserID string          `json:"user_id"`
	Hand   []domain.CardID `json:"hand"`
}

// CardDrawnPayload is broadcast without the card; the drawer receives a
// second copy with Card set.
type CardDrawnPayload struct {
	UserID     string `json:"user_id"`
	Source     string `json:"source"` // "stock" or "trash"
	Card       int    `json:"card"`   // NoCard when hidden from this recipient
	StockCount int    `json:"stock_count"`
}

type MeldPayload struct {
	Cards  []domain.CardID `json:"cards"`
	Kind   domain.MeldKind `json:"kind"`
	Points int             `json:"points"`
}

type CameDownPayload struct {
	UserID string        `json:"user_id"`
	Melds  []MeldPayload `json:"melds"`
	Points int           `json:"points"`
}

type CardSarfedPayload struct {
	UserID    string        `json:"user_id"`
	MeldIndex int           `json:"meld_index"`
	Card      domain.CardID `json:"card"`
}

type JokerSwappedPayload struct {
	UserID      string        `json:"user_id"`
	MeldIndex   int           `json:"meld_index"`
	Replacement domain.CardID `json:"replacement"`
}

type CardTrashedPayload struct {
	UserID         string        `json:"user_id"`
	Card           domain.CardID `json:"card"`
	NextTurnUserID string        `json:"next_turn_user_id"`
}

type RoundEndedPayload struct {
	RoundID      string                    `json:"round_id"`
	WinnerUserID string                    `json:"winner_user_id"`
	Scores       []domain.PlayerRoundScore `json:"scores"`
}
