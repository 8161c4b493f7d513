package nakama

// Client request payloads, carried as JSON match data.

type StartRoundRequest struct{}

type DrawRequest struct {
	Source string `json:"source"` // "stock" or "trash"
}

type LayDownRequest struct {
	Reserve int `json:"reserve"`
}

type SarfRequest struct {
	MeldIndex int `json:"meld_index"`
	Card      int `json:"card"`
}

type JokerSwapRequest struct {
	MeldIndex   int `json:"meld_index"`
	Replacement int `json:"replacement"`
}

type TrashRequest struct {
	Card int `json:"card"`
}

// Server event payloads not derived from app events.

type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ResumeTokenEvent struct {
	Token string `json:"token"`
}

type PlayerSnapshot struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	IsOwner        bool   `json:"is_owner"`
	DisplayName    string `json:"display_name"`
	CardsRemaining int    `json:"cards_remaining"`
	HasComeDown    bool   `json:"has_come_down"`
	LaidPoints     int    `json:"laid_points"`
}

type MatchSnapshot struct {
	Seats     []string         `json:"seats"`
	OwnerSeat int              `json:"owner_seat"`
	Tick      int64            `json:"tick"`
	Players   []PlayerSnapshot `json:"players"`
	TrashTop  int              `json:"trash_top"`
	InRound   bool             `json:"in_round"`
}
