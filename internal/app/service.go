package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"konkan/internal/domain"
)

// Service contains Konkan use-cases operating on domain state. It owns the
// rng used for dealing and trash recycling; the domain stays deterministic.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotOwner      = errors.New("actor is not match owner")
	ErrNotInLobby    = errors.New("match not in lobby")
	ErrMatchNotEnded = errors.New("match not ended")
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrUnknownPlayer = errors.New("player not found")
	ErrBadDrawSource = errors.New("unknown draw source")
)

// Round couples a dealt game with its identifier so settlement events can
// reference the round they close.
type Round struct {
	ID   string
	Game *domain.Game
}

// StartRound deals a fresh round for the given players in seat order (empty
// strings mark empty seats, which are skipped).
func (s *Service) StartRound(playerIDs []string) (*Round, []Event, error) {
	var seats []string
	for _, userID := range playerIDs {
		if userID != "" {
			seats = append(seats, userID)
		}
	}
	if len(seats) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}

	deck := domain.NewDeck()
	domain.ShuffleDeck(deck, s.rng)

	rules := domain.DefaultRules
	rules.NumPlayers = len(seats)
	game := domain.NewGame(rules, seats, deck)
	round := &Round{ID: uuid.NewString(), Game: game}

	events := make([]Event, 0, len(seats)+1)
	for _, p := range game.Players {
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: p.UserID,
				Hand:   p.Hand.Cards(),
			},
			Recipients: []string{p.UserID},
		})
	}
	events = append(events, Event{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			RoundID:         round.ID,
			Seats:           seats,
			FirstTurnUserID: seats[0],
			TrashTop:        game.TopTrash(),
		},
	})
	return round, events, nil
}

// Draw performs the seat's draw from the requested source. The drawn card is
// only revealed to the drawer for stock draws; trash pickups are public by
// nature.
func (s *Service) Draw(round *Round, seat int, source string) ([]Event, error) {
	game := round.Game
	player := game.Player(seat)
	if player == nil {
		return nil, ErrUnknownPlayer
	}

	var card domain.CardID
	var err error
	switch source {
	case DrawSourceStock:
		card, err = game.DrawFromStock(seat, s.rng)
	case DrawSourceTrash:
		card, err = game.DrawFromTrash(seat)
	default:
		return nil, fmt.Errorf("%q: %w", source, ErrBadDrawSource)
	}
	if err != nil {
		return nil, err
	}

	public := Event{
		Kind: EventCardDrawn,
		Payload: CardDrawnPayload{
			UserID:     player.UserID,
			Source:     source,
			Card:       domain.NoCard,
			StockCount: len(game.DrawPile),
		},
	}
	if source == DrawSourceTrash {
		payload := public.Payload.(CardDrawnPayload)
		payload.Card = int(card)
		public.Payload = payload
		return []Event{public}, nil
	}
	private := public
	payload := private.Payload.(CardDrawnPayload)
	payload.Card = int(card)
	private.Payload = payload
	private.Recipients = []string{player.UserID}
	public.Recipients = excludeUser(game, player.UserID)
	return []Event{private, public}, nil
}

// LayDown performs the seat's come-down, reserving the given card.
func (s *Service) LayDown(round *Round, seat int, reserve domain.CardID) ([]Event, error) {
	game := round.Game
	player := game.Player(seat)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	cover, err := game.LayDown(seat, reserve)
	if err != nil {
		return nil, err
	}
	melds := make([]MeldPayload, 0, len(cover.Melds))
	for _, m := range cover.Melds {
		melds = append(melds, MeldPayload{Cards: m.Mask.Cards(), Kind: m.Kind, Points: m.Points})
	}
	return []Event{{
		Kind: EventCameDown,
		Payload: CameDownPayload{
			UserID: player.UserID,
			Melds:  melds,
			Points: cover.TotalPoints,
		},
	}}, nil
}

// Sarf adds one of the seat's cards to a table meld.
func (s *Service) Sarf(round *Round, seat, meldIndex int, card domain.CardID) ([]Event, error) {
	game := round.Game
	player := game.Player(seat)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	if err := game.SarfCard(seat, meldIndex, card); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventCardSarfed,
		Payload: CardSarfedPayload{
			UserID:    player.UserID,
			MeldIndex: meldIndex,
			Card:      card,
		},
	}}, nil
}

// SwapJoker resolves an armed Joker-swap obligation.
func (s *Service) SwapJoker(round *Round, seat, meldIndex int, replacement domain.CardID) ([]Event, error) {
	game := round.Game
	player := game.Player(seat)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	if err := game.JokerSwap(seat, meldIndex, replacement); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventJokerSwapped,
		Payload: JokerSwappedPayload{
			UserID:      player.UserID,
			MeldIndex:   meldIndex,
			Replacement: replacement,
		},
	}}, nil
}

// Trash discards the card and closes the turn. A finished round appends the
// settlement event with every seat's score.
func (s *Service) Trash(round *Round, seat int, card domain.CardID) ([]Event, error) {
	game := round.Game
	player := game.Player(seat)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	if err := game.TrashCard(seat, card); err != nil {
		return nil, err
	}

	next := ""
	if game.Phase == domain.PhasePlaying {
		if p := game.Player(game.Turn); p != nil {
			next = p.UserID
		}
	}
	events := []Event{{
		Kind: EventCardTrashed,
		Payload: CardTrashedPayload{
			UserID:         player.UserID,
			Card:           card,
			NextTurnUserID: next,
		},
	}}

	if game.Phase == domain.PhaseEnded {
		winner := ""
		if w := game.Player(game.WinnerSeat); w != nil {
			winner = w.UserID
		}
		events = append(events, Event{
			Kind: EventRoundEnded,
			Payload: RoundEndedPayload{
				RoundID:      round.ID,
				WinnerUserID: winner,
				Scores:       game.ScoreRound(),
			},
		})
	}
	return events, nil
}

// Summarize folds a finished round into a match history entry.
func (s *Service) Summarize(round *Round) (domain.RoundSummary, error) {
	game := round.Game
	if game.Phase != domain.PhaseEnded {
		return domain.RoundSummary{}, ErrMatchNotEnded
	}
	return domain.RoundSummary{
		RoundID:    round.ID,
		WinnerSeat: game.WinnerSeat,
		Scores:     game.ScoreRound(),
		Turns:      game.TurnCount,
	}, nil
}

func excludeUser(game *domain.Game, userID string) []string {
	others := make([]string, 0, len(game.Players))
	for _, p := range game.Players {
		if p.UserID != userID {
			others = append(others, p.UserID)
		}
	}
	return others
}
