package bot

import (
	"testing"

	"konkan/internal/domain"
)

func testGame(hands ...domain.CardMask) *domain.Game {
	g := &domain.Game{
		Rules:      domain.DefaultRules,
		Phase:      domain.PhasePlaying,
		Turn:       0,
		WinnerSeat: -1,
	}
	for seat, hand := range hands {
		p := &domain.PlayerState{Seat: seat, Hand: hand, Phase: domain.TurnWaiting, LastTrash: domain.NoCard}
		if seat == 0 {
			p.Phase = domain.TurnAwaitingDraw
		}
		g.Players = append(g.Players, p)
	}
	return g
}

func sevensSet() domain.Meld {
	return domain.Meld{
		Mask: domain.MaskOf(
			domain.CardOf(domain.SuitSpades, domain.RankSeven, 0),
			domain.CardOf(domain.SuitHearts, domain.RankSeven, 0),
			domain.CardOf(domain.SuitDiamonds, domain.RankSeven, 0),
		),
		Kind:   domain.MeldSet,
		Points: 21,
	}
}

func bigHand() (domain.CardMask, domain.CardID) {
	reserve := domain.CardOf(domain.SuitClubs, domain.RankTwo, 0)
	hand := domain.MaskOf(reserve)
	for _, suit := range []int{domain.SuitSpades, domain.SuitHearts, domain.SuitDiamonds, domain.SuitClubs} {
		hand = hand.With(domain.CardOf(suit, domain.RankKing, 0))
		hand = hand.With(domain.CardOf(suit, domain.RankQueen, 0))
	}
	hand = hand.With(domain.CardOf(domain.SuitSpades, domain.RankJack, 0)).
		With(domain.CardOf(domain.SuitHearts, domain.RankJack, 0)).
		With(domain.CardOf(domain.SuitDiamonds, domain.RankJack, 0))
	return hand, reserve
}

func TestGreedyDrawTakesCompletingTrash(t *testing.T) {
	hand := domain.MaskOf(
		domain.CardOf(domain.SuitSpades, domain.RankKing, 0),
		domain.CardOf(domain.SuitHearts, domain.RankKing, 0),
	)
	g := testGame(hand, domain.CardMask{}, domain.CardMask{})
	g.Players[0].HasComeDown = true
	g.TrashPile = []domain.CardID{domain.CardOf(domain.SuitDiamonds, domain.RankKing, 0)}

	b := &GreedyBot{}
	if got := b.ChooseDraw(g, 0); got != DrawTrash {
		t.Fatalf("draw = %v, want trash for a set-completing king", got)
	}

	g.TrashPile = []domain.CardID{domain.CardOf(domain.SuitClubs, domain.RankFour, 0)}
	if got := b.ChooseDraw(g, 0); got != DrawStock {
		t.Fatalf("draw = %v, want stock for a useless four", got)
	}
}

func TestGreedyDrawRespectsComeDownGate(t *testing.T) {
	hand := domain.MaskOf(
		domain.CardOf(domain.SuitSpades, domain.RankKing, 0),
		domain.CardOf(domain.SuitHearts, domain.RankKing, 0),
	)
	g := testGame(hand, domain.CardMask{}, domain.CardMask{})
	g.TrashPile = []domain.CardID{domain.CardOf(domain.SuitDiamonds, domain.RankKing, 0)}

	// Not down and 30 points is far below the threshold: the rules forbid
	// the pickup, so the bot must fall back to the stock.
	if got := (&GreedyBot{}).ChooseDraw(g, 0); got != DrawStock {
		t.Fatalf("draw = %v, want stock when pickup is illegal", got)
	}
}

func TestGreedyPlaysComeDown(t *testing.T) {
	hand, reserve := bigHand()
	g := testGame(hand, domain.CardMask{}, domain.CardMask{})
	g.Players[0].Phase = domain.TurnAwaitingTrash

	play, err := (&GreedyBot{}).ChoosePlay(g, 0)
	if err != nil {
		t.Fatalf("ChoosePlay: %v", err)
	}
	if !play.LayDown || play.Reserve != reserve {
		t.Fatalf("play = %+v, want come-down reserving the loose two", play)
	}
	if play.Discard != reserve {
		t.Fatalf("discard = %v, want the reserve to close the round", play.Discard)
	}
	if g.Players[0].Hand != hand {
		t.Fatalf("planning mutated the real game")
	}
}

func TestSmartPlaySarfsAndDiscards(t *testing.T) {
	seven := domain.CardOf(domain.SuitClubs, domain.RankSeven, 0)
	nine := domain.CardOf(domain.SuitSpades, domain.RankNine, 0)
	hand := domain.MaskOf(seven, nine, domain.CardOf(domain.SuitHearts, domain.RankFour, 0))
	g := testGame(hand, domain.CardMask{}, domain.CardMask{})
	g.Players[0].Phase = domain.TurnAwaitingTrash
	g.Players[0].HasComeDown = true
	g.Table = []domain.TableMeld{{Meld: sevensSet(), Owner: 1}}

	play, err := (&SmartBot{}).ChoosePlay(g, 0)
	if err != nil {
		t.Fatalf("ChoosePlay: %v", err)
	}
	if len(play.Sarfs) != 1 || play.Sarfs[0].Card != seven {
		t.Fatalf("sarfs = %+v, want the club seven", play.Sarfs)
	}
	if play.Discard != nine {
		t.Fatalf("discard = %v, want the loose nine", play.Discard)
	}
}

func TestSmartDrawTakesSarfableTrash(t *testing.T) {
	hand := domain.MaskOf(
		domain.CardOf(domain.SuitSpades, domain.RankNine, 0),
		domain.CardOf(domain.SuitHearts, domain.RankFour, 0),
	)
	g := testGame(hand, domain.CardMask{}, domain.CardMask{})
	g.Players[0].HasComeDown = true
	g.Table = []domain.TableMeld{{Meld: sevensSet(), Owner: 1}}
	g.TrashPile = []domain.CardID{domain.CardOf(domain.SuitClubs, domain.RankSeven, 0)}

	if got := (&SmartBot{}).ChooseDraw(g, 0); got != DrawTrash {
		t.Fatalf("draw = %v, want trash for a sarfable seven", got)
	}
}

func TestNewBrainLevels(t *testing.T) {
	cases := []struct {
		level BotLevel
		ok    bool
	}{
		{BotLevelGreedy, true},
		{BotLevelSmart, true},
		{BotLevelSearch, true},
		{BotLevel(99), false},
	}
	for _, tc := range cases {
		brain, err := NewBrain(tc.level)
		if tc.ok && (err != nil || brain == nil) {
			t.Fatalf("NewBrain(%d) failed: %v", tc.level, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("NewBrain(%d) accepted an unknown level", tc.level)
		}
	}
}

func TestLevelFromDifficulty(t *testing.T) {
	if LevelFromDifficulty("easy") != BotLevelGreedy {
		t.Fatalf("easy should map to greedy")
	}
	if LevelFromDifficulty("hard") != BotLevelSearch {
		t.Fatalf("hard should map to search")
	}
	if LevelFromDifficulty("") != BotLevelSmart {
		t.Fatalf("default should map to smart")
	}
}
