package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func playingGame(hands ...CardMask) *Game {
	g := &Game{
		Rules:      DefaultRules,
		Phase:      PhasePlaying,
		Turn:       0,
		WinnerSeat: -1,
	}
	for seat, hand := range hands {
		p := &PlayerState{Seat: seat, Hand: hand, Phase: TurnWaiting, LastTrash: NoCard}
		if seat == 0 {
			p.Phase = TurnAwaitingDraw
		}
		g.Players = append(g.Players, p)
	}
	return g
}

func TestNewGameDeal(t *testing.T) {
	deck := NewDeck()
	ShuffleDeck(deck, rand.New(rand.NewSource(7)))
	g := NewGame(DefaultRules, []string{"a", "b", "c"}, deck)

	for seat, p := range g.Players {
		if got := p.Hand.Count(); got != DefaultRules.HandSize {
			t.Fatalf("seat %d dealt %d cards, want %d", seat, got, DefaultRules.HandSize)
		}
	}
	if len(g.TrashPile) != 1 {
		t.Fatalf("trash pile = %d cards, want 1", len(g.TrashPile))
	}
	wantStock := NumCards - 3*DefaultRules.HandSize - 1
	if len(g.DrawPile) != wantStock {
		t.Fatalf("stock = %d cards, want %d", len(g.DrawPile), wantStock)
	}
	if g.Turn != 0 || g.Players[0].Phase != TurnAwaitingDraw {
		t.Fatalf("first seat should be awaiting draw, got turn=%d phase=%v", g.Turn, g.Players[0].Phase)
	}
}

func TestComeDownThreshold(t *testing.T) {
	g := playingGame(CardMask{}, CardMask{}, CardMask{})
	if got := g.ComeDownThreshold(); got != 81 {
		t.Fatalf("initial threshold = %d, want 81", got)
	}
	g.HighestTablePoints = 95
	if got := g.ComeDownThreshold(); got != 96 {
		t.Fatalf("threshold after 95 on table = %d, want 96", got)
	}
}

func TestDrawFromStockRecyclesTrash(t *testing.T) {
	g := playingGame(CardMask{}, CardMask{}, CardMask{})
	a := CardOf(SuitSpades, RankTwo, 0)
	b := CardOf(SuitHearts, RankFive, 0)
	top := CardOf(SuitClubs, RankNine, 0)
	g.TrashPile = []CardID{a, b, top}

	card, err := g.DrawFromStock(0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("DrawFromStock: %v", err)
	}
	if card != a && card != b {
		t.Fatalf("drew %v, want a recycled trash card", card)
	}
	if len(g.TrashPile) != 1 || g.TrashPile[0] != top {
		t.Fatalf("trash after recycle = %v, want only the old top %v", g.TrashPile, top)
	}
	if g.Players[0].Phase != TurnAwaitingTrash {
		t.Fatalf("drawer should be awaiting trash")
	}
}

func TestDrawOutOfTurn(t *testing.T) {
	g := playingGame(CardMask{}, CardMask{}, CardMask{})
	g.DrawPile = []CardID{CardOf(SuitSpades, RankAce, 0)}
	if _, err := g.DrawFromStock(1, rand.New(rand.NewSource(1))); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
}

func TestCanDrawFromTrashGating(t *testing.T) {
	kings := MaskOf(
		CardOf(SuitSpades, RankKing, 0), CardOf(SuitHearts, RankKing, 0),
		CardOf(SuitDiamonds, RankKing, 0), CardOf(SuitClubs, RankKing, 0),
	)
	queens := MaskOf(
		CardOf(SuitSpades, RankQueen, 0), CardOf(SuitHearts, RankQueen, 0),
		CardOf(SuitDiamonds, RankQueen, 0), CardOf(SuitClubs, RankQueen, 0),
	)
	topJack := CardOf(SuitSpades, RankJack, 0)

	// 80 table points in hand; an isolated three on trash joins no meld, so
	// the union still covers only 80: below 81.
	isolate := CardOf(SuitDiamonds, RankThree, 0)
	g := playingGame(kings.Union(queens), CardMask{}, CardMask{})
	g.TrashPile = []CardID{isolate}
	if g.CanDrawFromTrash(0) {
		t.Fatalf("pickup allowed below come-down threshold")
	}

	// The spade jack is different: it opens the J-Q-K spade run and lifts
	// the union to 90, so the pickup is legal even without more jacks.
	g = playingGame(kings.Union(queens), CardMask{}, CardMask{})
	g.TrashPile = []CardID{topJack}
	if !g.CanDrawFromTrash(0) {
		t.Fatalf("pickup refused although the trash card completes a run")
	}

	// Two supporting jacks in hand push the union to 110: allowed.
	supported := kings.Union(queens).
		With(CardOf(SuitHearts, RankJack, 0)).
		With(CardOf(SuitDiamonds, RankJack, 0))
	g = playingGame(supported, CardMask{}, CardMask{})
	g.TrashPile = []CardID{topJack}
	if !g.CanDrawFromTrash(0) {
		t.Fatalf("pickup refused for a hand that comes down with the trash card")
	}

	// A player already down skips the threshold test but never takes back
	// their own last trash.
	g = playingGame(MaskOf(CardOf(SuitClubs, RankThree, 0)), CardMask{}, CardMask{})
	g.Players[0].HasComeDown = true
	g.TrashPile = []CardID{topJack}
	if !g.CanDrawFromTrash(0) {
		t.Fatalf("pickup refused for a player already down")
	}
	g.Players[0].LastTrash = int(topJack)
	if g.CanDrawFromTrash(0) {
		t.Fatalf("player allowed to reclaim their own trash")
	}
}

func TestDrawFromTrashArmsJokerSwap(t *testing.T) {
	g := playingGame(CardMask{}, CardMask{}, CardMask{})
	g.Players[0].HasComeDown = true
	g.TrashPile = []CardID{JokerLow}

	card, err := g.DrawFromTrash(0)
	if err != nil {
		t.Fatalf("DrawFromTrash: %v", err)
	}
	if !card.IsJoker() || !g.Players[0].PendingSwap {
		t.Fatalf("drawing a trash joker should arm the swap obligation")
	}
}

func TestLayDownKeepsReserve(t *testing.T) {
	kings := MaskOf(
		CardOf(SuitSpades, RankKing, 0), CardOf(SuitHearts, RankKing, 0),
		CardOf(SuitDiamonds, RankKing, 0), CardOf(SuitClubs, RankKing, 0),
	)
	queens := MaskOf(
		CardOf(SuitSpades, RankQueen, 0), CardOf(SuitHearts, RankQueen, 0),
		CardOf(SuitDiamonds, RankQueen, 0), CardOf(SuitClubs, RankQueen, 0),
	)
	jacks := MaskOf(
		CardOf(SuitSpades, RankJack, 0), CardOf(SuitHearts, RankJack, 0),
		CardOf(SuitDiamonds, RankJack, 0),
	)
	reserve := CardOf(SuitClubs, RankTwo, 0)
	hand := kings.Union(queens).Union(jacks).With(reserve)

	g := playingGame(hand, CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash

	cover, err := g.LayDown(0, reserve)
	if err != nil {
		t.Fatalf("LayDown: %v", err)
	}
	if cover.TotalPoints != 110 {
		t.Fatalf("laid %d points, want 110", cover.TotalPoints)
	}
	p := g.Players[0]
	if !p.HasComeDown || p.LaidPoints != 110 {
		t.Fatalf("come-down state not recorded: down=%v laid=%d", p.HasComeDown, p.LaidPoints)
	}
	if !p.Hand.Has(reserve) || p.Hand.Count() != 1 {
		t.Fatalf("reserve card should be the only card left, hand=%v", p.Hand.Cards())
	}
	if len(g.Table) != 3 || g.HighestTablePoints != 110 {
		t.Fatalf("table melds=%d highest=%d, want 3 and 110", len(g.Table), g.HighestTablePoints)
	}
	for _, tm := range g.Table {
		if tm.Owner != 0 {
			t.Fatalf("table meld owner = %d, want 0", tm.Owner)
		}
	}
}

func TestLayDownBelowThreshold(t *testing.T) {
	reserve := CardOf(SuitClubs, RankTwo, 0)
	hand := MaskOf(
		CardOf(SuitSpades, RankThree, 0), CardOf(SuitHearts, RankThree, 0), CardOf(SuitDiamonds, RankThree, 0),
		reserve,
	)
	g := playingGame(hand, CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash
	if _, err := g.LayDown(0, reserve); !errors.Is(err, ErrBelowThreshold) {
		t.Fatalf("err = %v, want ErrBelowThreshold", err)
	}
}

func TestSarfCard(t *testing.T) {
	sevens := Meld{
		Mask: MaskOf(
			CardOf(SuitSpades, RankSeven, 0), CardOf(SuitHearts, RankSeven, 0), CardOf(SuitDiamonds, RankSeven, 0),
		),
		Kind:   MeldSet,
		Points: 21,
	}
	fourth := CardOf(SuitClubs, RankSeven, 0)
	stranger := CardOf(SuitClubs, RankEight, 0)

	g := playingGame(MaskOf(fourth, stranger), CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash
	g.Players[0].HasComeDown = true
	g.Table = []TableMeld{{Meld: sevens, Owner: 1}}

	if g.CanSarfCard(0, 0, stranger) {
		t.Fatalf("eight accepted onto a set of sevens")
	}
	if err := g.SarfCard(0, 0, fourth); err != nil {
		t.Fatalf("SarfCard: %v", err)
	}
	if g.Table[0].Mask.Count() != 4 || g.Table[0].Points != 28 {
		t.Fatalf("extended meld = %d cards %d points, want 4 and 28", g.Table[0].Mask.Count(), g.Table[0].Points)
	}
	if g.Players[0].Hand.Has(fourth) {
		t.Fatalf("sarfed card still in hand")
	}
}

func TestSarfRequiresComeDown(t *testing.T) {
	sevens := Meld{
		Mask: MaskOf(
			CardOf(SuitSpades, RankSeven, 0), CardOf(SuitHearts, RankSeven, 0), CardOf(SuitDiamonds, RankSeven, 0),
		),
		Kind:   MeldSet,
		Points: 21,
	}
	fourth := CardOf(SuitClubs, RankSeven, 0)
	g := playingGame(MaskOf(fourth), CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash
	g.Table = []TableMeld{{Meld: sevens, Owner: 1}}

	if err := g.SarfCard(0, 0, fourth); !errors.Is(err, ErrIllegalSarf) {
		t.Fatalf("err = %v, want ErrIllegalSarf", err)
	}
}

func TestJokerSwap(t *testing.T) {
	run := Meld{
		Mask: MaskOf(
			CardOf(SuitHearts, RankFive, 0), CardOf(SuitHearts, RankSix, 0), JokerLow,
		),
		Kind:       MeldRun,
		Points:     18,
		JokersUsed: 1,
	}
	replacement := CardOf(SuitHearts, RankSeven, 0)
	g := playingGame(MaskOf(replacement), CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash
	g.Players[0].HasComeDown = true
	g.Players[0].PendingSwap = true
	g.Table = []TableMeld{{Meld: run, Owner: 1}}

	if err := g.JokerSwap(0, 0, replacement); err != nil {
		t.Fatalf("JokerSwap: %v", err)
	}
	if g.Table[0].JokersUsed != 0 || !g.Table[0].Mask.Has(replacement) {
		t.Fatalf("meld after swap = %v", g.Table[0].Mask.Cards())
	}
	p := g.Players[0]
	if !p.Hand.Has(JokerLow) || p.Hand.Has(replacement) || p.PendingSwap {
		t.Fatalf("swap did not trade the joker into the hand")
	}
}

func TestJokerSwapRejectsBreakingReplacement(t *testing.T) {
	run := Meld{
		Mask: MaskOf(
			CardOf(SuitHearts, RankFive, 0), CardOf(SuitHearts, RankSix, 0), JokerLow,
		),
		Kind:       MeldRun,
		Points:     18,
		JokersUsed: 1,
	}
	bad := CardOf(SuitSpades, RankNine, 0)
	g := playingGame(MaskOf(bad), CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash
	g.Players[0].PendingSwap = true
	g.Table = []TableMeld{{Meld: run, Owner: 1}}

	if err := g.JokerSwap(0, 0, bad); !errors.Is(err, ErrIllegalSwap) {
		t.Fatalf("err = %v, want ErrIllegalSwap", err)
	}
}

func TestTrashAdvancesTurn(t *testing.T) {
	card := CardOf(SuitDiamonds, RankFour, 0)
	g := playingGame(MaskOf(card, CardOf(SuitSpades, RankNine, 0)), CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash

	if err := g.TrashCard(0, card); err != nil {
		t.Fatalf("TrashCard: %v", err)
	}
	if g.Turn != 1 || g.Players[1].Phase != TurnAwaitingDraw {
		t.Fatalf("turn did not pass to seat 1")
	}
	if g.Players[0].LastTrash != int(card) {
		t.Fatalf("LastTrash = %d, want %d", g.Players[0].LastTrash, card)
	}
	if g.TopTrash() != int(card) {
		t.Fatalf("top trash = %d, want %d", g.TopTrash(), card)
	}
}

func TestTrashLastCardWinsRound(t *testing.T) {
	card := CardOf(SuitDiamonds, RankFour, 0)
	g := playingGame(MaskOf(card), CardMask{}, CardMask{})
	g.Players[0].Phase = TurnAwaitingTrash
	g.Players[0].HasComeDown = true

	if err := g.TrashCard(0, card); err != nil {
		t.Fatalf("TrashCard: %v", err)
	}
	if g.Phase != PhaseEnded || g.WinnerSeat != 0 {
		t.Fatalf("round should end with seat 0 winning, phase=%v winner=%d", g.Phase, g.WinnerSeat)
	}
}

func TestCanGoOut(t *testing.T) {
	ready := MaskOf(
		CardOf(SuitHearts, RankAce, 0), CardOf(SuitHearts, RankTwo, 0), CardOf(SuitHearts, RankThree, 0),
		CardOf(SuitSpades, RankNine, 0),
	)
	if !CanGoOut(ready) {
		t.Fatalf("run plus one loose card should go out")
	}
	scattered := MaskOf(
		CardOf(SuitHearts, RankAce, 0), CardOf(SuitHearts, RankFive, 0),
		CardOf(SuitSpades, RankNine, 0), CardOf(SuitDiamonds, RankQueen, 0),
	)
	if CanGoOut(scattered) {
		t.Fatalf("meldless hand reported as able to go out")
	}
}

func TestScoreRound(t *testing.T) {
	g := playingGame(
		CardMask{},
		MaskOf(CardOf(SuitSpades, RankKing, 0), CardOf(SuitHearts, RankTwo, 0)),
		MaskOf(CardOf(SuitDiamonds, RankAce, 0)),
	)
	g.Phase = PhaseEnded
	g.WinnerSeat = 0
	g.Players[0].LaidPoints = 95
	g.Players[1].LaidPoints = 81

	scores := g.ScoreRound()
	if !scores[0].WonRound || scores[0].NetPoints != 95 {
		t.Fatalf("winner score = %+v", scores[0])
	}
	if scores[1].NetPoints != 81-12 || scores[1].DeadwoodPoints != 12 {
		t.Fatalf("seat 1 score = %+v", scores[1])
	}
	if scores[2].NetPoints != -10 || scores[2].WonRound {
		t.Fatalf("seat 2 score = %+v", scores[2])
	}
}

func TestMatchHistory(t *testing.T) {
	h := NewMatchHistory([]string{"a", "b", "c"})
	h.Record(RoundSummary{
		RoundID:    "r1",
		WinnerSeat: 1,
		Scores: []PlayerRoundScore{
			{Seat: 0, NetPoints: -20},
			{Seat: 1, NetPoints: 100, WonRound: true},
			{Seat: 2, NetPoints: 40},
		},
	})
	h.Record(RoundSummary{
		RoundID:    "r2",
		WinnerSeat: 2,
		Scores: []PlayerRoundScore{
			{Seat: 0, NetPoints: 90},
			{Seat: 1, NetPoints: -5},
			{Seat: 2, NetPoints: 30, WonRound: true},
		},
	})
	if h.Totals[1].NetPoints != 95 || h.Totals[1].RoundsWon != 1 || h.Totals[1].RoundsLost != 1 {
		t.Fatalf("seat 1 totals = %+v", h.Totals[1])
	}
	if got := h.Leader(); got != 1 {
		t.Fatalf("leader = %d, want 1", got)
	}
}
