package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

const (
	opStartRound   = 1
	opRoundStarted = 101
	opHandDealt    = 102
	opCardDrawn    = 103
)

func TestFullRoundStart(t *testing.T) {
	// 1. Create 3 clients, one per seat.
	clients := make([]*TestClient, 3)
	for i := 0; i < 3; i++ {
		clients[i] = NewTestClient(t)
		defer clients[i].Close()
	}
	t.Log("Created 3 clients")

	// 2. Client 0 creates a match via the quick_match RPC.
	matchID := clients[0].FindAndJoinMatch(t)
	t.Logf("Client 0 created/joined match: %s", matchID)

	// 3. Other clients join the same match.
	for i := 1; i < 3; i++ {
		if _, err := clients[i].Socket.JoinMatch(context.Background(), nil, matchID, nil); err != nil {
			t.Fatalf("Client %d failed to join match: %v", i, err)
		}
		t.Logf("Client %d joined match", i)
	}

	// Wait a bit for presences to sync.
	time.Sleep(1 * time.Second)

	// 4. Client 0 (owner) starts the round.
	t.Log("Client 0 sending StartRound...")
	if _, err := clients[0].Socket.SendMatchState(context.Background(), matchID, opStartRound, []byte("{}"), nil); err != nil {
		t.Fatalf("Failed to send StartRound: %v", err)
	}

	// 5. Every client receives its private hand of 14 cards, then the
	// public round_started event.
	for i, c := range clients {
		t.Logf("Waiting for HandDealt on Client %d...", i)
		data := c.WaitForMatchState(t, opHandDealt, 5*time.Second)

		var hand struct {
			UserID string `json:"user_id"`
			Hand   []int  `json:"hand"`
		}
		if err := json.Unmarshal(data.Data, &hand); err != nil {
			t.Errorf("Client %d failed to unmarshal HandDealt: %v", i, err)
			continue
		}
		if hand.UserID != c.UserID {
			t.Errorf("Client %d received a hand addressed to %s", i, hand.UserID)
		}
		if len(hand.Hand) != 14 {
			t.Errorf("Client %d expected 14 cards, got %d", i, len(hand.Hand))
		}
	}

	for i, c := range clients {
		t.Logf("Waiting for RoundStarted on Client %d...", i)
		data := c.WaitForMatchState(t, opRoundStarted, 5*time.Second)

		var started struct {
			RoundID         string   `json:"round_id"`
			Seats           []string `json:"seats"`
			FirstTurnUserID string   `json:"first_turn_user_id"`
		}
		if err := json.Unmarshal(data.Data, &started); err != nil {
			t.Errorf("Client %d failed to unmarshal RoundStarted: %v", i, err)
			continue
		}
		if len(started.Seats) != 3 {
			t.Errorf("Client %d expected 3 seats, got %d", i, len(started.Seats))
		}
		if started.FirstTurnUserID != clients[0].UserID {
			t.Errorf("Client %d expected first turn for %s, got %s", i, clients[0].UserID, started.FirstTurnUserID)
		}
	}

	// 6. First player draws from the stock and sees the drawn card.
	t.Log("Client 0 drawing from stock...")
	if _, err := clients[0].Socket.SendMatchState(context.Background(), matchID, 2, []byte(`{"source":"stock"}`), nil); err != nil {
		t.Fatalf("Failed to send Draw: %v", err)
	}
	data := clients[0].WaitForMatchState(t, opCardDrawn, 5*time.Second)
	var drawn struct {
		UserID string `json:"user_id"`
		Source string `json:"source"`
		Card   int    `json:"card"`
	}
	if err := json.Unmarshal(data.Data, &drawn); err != nil {
		t.Fatalf("Failed to unmarshal CardDrawn: %v", err)
	}
	if drawn.Source != "stock" {
		t.Errorf("Expected stock draw, got %q", drawn.Source)
	}

	t.Log("TestPassed: Round started and first draw succeeded with 3 players.")
}
