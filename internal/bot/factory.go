package bot

import (
	"fmt"
	"math/rand"
	"time"

	botinternal "konkan/internal/bot/internal"
)

// BotLevel selects a strategy tier.
type BotLevel int

const (
	BotLevelGreedy BotLevel = iota + 1
	BotLevelSmart
	BotLevelSearch
)

// NewBrain creates a new AI brain for the given level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelGreedy:
		return &GreedyBot{}, nil
	case BotLevelSmart:
		return &SmartBot{}, nil
	case BotLevelSearch:
		return &SearchBot{
			Config: botinternal.DefaultSearchConfig,
			Rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent builds an agent for a provisioned bot identity, falling back to
// the smart level when the identity is unknown.
func NewAgent(userID string) (*Agent, error) {
	identity, _ := GetBotConfig(userID)
	brain, err := NewBrain(LevelFromDifficulty(identity.Difficulty))
	if err != nil {
		return nil, err
	}
	name := identity.DisplayName
	if name == "" {
		name = userID
	}
	return &Agent{ID: userID, Name: name, Strategy: brain}, nil
}

// LevelFromDifficulty maps an identity difficulty string to a level,
// defaulting to smart.
func LevelFromDifficulty(difficulty string) BotLevel {
	switch difficulty {
	case "easy":
		return BotLevelGreedy
	case "hard":
		return BotLevelSearch
	default:
		return BotLevelSmart
	}
}
