package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type BetTier struct {
	ID      string `json:"id"`
	BaseBet int64  `json:"base_bet"`
}

type GameConfig struct {
	TaxRate             float64   `json:"tax_rate"`
	DefaultTier         string    `json:"default_tier"`
	Tiers               []BetTier `json:"tiers"`
	TurnDurationSeconds int       `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before
	// filling empty seats with bots in a short-handed lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// ComeDownPoints overrides the first come-down threshold; 0 keeps the
	// standard 81.
	ComeDownPoints int `json:"come_down_points"`
	// BotIdentitiesPath points at the JSON bot account pool.
	BotIdentitiesPath string `json:"bot_identities_path"`

	ResumeTokenSecret     string `json:"resume_token_secret"`
	ResumeTokenIssuer     string `json:"resume_token_issuer"`
	ResumeTokenTTLMinutes int    `json:"resume_token_ttl_minutes"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBaseBet returns the base bet for a given tier ID, or the default if not found.
func GetBaseBet(tierID string) int64 {
	if cfg == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}
	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.BaseBet
		}
	}
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.BaseBet
		}
	}
	return 100
}

// GetComeDownPoints returns the configured come-down threshold, defaulting
// to the standard 81.
func GetComeDownPoints() int {
	if cfg == nil || cfg.ComeDownPoints <= 0 {
		return 81
	}
	return cfg.ComeDownPoints
}

// GetTurnDuration returns the per-turn clock, defaulting to 30 seconds.
func GetTurnDuration() time.Duration {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.TurnDurationSeconds) * time.Second
}

// GetResumeTokenTTL returns the resume token lifetime, defaulting to an hour.
func GetResumeTokenTTL() time.Duration {
	if cfg == nil || cfg.ResumeTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(cfg.ResumeTokenTTLMinutes) * time.Minute
}
