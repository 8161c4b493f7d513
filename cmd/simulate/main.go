// Command simulate runs headless Konkan rounds between bots and reports the
// running totals. Useful for balancing strategy tiers and the come-down
// threshold without a Nakama server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"konkan/internal/app"
	"konkan/internal/bot"
	"konkan/internal/domain"
)

const maxTurnsPerRound = 400

func main() {
	rounds := flag.Int("rounds", 20, "number of rounds to play")
	seed := flag.Int64("seed", 0, "rng seed, 0 uses the clock")
	levels := flag.String("levels", "easy,medium,hard", "comma-separated bot levels for the three seats")
	verbose := flag.Bool("v", false, "log every turn")
	flag.Parse()

	logger, err := buildLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	agents, userIDs, err := buildTable(*levels)
	if err != nil {
		logger.Fatal("bad table setup", zap.Error(err))
	}

	logger.Info("starting simulation",
		zap.Int("rounds", *rounds),
		zap.Int64("seed", *seed),
		zap.Strings("seats", userIDs))

	svc := app.NewService(rng)
	history := domain.NewMatchHistory(userIDs)

	for i := 0; i < *rounds; i++ {
		summary, err := playRound(svc, agents, userIDs, logger)
		if err != nil {
			logger.Error("round abandoned", zap.Int("round", i), zap.Error(err))
			continue
		}
		history.Record(summary)
		logger.Info("round finished",
			zap.Int("round", i),
			zap.String("round_id", summary.RoundID),
			zap.Int("winner_seat", summary.WinnerSeat),
			zap.Int("turns", summary.Turns))
	}

	for _, total := range history.Totals {
		logger.Info("seat total",
			zap.String("user", total.UserID),
			zap.Int("net_points", total.NetPoints),
			zap.Int("rounds_won", total.RoundsWon))
	}
	if leader := history.Leader(); leader >= 0 {
		total := history.Totals[leader]
		logger.Info("leader", zap.String("user", total.UserID), zap.Int("net_points", total.NetPoints))
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func buildTable(levels string) ([]*bot.Agent, []string, error) {
	parts := strings.Split(levels, ",")
	if len(parts) != 3 {
		return nil, nil, fmt.Errorf("need exactly 3 levels, got %d", len(parts))
	}
	agents := make([]*bot.Agent, 3)
	userIDs := make([]string, 3)
	for i, part := range parts {
		level := strings.TrimSpace(part)
		brain, err := bot.NewBrain(bot.LevelFromDifficulty(level))
		if err != nil {
			return nil, nil, err
		}
		userIDs[i] = fmt.Sprintf("sim-%s-%d", level, i)
		agents[i] = &bot.Agent{ID: userIDs[i], Name: userIDs[i], Strategy: brain}
	}
	return agents, userIDs, nil
}

func playRound(svc *app.Service, agents []*bot.Agent, userIDs []string, logger *zap.Logger) (domain.RoundSummary, error) {
	round, _, err := svc.StartRound(userIDs)
	if err != nil {
		return domain.RoundSummary{}, err
	}
	game := round.Game

	for turn := 0; turn < maxTurnsPerRound; turn++ {
		if game.Phase != domain.PhasePlaying {
			break
		}
		seat := game.Turn
		agent := agents[seat]

		if err := playTurn(svc, round, agent, seat, logger); err != nil {
			return domain.RoundSummary{}, fmt.Errorf("seat %d: %w", seat, err)
		}
	}

	if game.Phase != domain.PhaseEnded {
		return domain.RoundSummary{}, errors.New("round hit the turn limit")
	}
	return svc.Summarize(round)
}

func playTurn(svc *app.Service, round *app.Round, agent *bot.Agent, seat int, logger *zap.Logger) error {
	game := round.Game

	source := app.DrawSourceStock
	if agent.ChooseDraw(game, seat) == bot.DrawTrash {
		source = app.DrawSourceTrash
	}
	if _, err := svc.Draw(round, seat, source); err != nil {
		if _, err := svc.Draw(round, seat, app.DrawSourceStock); err != nil {
			return err
		}
		source = app.DrawSourceStock
	}

	play, err := agent.ChoosePlay(game, seat)
	if err != nil {
		return err
	}

	if play.Swap != nil {
		if _, err := svc.SwapJoker(round, seat, play.Swap.MeldIndex, play.Swap.Replacement); err == nil {
			logger.Debug("joker swapped", zap.String("user", agent.ID))
		}
	}
	if play.LayDown {
		if _, err := svc.LayDown(round, seat, play.Reserve); err == nil {
			logger.Debug("came down",
				zap.String("user", agent.ID),
				zap.Int("laid_points", game.Player(seat).LaidPoints))
		}
	}
	for _, sarf := range play.Sarfs {
		if _, err := svc.Sarf(round, seat, sarf.MeldIndex, sarf.Card); err != nil {
			break
		}
	}
	if _, err := svc.Trash(round, seat, play.Discard); err != nil {
		return err
	}

	logger.Debug("turn done",
		zap.String("user", agent.ID),
		zap.String("draw", source),
		zap.Int("hand", game.Player(seat).Hand.Count()))
	return nil
}
