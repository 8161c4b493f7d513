package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"konkan/internal/app"
	"konkan/internal/bot"
	"konkan/internal/config"
	"konkan/internal/domain"
	"konkan/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/mitchellh/mapstructure"
)

const numSeats = 3

// MatchCreateParams are optional parameters passed to MatchCreate.
type MatchCreateParams struct {
	Tier        string `mapstructure:"tier"`
	BotsEnabled bool   `mapstructure:"bots_enabled"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [numSeats]string            // user IDs, empty string means seat is empty
	OwnerSeat int                         // seat index of the match owner
	Tick      int64                       // current tick for turn-based logic
	Presences map[string]runtime.Presence // UserId -> Presence for targeted messaging

	App     *app.Service            // Konkan use-cases
	Round   *app.Round              // active round, nil while in lobby
	History *domain.MatchHistory    // per-table running totals
	Tokens  *app.ResumeTokenService // seat resume token minting
	MatchID string
	Tier    string
	BaseBet int64
	TaxRate float64

	BotsEnabled         bool
	BotMinDelay         int
	BotMaxDelay         int
	BotAutoFillDelay    int
	BotWaitUntil        int64 // tick when the acting bot should move
	LastShortHandedTick int64 // tick when the lobby went short-handed
	Bots                map[string]*bot.Agent

	Economy ports.EconomyPort
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return numSeats - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

func (ms *MatchState) phase() string {
	if ms.Round != nil {
		return "playing"
	}
	return "lobby"
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	identitiesPath := "data/bot_identities.json"
	if cfg := config.GetGameConfig(); cfg != nil && cfg.BotIdentitiesPath != "" {
		identitiesPath = cfg.BotIdentitiesPath
	}
	if err := bot.LoadIdentities(identitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	var createParams MatchCreateParams
	if err := mapstructure.Decode(params, &createParams); err != nil {
		logger.Warn("MatchInit: Bad match params: %v", err)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	state := &MatchState{
		Tick:        time.Now().Unix(),
		Presences:   make(map[string]runtime.Presence),
		App:         app.NewService(nil),
		OwnerSeat:   -1,
		MatchID:     matchID,
		Tier:        createParams.Tier,
		BaseBet:     config.GetBaseBet(createParams.Tier),
		BotsEnabled: createParams.BotsEnabled,
		Bots:        make(map[string]*bot.Agent),
		Economy:     NewNakamaEconomyAdapter(nk),
	}
	if cfg := config.GetGameConfig(); cfg != nil {
		state.TaxRate = cfg.TaxRate
		state.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
	}
	state.Tokens = app.NewResumeTokenService(
		env["konkan_resume_secret"], env["konkan_resume_issuer"], config.GetResumeTokenTTL())

	if val, ok := env["konkan_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["konkan_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["konkan_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["konkan_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}

	label, err := matchLabelJSON(state.GetOpenSeatsCount(), state.phase(), state.Tier)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Rejoining mid-round is always allowed for a player who still holds a
	// seat; otherwise an empty seat or a replaceable bot is required.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Round == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	joinedSeats := make(map[string]int)
	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if seat := matchState.seatOf(p.GetUserId()); seat >= 0 {
			// Reconnect: restore the hand and hand out a fresh token.
			mh.sendRejoinState(matchState, dispatcher, logger, p.GetUserId(), seat)
			continue
		}

		assigned := -1
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = i
				break
			}
		}
		if assigned < 0 && matchState.Round == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = i
					break
				}
			}
		}
		if assigned < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
		joinedSeats[p.GetUserId()] = assigned
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	for userID, seat := range joinedSeats {
		mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
			Kind: app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{
				UserID: userID,
				Seat:   seat,
				Owner:  seat == matchState.OwnerSeat,
			},
		})
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		// Mid-round the seat is kept so the player can resume; in the
		// lobby it is freed immediately.
		if matchState.Round != nil {
			logger.Debug("MatchLeave: User %s disconnected mid-round, seat held.", p.GetUserId())
			continue
		}
		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
				mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
					Kind:    app.EventPlayerLeft,
					Payload: app.PlayerLeftPayload{UserID: p.GetUserId()},
				})
				break
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
	}

	if matchState.Round == nil && shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartRound:
			mh.handleStartRound(ctx, matchState, dispatcher, logger, msg)
		case OpDraw:
			mh.handleDraw(ctx, matchState, dispatcher, logger, msg)
		case OpLayDown:
			mh.handleLayDown(ctx, matchState, dispatcher, logger, msg)
		case OpSarf:
			mh.handleSarf(ctx, matchState, dispatcher, logger, msg)
		case OpJokerSwap:
			mh.handleJokerSwap(ctx, matchState, dispatcher, logger, msg)
		case OpTrash:
			mh.handleTrash(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots when a lone human has waited long enough.
	if state.Round == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount >= 1 && state.GetOpenSeatsCount() > 0 {
			if state.LastShortHandedTick == 0 {
				state.LastShortHandedTick = state.Tick
				logger.Debug("processBots: Short-handed lobby, starting auto-fill timer.")
			}
			if state.Tick-state.LastShortHandedTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					identity := bot.GetBotIdentity(i)
					botID := identity.UserID
					state.Seats[i] = botID

					agent, err := bot.NewAgent(botID)
					if err != nil {
						logger.Error("processBots: Failed to create bot agent for %s: %v", botID, err)
					} else {
						state.Bots[botID] = agent
					}
					logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
					mh.broadcastEvent(ctx, state, dispatcher, logger, app.Event{
						Kind:    app.EventPlayerJoined,
						Payload: app.PlayerJoinedPayload{UserID: botID, Seat: i},
					})
					added = true
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher, logger)
				}
				state.LastShortHandedTick = 0
			}
		} else {
			state.LastShortHandedTick = 0
		}
		return
	}

	// 2. Handle bot turns in-round.
	game := state.Round.Game
	if game.Phase != domain.PhasePlaying {
		return
	}
	currentTurn := game.Turn
	currentUserID := state.Seats[currentTurn]
	if !isBotUserId(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[currentUserID]
	if !exists {
		var err error
		agent, err = bot.NewAgent(currentUserID)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[currentUserID] = agent
	}

	mh.playBotTurn(ctx, state, dispatcher, logger, agent, currentTurn)
}

// playBotTurn runs a bot's full turn: draw, then the planned play.
func (mh *matchHandler) playBotTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, agent *bot.Agent, seat int) {
	game := state.Round.Game
	player := game.Player(seat)
	if player == nil {
		return
	}

	if player.Phase == domain.TurnAwaitingDraw {
		source := app.DrawSourceStock
		if agent.ChooseDraw(game, seat) == bot.DrawTrash {
			source = app.DrawSourceTrash
		}
		events, err := state.App.Draw(state.Round, seat, source)
		if err != nil {
			// The trash pickup may be refused; the stock always works.
			events, err = state.App.Draw(state.Round, seat, app.DrawSourceStock)
			if err != nil {
				logger.Error("playBotTurn: Bot %s draw failed: %v", agent.ID, err)
				return
			}
		}
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	}

	play, err := agent.ChoosePlay(game, seat)
	if err != nil {
		logger.Error("playBotTurn: Bot %s has no play: %v", agent.ID, err)
		return
	}

	if play.Swap != nil {
		if events, err := state.App.SwapJoker(state.Round, seat, play.Swap.MeldIndex, play.Swap.Replacement); err == nil {
			mh.broadcastEvents(ctx, state, dispatcher, logger, events)
		}
	}
	if play.LayDown {
		if events, err := state.App.LayDown(state.Round, seat, play.Reserve); err == nil {
			mh.broadcastEvents(ctx, state, dispatcher, logger, events)
		}
	}
	for _, sarf := range play.Sarfs {
		events, err := state.App.Sarf(state.Round, seat, sarf.MeldIndex, sarf.Card)
		if err != nil {
			break
		}
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	}
	events, err := state.App.Trash(state.Round, seat, play.Discard)
	if err != nil {
		logger.Error("playBotTurn: Bot %s trash failed: %v", agent.ID, err)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players []PlayerSnapshot
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}
		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			displayName = name
		}

		snapshot := PlayerSnapshot{
			UserID:      userId,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			DisplayName: displayName,
		}
		if state.Round != nil {
			if p := state.Round.Game.Player(i); p != nil {
				snapshot.CardsRemaining = p.Hand.Count()
				snapshot.HasComeDown = p.HasComeDown
				snapshot.LaidPoints = p.LaidPoints
			}
		}
		players = append(players, snapshot)
	}

	snapshot := MatchSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   players,
		TrashTop:  domain.NoCard,
		InRound:   state.Round != nil,
	}
	if state.Round != nil {
		snapshot.TrashTop = state.Round.Game.TopTrash()
	}
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastMatchState: marshal failed: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, nil, nil, true)
}

// sendRejoinState privately restores a reconnecting player's view.
func (mh *matchHandler) sendRejoinState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, seat int) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	if state.Round != nil {
		if p := state.Round.Game.Player(seat); p != nil {
			payload, _ := json.Marshal(app.HandDealtPayload{UserID: userID, Hand: p.Hand.Cards()})
			dispatcher.BroadcastMessage(OpHandDealt, payload, []runtime.Presence{presence}, nil, true)
		}
		mh.sendResumeToken(state, dispatcher, logger, userID, seat)
	}
}

func (mh *matchHandler) sendResumeToken(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, seat int) {
	if state.Tokens == nil || state.Round == nil || isBotUserId(userID) {
		return
	}
	token, err := state.Tokens.GenerateToken(userID, state.MatchID, state.Round.ID, seat)
	if err != nil {
		logger.Warn("sendResumeToken: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	payload, _ := json.Marshal(ResumeTokenEvent{Token: token})
	dispatcher.BroadcastMessage(OpResumeTokenSet, payload, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) handleStartRound(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartRound: Request from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Round != nil {
		logger.Warn("StartRound: Round already in progress.")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartRound: User %s tried to start but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}
	if state.GetOccupiedSeatCount() < app.MinPlayersToStartGame {
		logger.Warn("StartRound: Cannot start with %d players. Need %d.", state.GetOccupiedSeatCount(), app.MinPlayersToStartGame)
		return
	}

	round, events, err := state.App.StartRound(state.Seats[:])
	if err != nil {
		logger.Error("StartRound: Failed to start: %v", err)
		return
	}
	state.Round = round
	if state.History == nil {
		state.History = domain.NewMatchHistory(state.Seats[:])
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	for seat, userID := range state.Seats {
		if userID != "" && !isBotUserId(userID) {
			mh.sendResumeToken(state, dispatcher, logger, userID, seat)
		}
	}

	logger.Info("StartRound: Round %s started with %d players.", round.ID, state.GetOccupiedSeatCount())
}

func (mh *matchHandler) handleDraw(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if state.Round == nil {
		logger.Warn("handleDraw: No round in progress.")
		return
	}

	var request DrawRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleDraw: Bad payload from %s: %v", senderID, err)
		return
	}

	events, err := state.App.Draw(state.Round, senderSeat, request.Source)
	if err != nil {
		logger.Warn("handleDraw: User %s (seat %d) draw failed: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleLayDown(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if state.Round == nil {
		logger.Warn("handleLayDown: No round in progress.")
		return
	}

	var request LayDownRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleLayDown: Bad payload from %s: %v", senderID, err)
		return
	}

	events, err := state.App.LayDown(state.Round, senderSeat, domain.CardID(request.Reserve))
	if err != nil {
		logger.Warn("handleLayDown: User %s (seat %d) failed: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	mh.broadcastMatchState(state, dispatcher, logger)
}

func (mh *matchHandler) handleSarf(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if state.Round == nil {
		logger.Warn("handleSarf: No round in progress.")
		return
	}

	var request SarfRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleSarf: Bad payload from %s: %v", senderID, err)
		return
	}

	events, err := state.App.Sarf(state.Round, senderSeat, request.MeldIndex, domain.CardID(request.Card))
	if err != nil {
		logger.Warn("handleSarf: User %s (seat %d) failed: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleJokerSwap(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if state.Round == nil {
		logger.Warn("handleJokerSwap: No round in progress.")
		return
	}

	var request JokerSwapRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleJokerSwap: Bad payload from %s: %v", senderID, err)
		return
	}

	events, err := state.App.SwapJoker(state.Round, senderSeat, request.MeldIndex, domain.CardID(request.Replacement))
	if err != nil {
		logger.Warn("handleJokerSwap: User %s (seat %d) failed: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleTrash(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if state.Round == nil {
		logger.Warn("handleTrash: No round in progress.")
		return
	}

	var request TrashRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleTrash: Bad payload from %s: %v", senderID, err)
		return
	}

	events, err := state.App.Trash(state.Round, senderSeat, domain.CardID(request.Card))
	if err != nil {
		logger.Warn("handleTrash: User %s (seat %d) failed: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	switch ev.Kind {
	case app.EventPlayerJoined:
		opCode = OpPlayerJoined
	case app.EventPlayerLeft:
		opCode = OpPlayerLeft
	case app.EventRoundStarted:
		opCode = OpRoundStarted
	case app.EventHandDealt:
		opCode = OpHandDealt
	case app.EventCardDrawn:
		opCode = OpCardDrawn
	case app.EventCameDown:
		opCode = OpCameDown
	case app.EventCardSarfed:
		opCode = OpCardSarfed
	case app.EventJokerSwapped:
		opCode = OpJokerSwapped
	case app.EventCardTrashed:
		opCode = OpCardTrashed
	case app.EventRoundEnded:
		opCode = OpRoundEnded
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast).
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// If there were intended recipients but none are connected (e.g.
		// they are bots), do not fall back to a broadcast.
		if len(recipients) == 0 {
			if ev.Kind == app.EventRoundEnded {
				mh.settleRound(ctx, state, dispatcher, logger, ev)
			}
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)

	if ev.Kind == app.EventRoundEnded {
		mh.settleRound(ctx, state, dispatcher, logger, ev)
	}
}

// settleRound applies wallet changes, records the round into the match
// history and returns the table to the lobby.
func (mh *matchHandler) settleRound(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	payload, ok := ev.Payload.(app.RoundEndedPayload)
	if !ok || state.Round == nil {
		return
	}

	if state.Economy != nil {
		updates := make([]ports.WalletUpdate, 0, len(payload.Scores))
		for _, score := range payload.Scores {
			userID := state.Seats[score.Seat]
			if userID == "" || isBotUserId(userID) {
				continue
			}
			amount := int64(score.NetPoints) * state.BaseBet
			if amount > 0 && state.TaxRate > 0 {
				amount -= int64(float64(amount) * state.TaxRate)
			}
			if amount == 0 {
				continue
			}
			updates = append(updates, ports.WalletUpdate{
				UserID: userID,
				Amount: amount,
				Metadata: map[string]interface{}{
					"match_id": state.MatchID,
					"round_id": payload.RoundID,
					"reason":   "round_settlement",
				},
			})
		}
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("settleRound: Failed to update balances: %v", err)
		}
	}

	if summary, err := state.App.Summarize(state.Round); err == nil && state.History != nil {
		state.History.Record(summary)
	}

	state.Round = nil
	state.BotWaitUntil = 0
	mh.updateLabel(state, dispatcher, logger)
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	bytes, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabelJSON(state.GetOpenSeatsCount(), state.phase(), state.Tier)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
