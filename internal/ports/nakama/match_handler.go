package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"pioneers/internal/app"
	"pioneers/internal/config"
	"pioneers/internal/domain"
)

const (
	phaseLobby    = "lobby"
	phasePlaying  = "playing"
	phaseFinished = "finished"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	GameID     string                      `json:"game_id"`
	Seats      []string                    `json:"seats"`      // user IDs in join order, empty string means seat is empty
	OwnerSeat  int                         `json:"owner_seat"` // seat index of the match owner
	Phase      string                      `json:"phase"`
	Tick       int64                       `json:"tick"`
	Presences  map[string]runtime.Presence `json:"-"` // UserId -> Presence for targeted messaging
	Spectators map[string]runtime.Presence `json:"-"` // watchers without a seat
	Settings   domain.GameSettings         `json:"settings"`
	App        *app.Service                `json:"-"`
	Publisher  *DispatcherPublisher        `json:"-"`
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
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// seatedPlayers returns occupied seats in join order. Seats are handed out
// first-empty-wins, so seat order is join order.
func (ms *MatchState) seatedPlayers() []string {
	players := make([]string, 0, len(ms.Seats))
	for _, seat := range ms.Seats {
		if seat != "" {
			players = append(players, seat)
		}
	}
	return players
}

// findFirstOccupiedSeat returns the first occupied seat index or -1.
func findFirstOccupiedSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" {
			return i
		}
	}
	return -1
}

// matchDirectory serves the orchestrator's settings and membership reads
// from the live match state instead of a database.
type matchDirectory struct {
	state *MatchState
}

func (d *matchDirectory) Settings(ctx context.Context, gameID string) (domain.GameSettings, error) {
	return d.state.Settings, nil
}

func (d *matchDirectory) ActivePlayers(ctx context.Context, gameID string) ([]string, error) {
	return d.state.seatedPlayers(), nil
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

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	state := &MatchState{
		GameID:     matchID,
		Seats:      make([]string, config.GetMaxPlayers()),
		OwnerSeat:  -1,
		Phase:      phaseLobby,
		Presences:  make(map[string]runtime.Presence),
		Spectators: make(map[string]runtime.Presence),
		Settings:   settingsFromConfig(),
	}

	state.Publisher = NewDispatcherPublisher(state.Presences)
	store := NewStorageStore(nk)
	state.App = app.NewService(app.Dependencies{
		Games:     &matchDirectory{state: state},
		Members:   &matchDirectory{state: state},
		Boards:    store,
		Players:   store,
		Buildings: store,
		States:    store,
		Moves:     store,
		Events:    state.Publisher,
	}, nil)

	label := MatchLabel{Game: "pioneers", Open: state.GetOpenSeatsCount(), Phase: state.Phase}

	tickRate := 1
	return state, tickRate, label.Encode()
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Spectators never take a seat and may join at any phase.
	if metadata["spectator"] == "true" {
		return state, true, ""
	}

	// Returning players keep their seat across reconnects.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}

	if matchState.Phase != phaseLobby {
		return state, false, "Game already started"
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "Match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Publisher.Bind(dispatcher, logger)

	for _, p := range presences {
		userID := p.GetUserId()

		if matchState.seatOf(userID) >= 0 {
			// Reconnect, seat retained.
			matchState.Presences[userID] = p
			continue
		}

		if matchState.Phase != phaseLobby {
			matchState.Spectators[userID] = p
			logger.Debug("MatchJoin: %s joined as spectator.", userID)
			continue
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = userID
				matchState.Presences[userID] = p
				assigned = true
				break
			}
		}
		if !assigned {
			matchState.Spectators[userID] = p
			logger.Warn("MatchJoin: User %s joined with no seat available, watching.", userID)
		}
	}

	// The owner is always the earliest seated player still present.
	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats)
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
	matchState.Publisher.Bind(dispatcher, logger)

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		if _, watching := matchState.Spectators[userID]; watching {
			delete(matchState.Spectators, userID)
			continue
		}

		seat := matchState.seatOf(userID)
		if seat < 0 {
			continue
		}

		if matchState.Phase == phasePlaying {
			// Mid-game leavers are deactivated, not unseated: their
			// buildings stay on the board and they may reconnect.
			if err := matchState.App.RemovePlayer(ctx, matchState.GameID, userID); err != nil {
				logger.Error("MatchLeave: Failed to remove player %s: %v", userID, err)
			}
			continue
		}

		matchState.Seats[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
	}

	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats)
	}

	if len(matchState.Presences) == 0 && len(matchState.Spectators) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	matchState.Publisher.Bind(dispatcher, logger)

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpMove:
			mh.handleMove(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Phase != phaseLobby {
		mh.sendError(state, dispatcher, logger, senderID, domain.IllegalMovef("the game already started"))
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, domain.IllegalMovef("only the owner starts the game"))
		return
	}

	occupied := state.GetOccupiedSeatCount()
	if occupied < config.GetMinPlayersToStart() {
		logger.Warn("StartGame: Cannot start with %d players. Need at least %d.", occupied, config.GetMinPlayersToStart())
		mh.sendError(state, dispatcher, logger, senderID, domain.IllegalMovef("need at least %d players", config.GetMinPlayersToStart()))
		return
	}

	if err := state.App.StartGame(ctx, state.GameID); err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	state.Phase = phasePlaying
	mh.updateLabel(state, dispatcher, logger)
	logger.Info("StartGame: Game started with %d players.", occupied)
}

func (mh *matchHandler) handleMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Phase != phasePlaying {
		mh.sendError(state, dispatcher, logger, senderID, domain.IllegalMovef("the game is not running"))
		return
	}
	if state.seatOf(senderID) < 0 {
		mh.sendError(state, dispatcher, logger, senderID, domain.IllegalMovef("spectators cannot move"))
		return
	}

	req, err := parseMoveRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleMove: User %s sent a bad payload: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	res, err := state.App.HandleMove(ctx, state.GameID, senderID, req)
	if err != nil {
		logger.Warn("handleMove: User %s move %s rejected: %v", senderID, req.Action, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	if data, err := json.Marshal(res); err == nil {
		if presence, ok := state.Presences[senderID]; ok {
			dispatcher.BroadcastMessage(OpMoveResult, data, []runtime.Presence{presence}, nil, true)
		}
	}

	if res.Winner != "" {
		state.Phase = phaseFinished
		mh.updateLabel(state, dispatcher, logger)
	}
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snapshot := MatchStateSnapshot{
		Seats:     state.Seats,
		OwnerSeat: state.OwnerSeat,
		Phase:     state.Phase,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchState, data, nil, nil, true)
}

// sendError sends an ErrorEnvelope to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, moveErr error) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, encodeError(moveErr), []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := MatchLabel{Game: "pioneers", Open: state.GetOpenSeatsCount(), Phase: state.Phase}
	if state.Phase != phaseLobby {
		label.Open = 0
	}
	if err := dispatcher.MatchLabelUpdate(label.Encode()); err != nil {
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

// settingsFromConfig maps the loaded game config onto engine settings.
func settingsFromConfig() domain.GameSettings {
	settings := domain.GameSettings{
		VictoryPoints: config.GetVictoryPoints(),
		MapRadius:     config.GetMapRadius(),
	}
	if cfg := config.GetGameConfig(); cfg != nil {
		settings.MapTemplate = cfg.MapTemplate
		settings.RollSeven = cfg.RollSeven
		if len(cfg.StartingResources) > 0 {
			settings.StartingResources = make(map[domain.Resource]int, len(cfg.StartingResources))
			for name, n := range cfg.StartingResources {
				settings.StartingResources[domain.Resource(name)] = n
			}
		}
	}
	return settings
}
