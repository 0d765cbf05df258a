package domain

import "github.com/google/uuid"

// GameSettings are the per-game knobs read from the game repository.
type GameSettings struct {
	VictoryPoints     int              `json:"victoryPoints"`
	StartingResources map[Resource]int `json:"startingResources,omitempty"`
	MapTemplate       string           `json:"mapTemplate,omitempty"`
	MapRadius         int              `json:"mapRadius,omitempty"`
	// RollSeven allows sevens to be rolled; when false a seven is re-rolled.
	RollSeven bool `json:"roll7"`
}

// VictoryTarget returns the configured win target or the default.
func (s GameSettings) VictoryTarget() int {
	if s.VictoryPoints > 0 {
		return s.VictoryPoints
	}
	return DefaultVictoryPoints
}

// Radius returns the configured board radius or the default.
func (s GameSettings) Radius() int {
	if s.MapRadius > 0 {
		return s.MapRadius
	}
	return DefaultMapRadius
}

// Title is a transferable bookkeeping title worth bonus victory points.
type Title string

const (
	TitleLongestRoad Title = "longest-road"
	TitleLargestArmy Title = "largest-army"
)

// TitleTransfer records a title changing hands. From is empty when the
// title was previously unheld; To is empty when it becomes unheld.
type TitleTransfer struct {
	Title Title  `json:"title"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

// Theft records one resource stolen during a robbery.
type Theft struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Resource Resource `json:"resource"`
}

// TradeFacts records an executed trade for event emission. Deltas are from
// Giver's perspective; Taker received the mirrored amounts.
type TradeFacts struct {
	Giver  string           `json:"giver"`
	Taker  string           `json:"taker"`
	Deltas map[Resource]int `json:"deltas"`
}

// MoveResult carries the facts of one accepted move, for the move log and
// for event emission.
type MoveResult struct {
	Action         Action
	Actor          string
	Roll           int
	Building       *Building
	Distributions  map[string]map[Resource]int
	Theft          *Theft
	DrawnCard      *DevelopmentCard
	PlayedCard     CardType
	Trade          *TradeFacts
	Dropped        map[Resource]int
	TitleTransfers []TitleTransfer
	TurnEnded      bool
	NextPlayer     string
	Winner         string
}

// ChangeSet tracks which records a move touched, in commit order. Players
// are ordered so that a title grant is persisted before the matching
// revoke (see the title-transfer contract).
type ChangeSet struct {
	Players   []string
	Buildings []string
	State     bool
}

// Game is the aggregate a single move executes against: settings, board,
// players in stable join order, the building ledger and the turn state.
// One Game is loaded, mutated and committed per move; per-game
// serializability is the caller's responsibility.
type Game struct {
	ID        string
	Settings  GameSettings
	Board     *Board
	Players   []*Player
	Buildings []*Building
	State     *GameState
	Rand      Rand

	changes       ChangeSet
	pendingTitles []TitleTransfer
}

// NewGame assembles the aggregate. A nil rng falls back to the production
// source.
func NewGame(id string, settings GameSettings, board *Board, players []*Player, buildings []*Building, state *GameState, rng Rand) *Game {
	if rng == nil {
		rng = NewRand()
	}
	return &Game{
		ID:        id,
		Settings:  settings,
		Board:     board,
		Players:   players,
		Buildings: buildings,
		State:     state,
		Rand:      rng,
	}
}

// Player finds a participant by id.
func (g *Game) Player(id string) (*Player, error) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, NotFoundf("player %s not in game", id)
}

// ActivePlayerIDs lists active players in join order.
func (g *Game) ActivePlayerIDs() []string {
	ids := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Active {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Changes returns the records touched since the aggregate was loaded.
func (g *Game) Changes() ChangeSet {
	return g.changes
}

func (g *Game) touch(p *Player) {
	for _, id := range g.changes.Players {
		if id == p.ID {
			return
		}
	}
	g.changes.Players = append(g.changes.Players, p.ID)
}

func (g *Game) touchState() {
	g.changes.State = true
}

func (g *Game) touchBuilding(b *Building) {
	for _, id := range g.changes.Buildings {
		if id == b.ID {
			return
		}
	}
	g.changes.Buildings = append(g.changes.Buildings, b.ID)
}

func newRecordID() string {
	return uuid.NewString()
}

// Apply validates and executes one move against the aggregate. All rule
// checks for an action run before any mutation; on error the aggregate is
// unchanged. The turn state machine advances as part of a successful apply.
func (g *Game) Apply(actorID string, req MoveRequest) (*MoveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	actor, err := g.Player(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Active {
		return nil, IllegalMovef("player %s is no longer active", actorID)
	}

	// Victory is checked before processing any move: once a winner exists
	// no further move is legal.
	if winner := g.checkVictory(); winner != "" {
		return nil, IllegalMovef("the game is over")
	}

	if err := g.State.expects(actorID, req.Action); err != nil {
		return nil, err
	}

	res := &MoveResult{Action: req.Action, Actor: actorID}
	switch req.Action {
	case ActionFoundingRoll:
		err = g.applyFoundingRoll(actor, req, res)
	case ActionFoundingSettlement1, ActionFoundingSettlement2,
		ActionFoundingRoad1, ActionFoundingRoad2:
		err = g.applyFoundingPlacement(actor, req, res)
	case ActionRoll:
		err = g.applyRoll(actor, res)
	case ActionBuild:
		err = g.applyBuild(actor, req, res)
	case ActionBuildRoad:
		err = g.applyBuildRoad(actor, req, res)
	case ActionDrop:
		err = g.applyDrop(actor, req, res)
	case ActionRob:
		err = g.applyRob(actor, req, res)
	case ActionOffer:
		err = g.applyOffer(actor, req, res)
	case ActionAccept:
		err = g.applyAccept(actor, req, res)
	case ActionMonopoly:
		err = g.applyMonopoly(actor, req, res)
	case ActionYearOfPlenty:
		err = g.applyYearOfPlenty(actor, req, res)
	default:
		err = Validationf("unknown action %q", req.Action)
	}
	if err != nil {
		g.pendingTitles = nil
		return nil, err
	}
	res.TitleTransfers = g.pendingTitles
	g.pendingTitles = nil

	// A move can push a player over the target mid-turn; settle it now so
	// the queue empties together with the winner being set.
	if winner := g.checkVictory(); winner != "" {
		res.Winner = winner
	}
	return res, nil
}

// checkVictory scans active players in join order and crowns the first one
// at or above the target. The queue is cleared when a winner is set.
func (g *Game) checkVictory() string {
	if g.State.Winner != "" {
		return g.State.Winner
	}
	target := g.Settings.VictoryTarget()
	for _, p := range g.Players {
		if p.Active && p.VictoryPoints >= target {
			g.State.Winner = p.ID
			g.State.ExpectedMoves = nil
			g.touchState()
			return p.ID
		}
	}
	return ""
}

// RemovePlayer deactivates a player and heals the move queue: the player is
// stripped from every entry, emptied entries are dropped, and if the queue
// empties entirely a fresh roll is synthesized for the nearest active
// player (scanning forward then backward from the removed seat).
func (g *Game) RemovePlayer(playerID string) error {
	removed, err := g.Player(playerID)
	if err != nil {
		return err
	}
	removed.Active = false
	g.touch(removed)

	g.State.stripPlayer(playerID)

	if len(g.State.ExpectedMoves) == 0 && g.State.Winner == "" {
		if next := g.nextActiveFrom(playerID); next != "" {
			g.State.push(ExpectedMove{Action: ActionRoll, Players: []string{next}})
		}
	}
	g.touchState()
	return nil
}

// nextActiveFrom finds the nearest active player scanning forward from the
// given seat, then backward.
func (g *Game) nextActiveFrom(playerID string) string {
	idx := -1
	for i, p := range g.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}
	for i := idx + 1; i < len(g.Players); i++ {
		if g.Players[i].Active {
			return g.Players[i].ID
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if g.Players[i].Active {
			return g.Players[i].ID
		}
	}
	return ""
}

// nextActiveAfter returns the active player following the given one in join
// order, wrapping around.
func (g *Game) nextActiveAfter(playerID string) string {
	idx := -1
	for i, p := range g.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		p := g.Players[(idx+step)%n]
		if p.Active {
			return p.ID
		}
	}
	return ""
}

// StartGame seeds a fresh game: a generated board, one player per member
// with full stock and the configured starting resources, and the founding
// roll expected from everyone.
func StartGame(id string, settings GameSettings, memberIDs []string, rng Rand) (*Board, []*Player, *GameState) {
	if rng == nil {
		rng = NewRand()
	}
	board := BoardFor(settings, rng)
	players := make([]*Player, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		players = append(players, NewPlayer(memberID, settings.StartingResources))
	}
	state := NewGameState(board, memberIDs)
	return board, players, state
}
