package domain

// ExpectedMove is one queue entry: the action that is legal next and the
// set of players who may perform it, in any order.
type ExpectedMove struct {
	Action  Action   `json:"action"`
	Players []string `json:"players"`
}

// allows reports whether the entry admits the player.
func (m ExpectedMove) allows(playerID string) bool {
	for _, id := range m.Players {
		if id == playerID {
			return true
		}
	}
	return false
}

// GameState is the mutable turn state: the expected-move queue, the robber
// position and the winner. The queue becomes empty exactly when the winner
// is set.
type GameState struct {
	ExpectedMoves []ExpectedMove `json:"expectedMoves"`
	Robber        *HexCoordinate `json:"robber,omitempty"`
	Winner        string         `json:"winner,omitempty"`
}

// NewGameState builds the opening state: every player is expected to make
// a founding roll, and the robber starts on the first desert tile.
func NewGameState(board *Board, playerIDs []string) *GameState {
	st := &GameState{
		ExpectedMoves: []ExpectedMove{{
			Action:  ActionFoundingRoll,
			Players: append([]string(nil), playerIDs...),
		}},
	}
	for _, t := range board.Tiles {
		if t.Type == TileDesert {
			c := t.Coordinate
			st.Robber = &c
			break
		}
	}
	return st
}

// expects verifies the request matches the queue head.
func (st *GameState) expects(playerID string, action Action) error {
	if len(st.ExpectedMoves) == 0 {
		return IllegalMovef("no move is expected")
	}
	head := st.ExpectedMoves[0]
	// While a trade is open the offer and accept entries sit side by side;
	// an addressed partner may answer the offer entry with an accept or a
	// decline instead of a counter-offer.
	if head.Action == ActionOffer && action == ActionAccept && len(st.ExpectedMoves) > 1 {
		head = st.ExpectedMoves[1]
	}
	if head.Action != action {
		return IllegalMovef("expected %s, not %s", head.Action, action)
	}
	if !head.allows(playerID) {
		return IllegalMovef("it's not your turn")
	}
	return nil
}

func (st *GameState) head() *ExpectedMove {
	if len(st.ExpectedMoves) == 0 {
		return nil
	}
	return &st.ExpectedMoves[0]
}

func (st *GameState) pop() {
	if len(st.ExpectedMoves) > 0 {
		st.ExpectedMoves = st.ExpectedMoves[1:]
	}
}

func (st *GameState) push(moves ...ExpectedMove) {
	st.ExpectedMoves = append(st.ExpectedMoves, moves...)
}

// insertAhead places entries before the current head.
func (st *GameState) insertAhead(moves ...ExpectedMove) {
	st.ExpectedMoves = append(moves, st.ExpectedMoves...)
}

// dropPlayerFromHead removes the player from the head entry, popping the
// entry once its player set empties. Returns true if the entry was popped.
func (st *GameState) dropPlayerFromHead(playerID string) bool {
	head := st.head()
	if head == nil {
		return false
	}
	head.Players = without(head.Players, playerID)
	if len(head.Players) == 0 {
		st.pop()
		return true
	}
	return false
}

// stripPlayer removes the player from every queued entry and drops entries
// left with no players.
func (st *GameState) stripPlayer(playerID string) {
	kept := st.ExpectedMoves[:0]
	for _, m := range st.ExpectedMoves {
		m.Players = without(m.Players, playerID)
		if len(m.Players) > 0 {
			kept = append(kept, m)
		}
	}
	st.ExpectedMoves = kept
}

func without(ids []string, drop string) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			kept = append(kept, id)
		}
	}
	return kept
}

// applyFoundingRoll records a ceremonial opening roll. Once every player
// has rolled, the founding placement queue replaces the roll entry: two
// settlement+road pairs per player, the second round in reverse join
// order, then the first normal roll.
func (g *Game) applyFoundingRoll(actor *Player, req MoveRequest, res *MoveResult) error {
	roll := req.Roll
	if roll == 0 {
		roll = RollDice(g.Rand)
	}
	res.Roll = roll

	if g.State.dropPlayerFromHead(actor.ID) {
		g.State.ExpectedMoves = foundingQueue(g.ActivePlayerIDs())
	}
	g.touchState()
	return nil
}

// foundingQueue lays out the placement sub-phase for the given players in
// join order.
func foundingQueue(playerIDs []string) []ExpectedMove {
	moves := make([]ExpectedMove, 0, 4*len(playerIDs)+1)
	for _, id := range playerIDs {
		moves = append(moves,
			ExpectedMove{Action: ActionFoundingSettlement1, Players: []string{id}},
			ExpectedMove{Action: ActionFoundingRoad1, Players: []string{id}},
		)
	}
	for i := len(playerIDs) - 1; i >= 0; i-- {
		id := playerIDs[i]
		moves = append(moves,
			ExpectedMove{Action: ActionFoundingSettlement2, Players: []string{id}},
			ExpectedMove{Action: ActionFoundingRoad2, Players: []string{id}},
		)
	}
	if len(playerIDs) > 0 {
		moves = append(moves, ExpectedMove{Action: ActionRoll, Players: []string{playerIDs[0]}})
	}
	return moves
}

// applyBuild handles the build umbrella action: a building payload places,
// a resources payload trades, a development-card payload buys or plays,
// and an empty payload ends the turn.
func (g *Game) applyBuild(actor *Player, req MoveRequest, res *MoveResult) error {
	switch {
	case req.Building != nil:
		return g.applyPlacement(actor, *req.Building, req.Action, res)
	case req.DevelopmentCard != "":
		if req.DevelopmentCard == NewDevelopmentCard {
			return g.buyDevelopmentCard(actor, res)
		}
		return g.playDevelopmentCard(actor, CardType(req.DevelopmentCard), res)
	case len(req.Resources) > 0:
		if req.Partner == BankPartner {
			return g.bankTrade(actor, req.Resources, res)
		}
		return g.openTrade(actor, req.Resources, req.Partner, res)
	default:
		return g.endTurn(actor, res)
	}
}

// endTurn pops the build entry, unlocks the cards bought this turn and
// queues the next player's roll.
func (g *Game) endTurn(actor *Player, res *MoveResult) error {
	actor.UnlockCards()
	g.touch(actor)

	g.State.pop()
	next := g.nextActiveAfter(actor.ID)
	if next != "" {
		g.State.push(ExpectedMove{Action: ActionRoll, Players: []string{next}})
	}
	g.touchState()

	res.TurnEnded = true
	res.NextPlayer = next
	return nil
}

// applyDrop sheds half of an over-limit hand after a robber roll. The
// request's deltas must all be non-positive and total exactly half the
// hand, rounded down.
func (g *Game) applyDrop(actor *Player, req MoveRequest, res *MoveResult) error {
	total := 0
	for _, d := range req.Resources {
		if d > 0 {
			return IllegalMovef("a drop cannot gain resources")
		}
		total -= d
	}
	if want := actor.TotalResources() / 2; total != want {
		return IllegalMovef("you must drop exactly %d resources", want)
	}
	if err := actor.ApplyResourceDelta(req.Resources); err != nil {
		return err
	}
	g.touch(actor)

	g.State.dropPlayerFromHead(actor.ID)
	g.touchState()

	res.Dropped = req.Resources
	return nil
}
