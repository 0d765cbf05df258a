package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pioneers/internal/domain"
)

func testView(playerIDs []string, head domain.ExpectedMove) View {
	players := make([]*domain.Player, len(playerIDs))
	for i, id := range playerIDs {
		players[i] = domain.NewPlayer(id, nil)
	}
	board := domain.GenerateBoard(1, domain.NewRand())
	return View{
		PlayerID: playerIDs[0],
		Board:    board,
		Players:  players,
		State:    &domain.GameState{ExpectedMoves: []domain.ExpectedMove{head}},
	}
}

func expectHead(action domain.Action, playerIDs ...string) domain.ExpectedMove {
	return domain.ExpectedMove{Action: action, Players: playerIDs}
}

func TestViewHeadRespectsAddressing(t *testing.T) {
	v := testView([]string{"me", "other"}, expectHead(domain.ActionBuild, "other"))
	assert.Nil(t, v.Head(), "the head is someone else's to act on")

	v.State.ExpectedMoves[0].Players = []string{"me", "other"}
	require.NotNil(t, v.Head())
	assert.Equal(t, domain.ActionBuild, v.Head().Action)
}

func TestFoundingSettlementCandidatesRespectDistance(t *testing.T) {
	v := testView([]string{"me", "other"}, expectHead(domain.ActionFoundingSettlement1, "me"))
	// An opponent settlement removes its corner and the neighbours.
	v.Buildings = []*domain.Building{{
		ID: "b1", Owner: "other", Type: domain.Settlement,
		Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0,
	}}

	reqs := CandidateMoves(v)
	require.NotEmpty(t, reqs)
	for _, r := range reqs {
		require.NotNil(t, r.Building)
		assert.Equal(t, domain.Settlement, r.Building.Type)
		corner := domain.Corner{Coordinate: r.Building.Coordinate(), Side: r.Building.Side}
		assert.NotEqual(t, domain.Corner{Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0}, corner)
		for _, n := range corner.AdjacentCorners() {
			assert.NotEqual(t, domain.Corner{Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0}, n,
				"candidate %v ignores the distance rule", corner)
		}
	}
}

func TestFoundingRoadCandidatesServeTheRoadlessSettlement(t *testing.T) {
	v := testView([]string{"me"}, expectHead(domain.ActionFoundingRoad1, "me"))
	v.Buildings = []*domain.Building{
		{ID: "b1", Owner: "me", Type: domain.Settlement,
			Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0},
	}

	reqs := CandidateMoves(v)
	require.Len(t, reqs, 3, "one candidate per corner edge")
	corner := domain.Corner{Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0}
	for _, r := range reqs {
		edge := domain.Edge{Coordinate: r.Building.Coordinate(), Side: r.Building.Side}
		assert.True(t, edge.Touches(corner))
	}

	// Once a road is attached, the settlement stops generating spots.
	first := reqs[0]
	v.Buildings = append(v.Buildings, &domain.Building{
		ID: "b2", Owner: "me", Type: domain.Road,
		Coordinate: first.Building.Coordinate(), Side: first.Building.Side,
	})
	assert.Empty(t, CandidateMoves(v))
}

func TestBuildCandidatesOrderAndFallback(t *testing.T) {
	v := testView([]string{"me", "other"}, expectHead(domain.ActionBuild, "me"))

	// A broke player can only end the turn.
	reqs := CandidateMoves(v)
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.MoveRequest{Action: domain.ActionBuild}, reqs[0])

	// With a settlement, road money and a playable card the order is
	// structure first, then cards, then the bare end-turn.
	self := v.Self()
	give := domain.BuildingCosts[domain.Road]
	for r, n := range give {
		self.Resources[r] += n
	}
	self.Cards = []domain.DevelopmentCard{
		{Type: domain.Knight},
		{Type: domain.VictoryPoint},
		{Type: domain.Monopoly, Locked: true},
	}
	v.Buildings = []*domain.Building{{
		ID: "b1", Owner: "me", Type: domain.Settlement,
		Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0,
	}}

	reqs = CandidateMoves(v)
	require.NotEmpty(t, reqs)

	var kinds []string
	for _, r := range reqs {
		switch {
		case r.Building != nil:
			kinds = append(kinds, string(r.Building.Type))
		case r.DevelopmentCard != "":
			kinds = append(kinds, "card:"+r.DevelopmentCard)
		default:
			kinds = append(kinds, "end")
		}
	}
	assert.Equal(t, "end", kinds[len(kinds)-1], "ending the turn is always the last resort")
	assert.Contains(t, kinds, "card:knight")
	assert.NotContains(t, kinds, "card:victory-point", "victory cards are never played")
	assert.NotContains(t, kinds, "card:monopoly", "locked cards stay in hand")
	assert.Contains(t, kinds, string(domain.Road))
}

func TestBankTradeCandidates(t *testing.T) {
	v := testView([]string{"me"}, expectHead(domain.ActionBuild, "me"))
	self := v.Self()
	self.Resources[domain.Lumber] = 5
	self.Resources[domain.Brick] = 1

	var trades []domain.MoveRequest
	for _, r := range CandidateMoves(v) {
		if r.Partner == domain.BankPartner {
			trades = append(trades, r)
		}
	}
	require.Len(t, trades, 1)
	assert.Equal(t, -4, trades[0].Resources[domain.Lumber])
	received := 0
	for r, d := range trades[0].Resources {
		if d > 0 {
			received += d
			assert.Zero(t, self.Resources[r], "trades target a resource the hand lacks")
		}
	}
	assert.Equal(t, 1, received)
}

func TestDropRequestShedsExactlyHalf(t *testing.T) {
	self := domain.NewPlayer("me", map[domain.Resource]int{
		domain.Lumber: 5, domain.Ore: 3, domain.Wool: 1,
	})

	req := dropRequest(self)
	assert.Equal(t, domain.ActionDrop, req.Action)
	total := 0
	for r, d := range req.Resources {
		assert.LessOrEqual(t, d, 0)
		assert.GreaterOrEqual(t, self.Resources[r]+d, 0)
		total -= d
	}
	assert.Equal(t, 4, total, "nine cards shed four")
	assert.Equal(t, -3, req.Resources[domain.Lumber], "the tallest stack pays the most")
}

func TestRobCandidatesAvoidTheCurrentTile(t *testing.T) {
	v := testView([]string{"me", "other"}, expectHead(domain.ActionRob, "me"))
	robber := v.Board.Tiles[0].Coordinate
	v.State.Robber = &robber
	v.Buildings = []*domain.Building{{
		ID: "b1", Owner: "other", Type: domain.Settlement,
		Coordinate: v.Board.Tiles[1].Coordinate, Side: 0,
	}}

	reqs := CandidateMoves(v)
	require.NotEmpty(t, reqs)
	sawVictim := false
	for _, r := range reqs {
		require.NotNil(t, r.Rob)
		assert.NotEqual(t, robber, r.Rob.Coordinate(), "the robber must move")
		if r.Rob.Target != "" {
			assert.Equal(t, "other", r.Rob.Target)
			sawVictim = true
		}
	}
	assert.True(t, sawVictim, "tiles with opponents name their victims")
}

func TestMonopolyTargetsTheRichestResource(t *testing.T) {
	v := testView([]string{"me", "a", "b"}, expectHead(domain.ActionMonopoly, "me"))
	pa := v.Players[1]
	pb := v.Players[2]
	pa.Resources[domain.Ore] = 4
	pb.Resources[domain.Ore] = 2
	pb.Resources[domain.Grain] = 3

	reqs := CandidateMoves(v)
	require.Len(t, reqs, 1)
	assert.Equal(t, map[domain.Resource]int{domain.Ore: 1}, reqs[0].Resources)
}

func TestNegotiationAlwaysDeclines(t *testing.T) {
	v := testView([]string{"me", "other"}, expectHead(domain.ActionOffer, "me"))
	reqs := CandidateMoves(v)
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.MoveRequest{Action: domain.ActionAccept}, reqs[0])
}

func TestAgentPlaysOnlyItsTurn(t *testing.T) {
	v := testView([]string{"me", "other"}, expectHead(domain.ActionRoll, "other"))
	agent, err := NewAgent("me", BotLevelGreedy, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Nil(t, agent.Play(v))

	v.State.ExpectedMoves[0].Players = []string{"me"}
	reqs := agent.Play(v)
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.ActionRoll, reqs[0].Action)
}

func TestGreedyBotKeepsKindOrdering(t *testing.T) {
	v := testView([]string{"me"}, expectHead(domain.ActionBuild, "me"))
	self := v.Self()
	for r, n := range domain.BuildingCosts[domain.Road] {
		self.Resources[r] += n
	}
	v.Buildings = []*domain.Building{{
		ID: "b1", Owner: "me", Type: domain.Settlement,
		Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0,
	}}

	bot := &GreedyBot{Rng: rand.New(rand.NewSource(7))}
	reqs := bot.CalculateMoves(v)
	require.NotEmpty(t, reqs)

	// Roads (if any) stay ahead of the end-turn, whatever the shuffle did.
	lastRoad, endTurn := -1, -1
	for i, r := range reqs {
		if r.Building != nil && r.Building.Type == domain.Road {
			lastRoad = i
		}
		if r.Building == nil && r.DevelopmentCard == "" && r.Partner == "" {
			endTurn = i
		}
	}
	require.GreaterOrEqual(t, lastRoad, 0)
	assert.Greater(t, endTurn, lastRoad)
}

func TestBuildRoadCandidatesEndWithTheForfeit(t *testing.T) {
	v := testView([]string{"me"}, expectHead(domain.ActionBuildRoad, "me"))

	// No network means no placements, only the bare forfeit.
	reqs := CandidateMoves(v)
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.MoveRequest{Action: domain.ActionBuildRoad}, reqs[0])

	// With a settlement the placements come first and the forfeit stays
	// last, so a placement wins whenever one is still accepted.
	v.Buildings = []*domain.Building{{
		ID: "b1", Owner: "me", Type: domain.Settlement,
		Coordinate: domain.HexCoordinate{X: 0, Y: 0, Z: 0}, Side: 0,
	}}
	reqs = CandidateMoves(v)
	require.Greater(t, len(reqs), 1)
	for _, r := range reqs[:len(reqs)-1] {
		require.NotNil(t, r.Building)
		assert.Equal(t, domain.Road, r.Building.Type)
	}
	assert.Nil(t, reqs[len(reqs)-1].Building)
}
