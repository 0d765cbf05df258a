package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productionBoard is a minimal board for distribution tests: a desert in
// the middle and two tiles sharing the number five.
func productionBoard() *Board {
	return &Board{Radius: 1, Tiles: []Tile{
		{Coordinate: HexCoordinate{0, 0, 0}, Type: TileDesert},
		{Coordinate: HexCoordinate{1, 0, -1}, Type: TileLumber, Token: 5},
		{Coordinate: HexCoordinate{0, 1, -1}, Type: TileBrick, Token: 5},
		{Coordinate: HexCoordinate{-1, 0, 1}, Type: TileOre, Token: 9},
	}}
}

func expectRoll(playerID string) ExpectedMove {
	return ExpectedMove{Action: ActionRoll, Players: []string{playerID}}
}

func TestRollDistributesResources(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"}, expectRoll("p1"))
	g.Board = productionBoard()
	g.Rand = &scriptRand{vals: rollValues(5)}
	g.Settings.RollSeven = true

	// (0,0,0)/0 touches both five-tiles; (1,0,-1)/0 touches the lumber one.
	placed(g, "p1", Settlement, HexCoordinate{0, 0, 0}, 0)
	placed(g, "p2", City, HexCoordinate{1, 0, -1}, 0)

	res, err := g.Apply("p1", MoveRequest{Action: ActionRoll})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Roll)
	assert.Equal(t, map[string]map[Resource]int{
		"p1": {Lumber: 1, Brick: 1},
		"p2": {Lumber: 2},
	}, res.Distributions)

	p1, _ := g.Player("p1")
	p2, _ := g.Player("p2")
	assert.Equal(t, 1, p1.Resources[Lumber])
	assert.Equal(t, 1, p1.Resources[Brick])
	assert.Equal(t, 2, p2.Resources[Lumber])

	// The roller builds next.
	require.Len(t, g.State.ExpectedMoves, 1)
	assert.Equal(t, expectBuild("p1"), g.State.ExpectedMoves[0])
}

func TestRobberSuppressesProduction(t *testing.T) {
	g := newTestGame([]string{"p1"}, expectRoll("p1"))
	g.Board = productionBoard()
	g.Rand = &scriptRand{vals: rollValues(5)}
	g.Settings.RollSeven = true
	robber := HexCoordinate{1, 0, -1}
	g.State.Robber = &robber

	placed(g, "p1", Settlement, HexCoordinate{0, 0, 0}, 0)

	res, err := g.Apply("p1", MoveRequest{Action: ActionRoll})
	require.NoError(t, err)
	assert.Equal(t, map[string]map[Resource]int{"p1": {Brick: 1}}, res.Distributions)
}

func TestSevenQueuesTheRobberSequence(t *testing.T) {
	g := newTestGame([]string{"p1", "p2", "p3"}, expectRoll("p1"))
	g.Settings.RollSeven = true
	g.Rand = &scriptRand{vals: rollValues(7)}

	// p2 is over the hand limit, p3 is exactly at it.
	p2, _ := g.Player("p2")
	give(p2, map[Resource]int{Lumber: DropThreshold + 2})
	p3, _ := g.Player("p3")
	give(p3, map[Resource]int{Ore: DropThreshold})

	res, err := g.Apply("p1", MoveRequest{Action: ActionRoll})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Roll)
	assert.Empty(t, res.Distributions, "a seven produces nothing")

	require.Len(t, g.State.ExpectedMoves, 3)
	assert.Equal(t, ExpectedMove{Action: ActionDrop, Players: []string{"p2"}}, g.State.ExpectedMoves[0])
	assert.Equal(t, ExpectedMove{Action: ActionRob, Players: []string{"p1"}}, g.State.ExpectedMoves[1])
	assert.Equal(t, expectBuild("p1"), g.State.ExpectedMoves[2])
}

func TestSevenRerollsWhenDisabled(t *testing.T) {
	g := newTestGame([]string{"p1"}, expectRoll("p1"))
	g.Board = productionBoard()
	g.Rand = &scriptRand{vals: rollValues(7, 5)}

	res, err := g.Apply("p1", MoveRequest{Action: ActionRoll})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Roll)
}

func TestDropSheddingRules(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"},
		ExpectedMove{Action: ActionDrop, Players: []string{"p1", "p2"}},
	)
	p1, _ := g.Player("p1")
	give(p1, map[Resource]int{Lumber: 5, Ore: 4})

	_, err := g.Apply("p1", MoveRequest{
		Action:    ActionDrop,
		Resources: map[Resource]int{Lumber: -1},
	})
	assert.ErrorIs(t, err, ErrIllegalMove, "nine cards drop four")

	_, err = g.Apply("p1", MoveRequest{
		Action:    ActionDrop,
		Resources: map[Resource]int{Lumber: -5, Ore: 1},
	})
	assert.ErrorIs(t, err, ErrIllegalMove, "a drop cannot gain")

	res, err := g.Apply("p1", MoveRequest{
		Action:    ActionDrop,
		Resources: map[Resource]int{Lumber: -3, Ore: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, map[Resource]int{Lumber: -3, Ore: -1}, res.Dropped)
	assert.Equal(t, 5, p1.TotalResources())

	// p2 still owes a drop.
	require.Len(t, g.State.ExpectedMoves, 1)
	assert.Equal(t, []string{"p2"}, g.State.ExpectedMoves[0].Players)
}

func TestRobMovesTheRobberAndSteals(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"},
		ExpectedMove{Action: ActionRob, Players: []string{"p1"}},
		expectBuild("p1"),
	)
	g.Board = productionBoard()
	g.Rand = &scriptRand{}
	p2, _ := g.Player("p2")
	give(p2, map[Resource]int{Brick: 2})
	placed(g, "p2", Settlement, HexCoordinate{0, 0, 0}, 0)

	res, err := g.Apply("p1", MoveRequest{
		Action: ActionRob,
		Rob:    &RobRequest{X: 1, Y: 0, Z: -1, Target: "p2"},
	})
	require.NoError(t, err)
	require.NotNil(t, g.State.Robber)
	assert.Equal(t, HexCoordinate{1, 0, -1}, *g.State.Robber)
	require.NotNil(t, res.Theft)
	assert.Equal(t, Theft{From: "p2", To: "p1", Resource: Brick}, *res.Theft)

	p1, _ := g.Player("p1")
	assert.Equal(t, 1, p1.Resources[Brick])
	assert.Equal(t, 1, p2.Resources[Brick])

	require.Len(t, g.State.ExpectedMoves, 1)
	assert.Equal(t, expectBuild("p1"), g.State.ExpectedMoves[0])
}

func TestRobValidations(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"},
		ExpectedMove{Action: ActionRob, Players: []string{"p1"}},
	)
	g.Board = productionBoard()
	robber := HexCoordinate{0, 0, 0}
	g.State.Robber = &robber

	_, err := g.Apply("p1", MoveRequest{Action: ActionRob})
	assert.ErrorIs(t, err, ErrValidation, "a destination is required")

	_, err = g.Apply("p1", MoveRequest{Action: ActionRob, Rob: &RobRequest{X: 3, Y: 0, Z: -3}})
	assert.ErrorIs(t, err, ErrIllegalMove, "off the board")

	_, err = g.Apply("p1", MoveRequest{Action: ActionRob, Rob: &RobRequest{X: 0, Y: 0, Z: 0}})
	assert.ErrorIs(t, err, ErrIllegalMove, "the robber must move")

	_, err = g.Apply("p1", MoveRequest{
		Action: ActionRob,
		Rob:    &RobRequest{X: 1, Y: 0, Z: -1, Target: "p1"},
	})
	assert.ErrorIs(t, err, ErrIllegalMove, "no robbing yourself")

	_, err = g.Apply("p1", MoveRequest{
		Action: ActionRob,
		Rob:    &RobRequest{X: 1, Y: 0, Z: -1, Target: "p2"},
	})
	assert.ErrorIs(t, err, ErrIllegalMove, "the target has no building there")
}

func TestRobWithEmptyHandedTarget(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"},
		ExpectedMove{Action: ActionRob, Players: []string{"p1"}},
	)
	g.Board = productionBoard()
	placed(g, "p2", Settlement, HexCoordinate{0, 0, 0}, 0)

	res, err := g.Apply("p1", MoveRequest{
		Action: ActionRob,
		Rob:    &RobRequest{X: 1, Y: 0, Z: -1, Target: "p2"},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Theft, "an empty hand yields nothing")
	assert.Empty(t, g.State.ExpectedMoves)
}
