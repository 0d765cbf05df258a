package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyCardDealsLockedCard(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	give(p1, DevelopmentCardCost)
	// The first fourteen weights belong to knights.
	g.Rand = &scriptRand{vals: []int{0}}

	res, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: NewDevelopmentCard})
	require.NoError(t, err)
	require.NotNil(t, res.DrawnCard)
	assert.Equal(t, Knight, res.DrawnCard.Type)
	assert.True(t, res.DrawnCard.Locked)
	assert.Equal(t, 0, p1.TotalResources())
	require.Len(t, p1.Cards, 1)

	// Locked until the turn ends.
	give(p1, map[Resource]int{Ore: 1})
	_, err = g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: string(Knight)})
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestBuyCardRequiresFunds(t *testing.T) {
	g := newTestGame([]string{"p1"}, expectBuild("p1"))
	_, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: NewDevelopmentCard})
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestDeckDepletionIsAConflict(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	give(p1, DevelopmentCardCost)

	// All twenty-five cards are already in hands.
	p2, _ := g.Player("p2")
	for ct, n := range map[CardType]int{Knight: 14, VictoryPoint: 5, Monopoly: 2, RoadBuilding: 2, YearOfPlenty: 2} {
		for i := 0; i < n; i++ {
			p2.Cards = append(p2.Cards, DevelopmentCard{Type: ct})
		}
	}

	_, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: NewDevelopmentCard})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, p1.TotalResources(), "a depleted deck charges nothing")
}

func TestDeckScalesBeyondFourPlayers(t *testing.T) {
	g := newTestGame([]string{"p1", "p2", "p3", "p4", "p5"}, expectBuild("p1"))
	weights := g.deckWeights()
	assert.Equal(t, 20, weights[Knight])
	assert.Equal(t, 5, weights[VictoryPoint])
	assert.Equal(t, 3, weights[Monopoly])
}

func TestEndTurnUnlocksCards(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	p1.Cards = []DevelopmentCard{{Type: Knight, Locked: true}}

	res, err := g.Apply("p1", MoveRequest{Action: ActionBuild})
	require.NoError(t, err)
	assert.True(t, res.TurnEnded)
	assert.Equal(t, "p2", res.NextPlayer)
	assert.False(t, p1.Cards[0].Locked)
}

func TestKnightQueuesARobAndCountsTowardTheArmy(t *testing.T) {
	g := newTestGame([]string{"p1", "p2"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	p1.Cards = []DevelopmentCard{
		{Type: Knight, Revealed: true},
		{Type: Knight, Revealed: true},
		{Type: Knight},
	}

	res, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: string(Knight)})
	require.NoError(t, err)
	assert.Equal(t, Knight, res.PlayedCard)
	assert.Equal(t, 3, p1.RevealedKnights())

	// The third knight claims the army title.
	assert.True(t, p1.HasLargestArmy)
	assert.Equal(t, TitleBonusPoints, p1.VictoryPoints)
	require.Len(t, res.TitleTransfers, 1)
	assert.Equal(t, TitleTransfer{Title: TitleLargestArmy, To: "p1"}, res.TitleTransfers[0])

	// The rob comes before the build entry.
	require.Len(t, g.State.ExpectedMoves, 2)
	assert.Equal(t, ExpectedMove{Action: ActionRob, Players: []string{"p1"}}, g.State.ExpectedMoves[0])
	assert.Equal(t, expectBuild("p1"), g.State.ExpectedMoves[1])
}

func TestVictoryCardNeverPlays(t *testing.T) {
	g := newTestGame([]string{"p1"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	p1.Cards = []DevelopmentCard{{Type: VictoryPoint}}

	_, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: string(VictoryPoint)})
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestRoadBuildingGrantsTwoFreeRoads(t *testing.T) {
	g := newTestGame([]string{"p1"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	p1.Cards = []DevelopmentCard{{Type: RoadBuilding}}
	placed(g, "p1", Settlement, HexCoordinate{0, 0, 0}, 0)

	_, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: string(RoadBuilding)})
	require.NoError(t, err)
	require.Len(t, g.State.ExpectedMoves, 3)
	assert.Equal(t, ActionBuildRoad, g.State.ExpectedMoves[0].Action)
	assert.Equal(t, ActionBuildRoad, g.State.ExpectedMoves[1].Action)

	// Both roads place without payment.
	res, err := g.Apply("p1", MoveRequest{
		Action:   ActionBuildRoad,
		Building: &BuildingRequest{X: 0, Y: 0, Z: 0, Side: 11, Type: Road},
	})
	require.NoError(t, err)
	assert.Equal(t, Road, res.Building.Type)

	_, err = g.Apply("p1", MoveRequest{
		Action:   ActionBuildRoad,
		Building: &BuildingRequest{X: 0, Y: 1, Z: -1, Side: 3, Type: Settlement},
	})
	assert.ErrorIs(t, err, ErrIllegalMove, "only roads are free")

	_, err = g.Apply("p1", MoveRequest{
		Action:   ActionBuildRoad,
		Building: &BuildingRequest{X: 0, Y: 1, Z: -1, Side: 3, Type: Road},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p1.TotalResources())
	assert.Equal(t, StartingStock[Road]-2, p1.Stock[Road])

	require.Len(t, g.State.ExpectedMoves, 1)
	assert.Equal(t, expectBuild("p1"), g.State.ExpectedMoves[0])
}

func TestMonopolyCollectsFromEveryone(t *testing.T) {
	g := newTestGame([]string{"p1", "p2", "p3"},
		ExpectedMove{Action: ActionMonopoly, Players: []string{"p1"}},
		expectBuild("p1"),
	)
	p2, _ := g.Player("p2")
	p3, _ := g.Player("p3")
	give(p2, map[Resource]int{Grain: 3, Ore: 1})
	give(p3, map[Resource]int{Grain: 2})

	res, err := g.Apply("p1", MoveRequest{
		Action:    ActionMonopoly,
		Resources: map[Resource]int{Grain: 1},
	})
	require.NoError(t, err)

	p1, _ := g.Player("p1")
	assert.Equal(t, 5, p1.Resources[Grain])
	assert.Equal(t, 0, p2.Resources[Grain])
	assert.Equal(t, 1, p2.Resources[Ore], "other resources stay put")
	assert.Equal(t, 0, p3.Resources[Grain])
	assert.Equal(t, map[string]map[Resource]int{"p1": {Grain: 5}}, res.Distributions)

	_, err = g.Apply("p1", MoveRequest{
		Action:    ActionMonopoly,
		Resources: map[Resource]int{Grain: 1, Ore: 1},
	})
	assert.ErrorIs(t, err, ErrIllegalMove, "the entry was consumed")
}

func TestYearOfPlentyGrantsExactlyTwo(t *testing.T) {
	g := newTestGame([]string{"p1"},
		ExpectedMove{Action: ActionYearOfPlenty, Players: []string{"p1"}},
		expectBuild("p1"),
	)
	p1, _ := g.Player("p1")

	_, err := g.Apply("p1", MoveRequest{
		Action:    ActionYearOfPlenty,
		Resources: map[Resource]int{Lumber: 3},
	})
	assert.ErrorIs(t, err, ErrIllegalMove)

	res, err := g.Apply("p1", MoveRequest{
		Action:    ActionYearOfPlenty,
		Resources: map[Resource]int{Lumber: 1, Brick: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Resources[Lumber])
	assert.Equal(t, 1, p1.Resources[Brick])
	assert.Equal(t, map[string]map[Resource]int{"p1": {Lumber: 1, Brick: 1}}, res.Distributions)
}

func TestRoadBuildingNeedsARoadSite(t *testing.T) {
	g := newTestGame([]string{"p1"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	p1.Cards = []DevelopmentCard{{Type: RoadBuilding}}

	// No buildings on the board means no edge connects to anything.
	_, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: string(RoadBuilding)})
	assert.ErrorIs(t, err, ErrIllegalMove)

	// With no road stock the card is equally unplayable.
	placed(g, "p1", Settlement, HexCoordinate{0, 0, 0}, 0)
	p1.Stock[Road] = 0
	_, err = g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: string(RoadBuilding)})
	assert.ErrorIs(t, err, ErrIllegalMove)

	assert.False(t, p1.Cards[0].Revealed, "the card is not consumed")
	require.Len(t, g.State.ExpectedMoves, 1)
	assert.Equal(t, expectBuild("p1"), g.State.ExpectedMoves[0])
}

func TestBuildRoadForfeitsWhenStockRunsOut(t *testing.T) {
	g := newTestGame([]string{"p1"}, expectBuild("p1"))
	p1, _ := g.Player("p1")
	p1.Cards = []DevelopmentCard{{Type: RoadBuilding}}
	placed(g, "p1", Settlement, HexCoordinate{0, 0, 0}, 0)
	p1.Stock[Road] = 1

	_, err := g.Apply("p1", MoveRequest{Action: ActionBuild, DevelopmentCard: string(RoadBuilding)})
	require.NoError(t, err)
	require.Len(t, g.State.ExpectedMoves, 3)

	// A bare request is no shortcut while a road can still be placed.
	_, err = g.Apply("p1", MoveRequest{Action: ActionBuildRoad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = g.Apply("p1", MoveRequest{
		Action:   ActionBuildRoad,
		Building: &BuildingRequest{X: 0, Y: 0, Z: 0, Side: 11, Type: Road},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p1.Stock[Road])

	// The second grant has no stock behind it; placing fails and the bare
	// request forfeits the road instead of wedging the queue.
	_, err = g.Apply("p1", MoveRequest{
		Action:   ActionBuildRoad,
		Building: &BuildingRequest{X: 0, Y: 1, Z: -1, Side: 3, Type: Road},
	})
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = g.Apply("p1", MoveRequest{Action: ActionBuildRoad})
	require.NoError(t, err)
	require.Len(t, g.State.ExpectedMoves, 1)
	assert.Equal(t, expectBuild("p1"), g.State.ExpectedMoves[0])
}
