package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("p1", map[Resource]int{Lumber: 2, Ore: 1})

	assert.True(t, p.Active)
	assert.Equal(t, 2, p.Resources[Lumber])
	assert.Equal(t, 1, p.Resources[Ore])
	assert.Equal(t, 0, p.Resources[Wool])
	assert.Equal(t, 15, p.Stock[Road])
	assert.Equal(t, 5, p.Stock[Settlement])
	assert.Equal(t, 4, p.Stock[City])
	assert.Equal(t, 3, p.TotalResources())
}

func TestApplyResourceDeltaAtomic(t *testing.T) {
	p := NewPlayer("p1", map[Resource]int{Lumber: 2, Brick: 1})

	// One entry would go negative, so nothing may change.
	err := p.ApplyResourceDelta(map[Resource]int{Lumber: -1, Brick: -2})
	require.ErrorIs(t, err, ErrIllegalMove)
	assert.Equal(t, 2, p.Resources[Lumber])
	assert.Equal(t, 1, p.Resources[Brick])

	require.NoError(t, p.ApplyResourceDelta(map[Resource]int{Lumber: -2, Grain: 3}))
	assert.Equal(t, 0, p.Resources[Lumber])
	assert.Equal(t, 3, p.Resources[Grain])
}

func TestPayAndStock(t *testing.T) {
	p := NewPlayer("p1", map[Resource]int{Lumber: 1, Brick: 1})

	require.NoError(t, p.Pay(BuildingCosts[Road]))
	assert.Zero(t, p.TotalResources())
	assert.ErrorIs(t, p.Pay(BuildingCosts[Road]), ErrIllegalMove)

	p.Stock[City] = 1
	require.NoError(t, p.TakeFromStock(City))
	assert.ErrorIs(t, p.TakeFromStock(City), ErrIllegalMove)
}

func TestVisibleVictoryPoints(t *testing.T) {
	p := NewPlayer("p1", nil)
	p.VictoryPoints = 4
	p.Cards = []DevelopmentCard{
		{Type: VictoryPoint},
		{Type: VictoryPoint, Revealed: true},
		{Type: Knight, Revealed: true},
	}

	assert.Equal(t, 3, p.VisibleVictoryPoints(), "hidden victory cards stay hidden")
	assert.Equal(t, 1, p.RevealedKnights())
	assert.Equal(t, 2, p.CardCount(VictoryPoint))
}

func TestUnlockCards(t *testing.T) {
	p := NewPlayer("p1", nil)
	p.Cards = []DevelopmentCard{
		{Type: Knight, Locked: true},
		{Type: Monopoly, Locked: true},
	}

	assert.Equal(t, -1, p.playableCard(Knight), "a freshly bought card is locked")
	p.UnlockCards()
	assert.Equal(t, 0, p.playableCard(Knight))

	p.Cards[0].Revealed = true
	assert.Equal(t, -1, p.playableCard(Knight), "a played card cannot be replayed")
}
