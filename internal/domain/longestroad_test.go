package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func roads(owner string, sites ...Edge) []*Building {
	out := make([]*Building, 0, len(sites))
	for _, e := range sites {
		out = append(out, &Building{
			ID:         newRecordID(),
			Owner:      owner,
			Coordinate: e.Coordinate,
			Side:       e.Side,
			Type:       Road,
		})
	}
	return out
}

func TestFindLongestRoad(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
		want  int
	}{
		{
			name:  "no roads",
			edges: nil,
			want:  0,
		},
		{
			name:  "single edge",
			edges: []Edge{{HexCoordinate{0, 0, 0}, 11}},
			want:  1,
		},
		{
			name: "branching nine edge network",
			edges: []Edge{
				{HexCoordinate{-1, 0, 1}, 11},
				{HexCoordinate{-1, 1, 0}, 3},
				{HexCoordinate{-1, 1, 0}, 11},
				{HexCoordinate{-1, 2, -1}, 3},
				{HexCoordinate{0, 0, 0}, 11},
				{HexCoordinate{0, 1, -1}, 3},
				{HexCoordinate{0, 1, -1}, 7},
				{HexCoordinate{0, 1, -1}, 11},
				{HexCoordinate{1, 0, -1}, 7},
			},
			want: 5,
		},
		{
			name: "forked seven edge network",
			edges: []Edge{
				{HexCoordinate{0, -1, 1}, 3},
				{HexCoordinate{0, -1, 1}, 11},
				{HexCoordinate{0, 0, 0}, 3},
				{HexCoordinate{0, 0, 0}, 11},
				{HexCoordinate{1, -1, 0}, 7},
				{HexCoordinate{1, -1, 0}, 11},
				{HexCoordinate{1, 0, -1}, 7},
			},
			want: 5,
		},
		{
			name: "closed loop counts its full length",
			edges: []Edge{
				{HexCoordinate{-1, 1, 0}, 3},
				{HexCoordinate{0, -1, 1}, 11},
				{HexCoordinate{0, 0, 0}, 3},
				{HexCoordinate{0, 0, 0}, 7},
				{HexCoordinate{0, 0, 0}, 11},
				{HexCoordinate{1, 0, -1}, 7},
			},
			want: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildings := roads("p1", tt.edges...)
			assert.Equal(t, tt.want, FindLongestRoad(buildings, "p1"))
		})
	}
}

func TestFindLongestRoadIgnoresOtherOwners(t *testing.T) {
	// p2's edges meet at corner (0,-1,1)/0 and never touch p1's road.
	buildings := append(
		roads("p1", Edge{HexCoordinate{0, 0, 0}, 11}),
		roads("p2",
			Edge{HexCoordinate{0, 0, 0}, 3},
			Edge{HexCoordinate{0, -1, 1}, 11},
		)...,
	)
	assert.Equal(t, 1, FindLongestRoad(buildings, "p1"))
	assert.Equal(t, 2, FindLongestRoad(buildings, "p2"))
}

// An opponent settlement on a shared corner cuts the path in two.
func TestFindLongestRoadBlockedByOpponentCorner(t *testing.T) {
	// Two chained edges around tile (0,0,0): side 11 and side 3 of the
	// north-east neighbour meet at corner (0,0,0)/0.
	edges := []Edge{
		{HexCoordinate{0, 0, 0}, 11},
		{HexCoordinate{0, 1, -1}, 3},
	}
	buildings := roads("p1", edges...)
	assert.Equal(t, 2, FindLongestRoad(buildings, "p1"))

	blocker := &Building{
		ID:         newRecordID(),
		Owner:      "p2",
		Coordinate: HexCoordinate{0, 1, -1},
		Side:       6,
		Type:       Settlement,
	}
	assert.Equal(t, 2, FindLongestRoad(append(buildings, blocker), "p1"),
		"a blocker only matters between edges, not on an endpoint")

	// Put the blocker on the corner both edges share.
	blocker.Coordinate = HexCoordinate{0, 0, 0}
	blocker.Side = 0
	assert.Equal(t, 1, FindLongestRoad(append(buildings, blocker), "p1"))

	// The player's own settlement never blocks.
	blocker.Owner = "p1"
	assert.Equal(t, 2, FindLongestRoad(append(buildings, blocker), "p1"))
}
