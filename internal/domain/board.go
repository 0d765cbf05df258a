package domain

import "sort"

// TileType is a tile's terrain: one of the five resource producers or desert.
type TileType string

const (
	TileLumber TileType = "lumber"
	TileBrick  TileType = "brick"
	TileWool   TileType = "wool"
	TileGrain  TileType = "grain"
	TileOre    TileType = "ore"
	TileDesert TileType = "desert"
)

// Resource returns the resource a tile type produces, or false for desert.
func (t TileType) Resource() (Resource, bool) {
	switch t {
	case TileLumber, TileBrick, TileWool, TileGrain, TileOre:
		return Resource(t), true
	}
	return "", false
}

// Tile is one board hex: terrain plus the number token that produces it.
// Token is 0 for desert.
type Tile struct {
	Coordinate HexCoordinate `json:"coordinate"`
	Type       TileType      `json:"type"`
	Token      int           `json:"token"`
}

// Harbor is a trade bonus on a coastline edge. A nil Resource is a generic
// 3:1 harbor; otherwise it trades 2:1 in that resource.
type Harbor struct {
	Edge     Edge      `json:"edge"`
	Resource *Resource `json:"resource,omitempty"`
}

// Board is the immutable per-game layout of tiles and harbors. The robber
// position lives on GameState, not here.
type Board struct {
	Radius  int      `json:"radius"`
	Tiles   []Tile   `json:"tiles"`
	Harbors []Harbor `json:"harbors"`
}

// TileAt returns the tile at the coordinate, if any.
func (b *Board) TileAt(c HexCoordinate) (Tile, bool) {
	for _, t := range b.Tiles {
		if t.Coordinate == c {
			return t, true
		}
	}
	return Tile{}, false
}

// tokenWeights is the number-token bag: token -> draw weight. 7 never
// appears; 2 and 12 are half as frequent as the rest, mirroring their dice
// probability.
var tokenWeights = map[int]int{
	2: 1, 3: 2, 4: 2, 5: 2, 6: 2, 8: 2, 9: 2, 10: 2, 11: 2, 12: 1,
}

// harborCycle is the repeating harbor pattern along the coastline; nil means
// a generic 3:1 harbor.
var harborCycle = []*Resource{
	nil, ptr(Lumber), ptr(Brick), nil, ptr(Wool), ptr(Grain), nil, ptr(Ore),
}

func ptr[T any](v T) *T { return &v }

// GenerateBoard lays out a procedural board of the given radius: a filled
// hex area of tiles with at least one desert, balanced resources, weighted
// number tokens, and harbors every third coastline edge.
func GenerateBoard(radius int, rng Rand) *Board {
	if radius <= 0 {
		radius = DefaultMapRadius
	}
	coords := Circle(radius)

	deserts := max(1, len(coords)/10)
	desertAt := make(map[int]bool, deserts)
	for len(desertAt) < deserts {
		desertAt[rng.Intn(len(coords))] = true
	}

	// Balanced resource bag: one of each type, reshuffled per round of five.
	var bag []TileType
	refill := func() {
		bag = []TileType{TileLumber, TileBrick, TileWool, TileGrain, TileOre}
		shuffle(rng, bag)
	}

	var tokens []int
	refillTokens := func() {
		tokens = tokens[:0]
		for token, weight := range tokenWeights {
			for i := 0; i < weight; i++ {
				tokens = append(tokens, token)
			}
		}
		// Map iteration order is not seeded; sort for a reproducible bag
		// before shuffling with the injected source.
		sort.Ints(tokens)
		shuffle(rng, tokens)
	}

	tiles := make([]Tile, 0, len(coords))
	for i, c := range coords {
		if desertAt[i] {
			tiles = append(tiles, Tile{Coordinate: c, Type: TileDesert})
			continue
		}
		if len(bag) == 0 {
			refill()
		}
		if len(tokens) == 0 {
			refillTokens()
		}
		tileType := bag[len(bag)-1]
		bag = bag[:len(bag)-1]
		token := tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
		tiles = append(tiles, Tile{Coordinate: c, Type: tileType, Token: token})
	}

	return &Board{Radius: radius, Tiles: tiles, Harbors: coastHarbors(radius)}
}

// coastHarbors places a harbor on every third outward coastline edge,
// cycling through the harbor pattern.
func coastHarbors(radius int) []Harbor {
	coast := Ring(HexCoordinate{}, radius)
	harbors := make([]Harbor, 0, len(coast)/3+1)
	for i := 0; i < len(coast); i += 3 {
		kind := harborCycle[(i/3)%len(harborCycle)]
		h := Harbor{Edge: coast[i]}
		if kind != nil {
			h.Resource = ptr(*kind)
		}
		harbors = append(harbors, h)
	}
	return harbors
}

// mapTemplates are the fixed layouts selectable by name in the game
// settings.
var mapTemplates = map[string]func() *Board{
	"standard": standardBoard,
}

// BoardFor resolves the settings' named map template; an unset or unknown
// name falls back to procedural generation at the configured radius.
func BoardFor(settings GameSettings, rng Rand) *Board {
	if build, ok := mapTemplates[settings.MapTemplate]; ok {
		return build()
	}
	return GenerateBoard(settings.Radius(), rng)
}

// standardBoard is the fixed base-game layout: nineteen tiles with the
// classic resource counts (4 lumber, 4 wool, 4 grain, 3 brick, 3 ore, one
// desert) and token set.
func standardBoard() *Board {
	types := []TileType{
		TileDesert, TileLumber, TileWool, TileGrain, TileBrick, TileOre,
		TileLumber, TileWool, TileGrain, TileBrick, TileOre, TileLumber,
		TileWool, TileGrain, TileBrick, TileOre, TileLumber, TileWool,
		TileGrain,
	}
	tokens := []int{
		0, 5, 2, 6, 3, 8, 10, 9, 12, 11, 4, 8, 10, 9, 4, 5, 6, 3, 11,
	}
	coords := Circle(DefaultMapRadius)
	tiles := make([]Tile, 0, len(coords))
	for i, c := range coords {
		t := Tile{Coordinate: c, Type: types[i]}
		if types[i] != TileDesert {
			t.Token = tokens[i]
		}
		tiles = append(tiles, t)
	}
	return &Board{Radius: DefaultMapRadius, Tiles: tiles, Harbors: coastHarbors(DefaultMapRadius)}
}
