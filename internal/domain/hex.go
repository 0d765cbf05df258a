package domain

// Hex-grid geometry over cube coordinates (x+y+z=0), pointy-top layout.
//
// Sides use a clock-position encoding on each tile: 0 and 6 are the top and
// bottom corners; 3, 7 and 11 are the canonical edges; 1, 5 and 9 address
// the same physical edges as a neighbouring tile's 7, 11 and 3 and must be
// normalized before use.

// HexCoordinate addresses a tile. Invariant: X+Y+Z == 0.
type HexCoordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Side is a clock position on a tile: corner (0, 6), canonical edge
// (3, 7, 11) or ambiguous edge (1, 5, 9).
type Side int

// IsCorner reports whether s addresses a corner.
func (s Side) IsCorner() bool {
	return s == 0 || s == 6
}

// IsCanonicalEdge reports whether s addresses an edge in canonical form.
func (s Side) IsCanonicalEdge() bool {
	return s == 3 || s == 7 || s == 11
}

// IsEdge reports whether s addresses an edge, canonical or ambiguous.
func (s Side) IsEdge() bool {
	switch s {
	case 1, 3, 5, 7, 9, 11:
		return true
	}
	return false
}

// Corner identifies a settlement/city site: a tile plus side 0 or 6.
type Corner struct {
	Coordinate HexCoordinate
	Side       Side
}

// Edge identifies a road site: a tile plus canonical side 3, 7 or 11.
type Edge struct {
	Coordinate HexCoordinate
	Side       Side
}

// The six neighbour direction vectors, in ring-walk order:
// E, NE, NW, W, SW, SE.
var directions = [6]HexCoordinate{
	{+1, -1, 0},
	{+1, 0, -1},
	{0, +1, -1},
	{-1, +1, 0},
	{-1, 0, +1},
	{0, -1, +1},
}

// directionSides maps a direction index to the side of the edge shared with
// the neighbour in that direction.
var directionSides = [6]Side{3, 1, 11, 9, 7, 5}

type sideOffset struct {
	offset HexCoordinate
	side   Side
}

// Fixed local-topology tables. Offsets are relative to the tile that
// anchors the corner or edge.
var (
	cornerTiles = map[Side][3]HexCoordinate{
		0: {{0, 0, 0}, {+1, 0, -1}, {0, +1, -1}},
		6: {{0, 0, 0}, {0, -1, +1}, {-1, 0, +1}},
	}

	cornerCorners = map[Side][3]sideOffset{
		0: {{HexCoordinate{+1, 0, -1}, 6}, {HexCoordinate{0, +1, -1}, 6}, {HexCoordinate{+1, +1, -2}, 6}},
		6: {{HexCoordinate{0, -1, +1}, 0}, {HexCoordinate{-1, 0, +1}, 0}, {HexCoordinate{-1, -1, +2}, 0}},
	}

	cornerEdges = map[Side][3]sideOffset{
		0: {{HexCoordinate{0, 0, 0}, 11}, {HexCoordinate{+1, 0, -1}, 7}, {HexCoordinate{0, +1, -1}, 3}},
		6: {{HexCoordinate{0, 0, 0}, 7}, {HexCoordinate{0, -1, +1}, 11}, {HexCoordinate{-1, 0, +1}, 3}},
	}

	edgeTiles = map[Side][2]HexCoordinate{
		3:  {{0, 0, 0}, {+1, -1, 0}},
		7:  {{0, 0, 0}, {-1, 0, +1}},
		11: {{0, 0, 0}, {0, +1, -1}},
	}

	edgeCorners = map[Side][2]sideOffset{
		3:  {{HexCoordinate{+1, 0, -1}, 6}, {HexCoordinate{0, -1, +1}, 0}},
		7:  {{HexCoordinate{-1, 0, +1}, 0}, {HexCoordinate{0, 0, 0}, 6}},
		11: {{HexCoordinate{0, 0, 0}, 0}, {HexCoordinate{0, +1, -1}, 6}},
	}

	edgeEdges = map[Side][4]sideOffset{
		3: {
			{HexCoordinate{+1, 0, -1}, 7}, {HexCoordinate{+1, -1, 0}, 11},
			{HexCoordinate{0, -1, +1}, 11}, {HexCoordinate{+1, -1, 0}, 7},
		},
		7: {
			{HexCoordinate{-1, 0, +1}, 11}, {HexCoordinate{-1, +1, 0}, 3},
			{HexCoordinate{0, -1, +1}, 11}, {HexCoordinate{-1, 0, +1}, 3},
		},
		11: {
			{HexCoordinate{+1, 0, -1}, 7}, {HexCoordinate{0, +1, -1}, 3},
			{HexCoordinate{0, +1, -1}, 7}, {HexCoordinate{-1, +1, 0}, 3},
		},
	}
)

// Add returns the coordinate sum a+b.
func (a HexCoordinate) Add(b HexCoordinate) HexCoordinate {
	return HexCoordinate{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Scale returns the coordinate scaled by k.
func (a HexCoordinate) Scale(k int) HexCoordinate {
	return HexCoordinate{a.X * k, a.Y * k, a.Z * k}
}

// Neighbor returns the adjacent tile in direction 0..5 (E, NE, NW, W, SW, SE).
func (a HexCoordinate) Neighbor(direction int) HexCoordinate {
	return a.Add(directions[direction])
}

// Circle returns every tile within radius of the origin, center included.
func Circle(radius int) []HexCoordinate {
	tiles := make([]HexCoordinate, 0, 3*radius*radius+3*radius+1)
	for x := -radius; x <= radius; x++ {
		for y := max(-radius, -x-radius); y <= min(radius, -x+radius); y++ {
			tiles = append(tiles, HexCoordinate{x, y, -x - y})
		}
	}
	return tiles
}

// Ring walks the tiles at exactly radius from center and returns each with
// its outward-facing edge in canonical form. Used to lay out harbors along
// a board's coastline.
func Ring(center HexCoordinate, radius int) []Edge {
	if radius <= 0 {
		return nil
	}
	edges := make([]Edge, 0, 6*radius)
	pos := center.Add(directions[4].Scale(radius))
	for i := 0; i < 6; i++ {
		outward := (i + 5) % 6
		for j := 0; j < radius; j++ {
			edges = append(edges, NormalizeEdge(pos, directionSides[outward]))
			pos = pos.Neighbor(i)
		}
	}
	return edges
}

// NormalizeEdge resolves an edge side to its canonical form. Ambiguous sides
// 1, 5 and 9 re-anchor on the neighbouring tile that owns the canonical
// address; canonical sides pass through unchanged.
func NormalizeEdge(coordinate HexCoordinate, side Side) Edge {
	switch side {
	case 1:
		return Edge{coordinate.Add(directions[1]), 7}
	case 5:
		return Edge{coordinate.Add(directions[5]), 11}
	case 9:
		return Edge{coordinate.Add(directions[3]), 3}
	default:
		return Edge{coordinate, side}
	}
}

// Tiles returns the three tiles meeting at the corner.
func (c Corner) Tiles() []HexCoordinate {
	offs := cornerTiles[c.Side]
	return []HexCoordinate{
		c.Coordinate.Add(offs[0]),
		c.Coordinate.Add(offs[1]),
		c.Coordinate.Add(offs[2]),
	}
}

// AdjacentCorners returns the three corners one road-length away.
func (c Corner) AdjacentCorners() []Corner {
	offs := cornerCorners[c.Side]
	out := make([]Corner, 3)
	for i, o := range offs {
		out[i] = Corner{c.Coordinate.Add(o.offset), o.side}
	}
	return out
}

// Edges returns the three canonical edges incident to the corner.
func (c Corner) Edges() []Edge {
	offs := cornerEdges[c.Side]
	out := make([]Edge, 3)
	for i, o := range offs {
		out[i] = Edge{c.Coordinate.Add(o.offset), o.side}
	}
	return out
}

// Tiles returns the two tiles separated by the edge.
func (e Edge) Tiles() []HexCoordinate {
	offs := edgeTiles[e.Side]
	return []HexCoordinate{e.Coordinate.Add(offs[0]), e.Coordinate.Add(offs[1])}
}

// Corners returns the edge's two endpoints.
func (e Edge) Corners() []Corner {
	offs := edgeCorners[e.Side]
	return []Corner{
		{e.Coordinate.Add(offs[0].offset), offs[0].side},
		{e.Coordinate.Add(offs[1].offset), offs[1].side},
	}
}

// AdjacentEdges returns the four canonical edges sharing an endpoint with e.
func (e Edge) AdjacentEdges() []Edge {
	offs := edgeEdges[e.Side]
	out := make([]Edge, 4)
	for i, o := range offs {
		out[i] = Edge{e.Coordinate.Add(o.offset), o.side}
	}
	return out
}

// OtherCorner returns the endpoint of e that is not c.
func (e Edge) OtherCorner(c Corner) Corner {
	ends := e.Corners()
	if ends[0] == c {
		return ends[1]
	}
	return ends[0]
}

// Touches reports whether c is one of e's endpoints.
func (e Edge) Touches(c Corner) bool {
	ends := e.Corners()
	return ends[0] == c || ends[1] == c
}
