package domain

// Building is a placed road, settlement or city. Roads anchor on canonical
// edges; settlements and cities anchor on corners. At most one building
// exists per (coordinate, side); a city replaces its settlement in place.
type Building struct {
	ID         string        `json:"id"`
	GameID     string        `json:"gameId"`
	Owner      string        `json:"owner"`
	Coordinate HexCoordinate `json:"coordinate"`
	Side       Side          `json:"side"`
	Type       BuildingType  `json:"type"`
}

// EdgeSite returns the building's edge address (roads only).
func (b *Building) EdgeSite() Edge {
	return Edge{Coordinate: b.Coordinate, Side: b.Side}
}

// CornerSite returns the building's corner address (settlements/cities).
func (b *Building) CornerSite() Corner {
	return Corner{Coordinate: b.Coordinate, Side: b.Side}
}

// roadAt returns the road on the canonical edge, if any.
func (g *Game) roadAt(e Edge) *Building {
	for _, b := range g.Buildings {
		if b.Type == Road && b.Coordinate == e.Coordinate && b.Side == e.Side {
			return b
		}
	}
	return nil
}

// buildingAt returns the settlement or city on the corner, if any.
func (g *Game) buildingAt(c Corner) *Building {
	for _, b := range g.Buildings {
		if b.Type != Road && b.Coordinate == c.Coordinate && b.Side == c.Side {
			return b
		}
	}
	return nil
}

// hasBuildingOn reports whether the player owns a settlement or city on the
// corner.
func (g *Game) hasBuildingOn(c Corner, playerID string) bool {
	b := g.buildingAt(c)
	return b != nil && b.Owner == playerID
}

// applyFoundingPlacement places one of the four founding buildings and
// advances the founding queue.
func (g *Game) applyFoundingPlacement(actor *Player, req MoveRequest, res *MoveResult) error {
	if req.Building == nil {
		return Validationf("%s requires a building payload", req.Action)
	}
	placed, err := g.placeBuilding(actor, *req.Building, req.Action)
	if err != nil {
		return err
	}
	g.State.pop()
	g.touchState()
	res.Building = placed
	return nil
}

// applyPlacement places a building during a normal turn. The build entry
// stays at the head so the player remains in turn.
func (g *Game) applyPlacement(actor *Player, breq BuildingRequest, action Action, res *MoveResult) error {
	placed, err := g.placeBuilding(actor, breq, action)
	if err != nil {
		return err
	}
	res.Building = placed
	return nil
}

// applyBuildRoad places one free road granted by a road-building card and
// pops its queue entry.
func (g *Game) applyBuildRoad(actor *Player, req MoveRequest, res *MoveResult) error {
	if req.Building == nil {
		if g.hasRoadSite(actor) {
			return Validationf("build-road requires a building payload")
		}
		// Stock or open edges ran out mid-grant; the free road is
		// forfeited so the turn can continue.
		g.State.pop()
		g.touchState()
		return nil
	}
	if req.Building.Type != Road {
		return IllegalMovef("build-road places roads only")
	}
	placed, err := g.placeBuilding(actor, *req.Building, ActionBuildRoad)
	if err != nil {
		return err
	}
	g.State.pop()
	g.touchState()
	res.Building = placed
	return nil
}

// placeBuilding runs every legality check for the requested site, then
// commits: stock and cost are deducted, the ledger gains (or upgrades) a
// record, and the road titles are re-evaluated.
func (g *Game) placeBuilding(actor *Player, breq BuildingRequest, action Action) (*Building, error) {
	switch action {
	case ActionFoundingSettlement1, ActionFoundingSettlement2:
		if breq.Type != Settlement {
			return nil, IllegalMovef("%s places a settlement", action)
		}
	case ActionFoundingRoad1, ActionFoundingRoad2:
		if breq.Type != Road {
			return nil, IllegalMovef("%s places a road", action)
		}
	}

	switch breq.Type {
	case Road:
		return g.placeRoad(actor, breq, action)
	case Settlement:
		return g.placeSettlement(actor, breq, action)
	case City:
		return g.placeCity(actor, breq, action)
	}
	return nil, Validationf("unknown building type %q", breq.Type)
}

func (g *Game) placeRoad(actor *Player, breq BuildingRequest, action Action) (*Building, error) {
	if !breq.Side.IsEdge() {
		return nil, IllegalMovef("side %d is not an edge", breq.Side)
	}
	edge := NormalizeEdge(breq.Coordinate(), breq.Side)
	if g.roadAt(edge) != nil {
		return nil, IllegalMovef("there is already a road here")
	}

	if action == ActionFoundingRoad2 {
		if err := g.checkFoundingRoadTwo(actor, edge); err != nil {
			return nil, err
		}
	} else if !g.roadConnects(actor.ID, edge) {
		return nil, IllegalMovef("a road must connect to one of your buildings")
	}

	paid := action == ActionBuild
	if paid && !actor.CanAfford(negate(BuildingCosts[Road])) {
		return nil, IllegalMovef("you can't afford that")
	}
	if err := actor.TakeFromStock(Road); err != nil {
		return nil, err
	}
	if paid {
		// Afford was pre-checked; Pay cannot fail here.
		if err := actor.Pay(BuildingCosts[Road]); err != nil {
			return nil, err
		}
	}
	g.touch(actor)

	placed := &Building{
		ID:         newRecordID(),
		GameID:     g.ID,
		Owner:      actor.ID,
		Coordinate: edge.Coordinate,
		Side:       edge.Side,
		Type:       Road,
	}
	g.Buildings = append(g.Buildings, placed)
	g.touchBuilding(placed)

	g.recomputeLongestRoad(actor)
	return placed, nil
}

// roadConnects reports whether the edge touches a building owned by the
// player, by edge-to-edge or edge-to-corner adjacency.
func (g *Game) roadConnects(playerID string, edge Edge) bool {
	for _, adj := range edge.AdjacentEdges() {
		if r := g.roadAt(adj); r != nil && r.Owner == playerID {
			return true
		}
	}
	for _, c := range edge.Corners() {
		if g.hasBuildingOn(c, playerID) {
			return true
		}
	}
	return false
}

// hasRoadSite reports whether the player can still place a road: stock in
// hand and at least one free edge connected to their network.
func (g *Game) hasRoadSite(actor *Player) bool {
	if actor.Stock[Road] == 0 {
		return false
	}
	for _, b := range g.Buildings {
		if b.Owner != actor.ID {
			continue
		}
		var edges []Edge
		if b.Type == Road {
			edges = b.EdgeSite().AdjacentEdges()
		} else {
			edges = b.CornerSite().Edges()
		}
		for _, e := range edges {
			if g.roadAt(e) == nil {
				return true
			}
		}
	}
	return false
}

// checkFoundingRoadTwo enforces the second founding road's special rule:
// it must connect to the settlement just placed by this player, which must
// not already have a road.
func (g *Game) checkFoundingRoadTwo(actor *Player, edge Edge) error {
	for _, b := range g.Buildings {
		if b.Owner != actor.ID || b.Type != Settlement {
			continue
		}
		corner := b.CornerSite()
		if g.cornerHasRoad(corner) {
			continue
		}
		if edge.Touches(corner) {
			return nil
		}
	}
	return IllegalMovef("the road must connect to your new settlement")
}

// cornerHasRoad reports whether any road touches the corner.
func (g *Game) cornerHasRoad(c Corner) bool {
	for _, e := range c.Edges() {
		if g.roadAt(e) != nil {
			return true
		}
	}
	return false
}

func (g *Game) placeSettlement(actor *Player, breq BuildingRequest, action Action) (*Building, error) {
	if !breq.Side.IsCorner() {
		return nil, IllegalMovef("side %d is not a corner", breq.Side)
	}
	corner := Corner{Coordinate: breq.Coordinate(), Side: breq.Side}

	if g.buildingAt(corner) != nil {
		return nil, IllegalMovef("this corner is already occupied")
	}
	for _, adj := range corner.AdjacentCorners() {
		if g.buildingAt(adj) != nil {
			return nil, IllegalMovef("too close to another settlement or city")
		}
	}

	founding := action == ActionFoundingSettlement1 || action == ActionFoundingSettlement2
	if !founding {
		connected := false
		for _, e := range corner.Edges() {
			if r := g.roadAt(e); r != nil && r.Owner == actor.ID {
				connected = true
				break
			}
		}
		if !connected {
			return nil, IllegalMovef("a settlement must connect to one of your roads")
		}
	}

	paid := action == ActionBuild
	if paid && !actor.CanAfford(negate(BuildingCosts[Settlement])) {
		return nil, IllegalMovef("you can't afford that")
	}
	if err := actor.TakeFromStock(Settlement); err != nil {
		return nil, err
	}
	if paid {
		if err := actor.Pay(BuildingCosts[Settlement]); err != nil {
			return nil, err
		}
	}
	actor.VictoryPoints++
	g.touch(actor)

	placed := &Building{
		ID:         newRecordID(),
		GameID:     g.ID,
		Owner:      actor.ID,
		Coordinate: corner.Coordinate,
		Side:       corner.Side,
		Type:       Settlement,
	}
	g.Buildings = append(g.Buildings, placed)
	g.touchBuilding(placed)

	// A settlement dropped between two road segments can split a third
	// party's longest road and move the title.
	g.checkForBrokenRoad(corner, actor.ID)
	return placed, nil
}

func (g *Game) placeCity(actor *Player, breq BuildingRequest, action Action) (*Building, error) {
	if !breq.Side.IsCorner() {
		return nil, IllegalMovef("side %d is not a corner", breq.Side)
	}
	corner := Corner{Coordinate: breq.Coordinate(), Side: breq.Side}

	existing := g.buildingAt(corner)
	if existing == nil || existing.Owner != actor.ID || existing.Type != Settlement {
		return nil, IllegalMovef("a city must upgrade one of your settlements")
	}

	paid := action == ActionBuild
	if paid && !actor.CanAfford(negate(BuildingCosts[City])) {
		return nil, IllegalMovef("you can't afford that")
	}
	if err := actor.TakeFromStock(City); err != nil {
		return nil, err
	}
	if paid {
		if err := actor.Pay(BuildingCosts[City]); err != nil {
			return nil, err
		}
	}
	// The settlement goes back to stock; the record upgrades in place.
	actor.Stock[Settlement]++
	actor.VictoryPoints++
	g.touch(actor)

	existing.Type = City
	g.touchBuilding(existing)
	return existing, nil
}

// negate flips a cost map into the delta a payment applies.
func negate(cost map[Resource]int) map[Resource]int {
	delta := make(map[Resource]int, len(cost))
	for r, n := range cost {
		delta[r] = -n
	}
	return delta
}
