package bot

import (
	"pioneers/internal/domain"
)

// siteIndex caches the board's occupancy for one decision.
type siteIndex struct {
	view      View
	roads     map[domain.Edge]*domain.Building
	buildings map[domain.Corner]*domain.Building
}

func indexSites(v View) *siteIndex {
	idx := &siteIndex{
		view:      v,
		roads:     make(map[domain.Edge]*domain.Building),
		buildings: make(map[domain.Corner]*domain.Building),
	}
	for _, b := range v.Buildings {
		if b.Type == domain.Road {
			idx.roads[b.EdgeSite()] = b
		} else {
			idx.buildings[b.CornerSite()] = b
		}
	}
	return idx
}

// corners enumerates every corner on the board exactly once.
func (idx *siteIndex) corners() []domain.Corner {
	tiles := domain.Circle(idx.view.Board.Radius)
	out := make([]domain.Corner, 0, 2*len(tiles))
	for _, t := range tiles {
		out = append(out,
			domain.Corner{Coordinate: t, Side: 0},
			domain.Corner{Coordinate: t, Side: 6},
		)
	}
	return out
}

// edges enumerates every canonical edge on the board exactly once.
func (idx *siteIndex) edges() []domain.Edge {
	tiles := domain.Circle(idx.view.Board.Radius)
	out := make([]domain.Edge, 0, 3*len(tiles))
	for _, t := range tiles {
		for _, s := range []domain.Side{3, 7, 11} {
			out = append(out, domain.Edge{Coordinate: t, Side: s})
		}
	}
	return out
}

// settlementSpots returns free corners satisfying the distance rule.
func (idx *siteIndex) settlementSpots() []domain.Corner {
	var spots []domain.Corner
	for _, c := range idx.corners() {
		if idx.buildings[c] != nil {
			continue
		}
		crowded := false
		for _, n := range c.AdjacentCorners() {
			if idx.buildings[n] != nil {
				crowded = true
				break
			}
		}
		if !crowded {
			spots = append(spots, c)
		}
	}
	return spots
}

// connectedSettlementSpots keeps only spots reachable over an own road.
func (idx *siteIndex) connectedSettlementSpots() []domain.Corner {
	var spots []domain.Corner
	for _, c := range idx.settlementSpots() {
		for _, e := range c.Edges() {
			if r := idx.roads[e]; r != nil && r.Owner == idx.view.PlayerID {
				spots = append(spots, c)
				break
			}
		}
	}
	return spots
}

// roadSpots returns free edges connected to the player's road network or
// buildings.
func (idx *siteIndex) roadSpots() []domain.Edge {
	var spots []domain.Edge
	for _, e := range idx.edges() {
		if idx.roads[e] != nil {
			continue
		}
		if idx.connectsRoad(e) {
			spots = append(spots, e)
		}
	}
	return spots
}

func (idx *siteIndex) connectsRoad(e domain.Edge) bool {
	for _, n := range e.AdjacentEdges() {
		if r := idx.roads[n]; r != nil && r.Owner == idx.view.PlayerID {
			return true
		}
	}
	for _, c := range e.Corners() {
		if b := idx.buildings[c]; b != nil && b.Owner == idx.view.PlayerID {
			return true
		}
	}
	return false
}

// foundingRoadSpots returns free edges touching an own settlement that has
// no road yet.
func (idx *siteIndex) foundingRoadSpots() []domain.Edge {
	var spots []domain.Edge
	for c, b := range idx.buildings {
		if b.Owner != idx.view.PlayerID || b.Type != domain.Settlement {
			continue
		}
		attached := false
		for _, e := range c.Edges() {
			if idx.roads[e] != nil {
				attached = true
				break
			}
		}
		if attached {
			continue
		}
		for _, e := range c.Edges() {
			if idx.roads[e] == nil {
				spots = append(spots, e)
			}
		}
	}
	return spots
}

// ownSettlements returns the corners holding the player's settlements.
func (idx *siteIndex) ownSettlements() []domain.Corner {
	var out []domain.Corner
	for c, b := range idx.buildings {
		if b.Owner == idx.view.PlayerID && b.Type == domain.Settlement {
			out = append(out, c)
		}
	}
	return out
}

// robSpots pairs every legal robber destination with its victims.
func (idx *siteIndex) robSpots() []domain.MoveRequest {
	var reqs []domain.MoveRequest
	for _, tile := range idx.view.Board.Tiles {
		if r := idx.view.State.Robber; r != nil && tile.Coordinate == *r {
			continue
		}
		victims := idx.playersOnTile(tile.Coordinate)
		for _, victim := range victims {
			reqs = append(reqs, robRequest(tile.Coordinate, victim))
		}
		if len(victims) == 0 {
			reqs = append(reqs, robRequest(tile.Coordinate, ""))
		}
	}
	return reqs
}

func (idx *siteIndex) playersOnTile(tile domain.HexCoordinate) []string {
	seen := make(map[string]bool)
	var out []string
	for c, b := range idx.buildings {
		if b.Owner == idx.view.PlayerID || seen[b.Owner] {
			continue
		}
		for _, t := range c.Tiles() {
			if t == tile {
				seen[b.Owner] = true
				out = append(out, b.Owner)
				break
			}
		}
	}
	return out
}

func robRequest(tile domain.HexCoordinate, target string) domain.MoveRequest {
	return domain.MoveRequest{
		Action: domain.ActionRob,
		Rob:    &domain.RobRequest{X: tile.X, Y: tile.Y, Z: tile.Z, Target: target},
	}
}

func buildingRequest(action domain.Action, c domain.HexCoordinate, side domain.Side, t domain.BuildingType) domain.MoveRequest {
	return domain.MoveRequest{
		Action: action,
		Building: &domain.BuildingRequest{
			X: c.X, Y: c.Y, Z: c.Z,
			Side: side,
			Type: t,
		},
	}
}

// CandidateMoves enumerates requests worth submitting for the pending
// expected move, unranked. The engine re-validates everything; candidates
// only need to be plausible, not provably legal.
func CandidateMoves(v View) []domain.MoveRequest {
	head := v.Head()
	self := v.Self()
	if head == nil || self == nil {
		return nil
	}
	idx := indexSites(v)

	switch head.Action {
	case domain.ActionFoundingRoll:
		return []domain.MoveRequest{{Action: domain.ActionFoundingRoll}}

	case domain.ActionFoundingSettlement1, domain.ActionFoundingSettlement2:
		var reqs []domain.MoveRequest
		for _, c := range idx.settlementSpots() {
			reqs = append(reqs, buildingRequest(head.Action, c.Coordinate, c.Side, domain.Settlement))
		}
		return reqs

	case domain.ActionFoundingRoad1, domain.ActionFoundingRoad2:
		var reqs []domain.MoveRequest
		for _, e := range idx.foundingRoadSpots() {
			reqs = append(reqs, buildingRequest(head.Action, e.Coordinate, e.Side, domain.Road))
		}
		return reqs

	case domain.ActionRoll:
		return []domain.MoveRequest{{Action: domain.ActionRoll}}

	case domain.ActionDrop:
		return []domain.MoveRequest{dropRequest(self)}

	case domain.ActionRob:
		return idx.robSpots()

	case domain.ActionBuild:
		return idx.buildCandidates(self)

	case domain.ActionBuildRoad:
		var reqs []domain.MoveRequest
		for _, e := range idx.roadSpots() {
			reqs = append(reqs, buildingRequest(domain.ActionBuildRoad, e.Coordinate, e.Side, domain.Road))
		}
		// The bare request forfeits the free road when no placement
		// is accepted anymore (stock or open edges ran out).
		return append(reqs, domain.MoveRequest{Action: domain.ActionBuildRoad})

	case domain.ActionMonopoly:
		return []domain.MoveRequest{monopolyRequest(v)}

	case domain.ActionYearOfPlenty:
		return []domain.MoveRequest{yearOfPlentyRequest()}

	case domain.ActionOffer, domain.ActionAccept:
		// Agents do not negotiate; declining keeps the game moving.
		return []domain.MoveRequest{{Action: domain.ActionAccept}}
	}
	return nil
}

// buildCandidates lists everything a build turn could do, most valuable
// first: city, settlement, road, development card, bank trade, end turn.
func (idx *siteIndex) buildCandidates(self *domain.Player) []domain.MoveRequest {
	var reqs []domain.MoveRequest

	if self.CanAfford(negated(domain.BuildingCosts[domain.City])) {
		for _, c := range idx.ownSettlements() {
			reqs = append(reqs, buildingRequest(domain.ActionBuild, c.Coordinate, c.Side, domain.City))
		}
	}
	if self.CanAfford(negated(domain.BuildingCosts[domain.Settlement])) {
		for _, c := range idx.connectedSettlementSpots() {
			reqs = append(reqs, buildingRequest(domain.ActionBuild, c.Coordinate, c.Side, domain.Settlement))
		}
	}
	if self.CanAfford(negated(domain.BuildingCosts[domain.Road])) {
		for _, e := range idx.roadSpots() {
			reqs = append(reqs, buildingRequest(domain.ActionBuild, e.Coordinate, e.Side, domain.Road))
		}
	}
	for _, card := range self.Cards {
		if card.Type == domain.VictoryPoint || card.Revealed || card.Locked {
			continue
		}
		reqs = append(reqs, domain.MoveRequest{
			Action:          domain.ActionBuild,
			DevelopmentCard: string(card.Type),
		})
	}
	if self.CanAfford(negated(domain.DevelopmentCardCost)) {
		reqs = append(reqs, domain.MoveRequest{
			Action:          domain.ActionBuild,
			DevelopmentCard: domain.NewDevelopmentCard,
		})
	}
	reqs = append(reqs, idx.bankTrades(self)...)
	reqs = append(reqs, domain.MoveRequest{Action: domain.ActionBuild})
	return reqs
}

// bankTrades proposes 4:1 conversions of the player's surplus into its
// scarcest resource.
func (idx *siteIndex) bankTrades(self *domain.Player) []domain.MoveRequest {
	var reqs []domain.MoveRequest
	for _, give := range domain.Resources {
		if self.Resources[give] < 4 {
			continue
		}
		for _, take := range domain.Resources {
			if take == give || self.Resources[take] > 0 {
				continue
			}
			reqs = append(reqs, domain.MoveRequest{
				Action:    domain.ActionBuild,
				Partner:   domain.BankPartner,
				Resources: map[domain.Resource]int{give: -4, take: 1},
			})
			break
		}
	}
	return reqs
}

// dropRequest sheds the largest stacks first until half the hand is gone.
func dropRequest(self *domain.Player) domain.MoveRequest {
	want := self.TotalResources() / 2
	deltas := make(map[domain.Resource]int)
	for want > 0 {
		var richest domain.Resource
		most := 0
		for _, r := range domain.Resources {
			if held := self.Resources[r] + deltas[r]; held > most {
				most = held
				richest = r
			}
		}
		if most == 0 {
			break
		}
		deltas[richest]--
		want--
	}
	return domain.MoveRequest{Action: domain.ActionDrop, Resources: deltas}
}

// monopolyRequest names the resource opponents hold the most of.
func monopolyRequest(v View) domain.MoveRequest {
	totals := make(map[domain.Resource]int)
	for _, p := range v.Players {
		if p.ID == v.PlayerID || !p.Active {
			continue
		}
		for r, n := range p.Resources {
			totals[r] += n
		}
	}
	best := domain.Resources[0]
	for _, r := range domain.Resources {
		if totals[r] > totals[best] {
			best = r
		}
	}
	return domain.MoveRequest{
		Action:    domain.ActionMonopoly,
		Resources: map[domain.Resource]int{best: 1},
	}
}

func yearOfPlentyRequest() domain.MoveRequest {
	return domain.MoveRequest{
		Action:    domain.ActionYearOfPlenty,
		Resources: map[domain.Resource]int{domain.Lumber: 1, domain.Brick: 1},
	}
}

func negated(cost map[domain.Resource]int) map[domain.Resource]int {
	out := make(map[domain.Resource]int, len(cost))
	for r, n := range cost {
		out[r] = -n
	}
	return out
}
