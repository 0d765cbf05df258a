package domain

// FindLongestRoad returns the length of the player's longest connected road
// network. Depth-first search over the player's edges: every owned edge is
// tried as a starting point, extending through corners that are unowned or
// owned by the player. The visited set is stack-scoped (undone after each
// branch) so sibling branches never block each other; corners may repeat,
// which lets a closed loop count its full length.
func FindLongestRoad(buildings []*Building, playerID string) int {
	owned := make(map[Edge]bool)
	cornerOwner := make(map[Corner]string)
	for _, b := range buildings {
		switch {
		case b.Type == Road && b.Owner == playerID:
			owned[b.EdgeSite()] = true
		case b.Type != Road:
			cornerOwner[b.CornerSite()] = b.Owner
		}
	}

	visited := make(map[Edge]bool, len(owned))
	best := 0
	for e := range owned {
		visited[e] = true
		for _, c := range e.Corners() {
			if l := 1 + extendRoad(owned, cornerOwner, playerID, visited, c); l > best {
				best = l
			}
		}
		delete(visited, e)
	}
	return best
}

// extendRoad walks from a corner into every unvisited owned edge and
// returns the longest continuation. An opponent's settlement or city on the
// corner blocks further traversal.
func extendRoad(owned map[Edge]bool, cornerOwner map[Corner]string, playerID string, visited map[Edge]bool, from Corner) int {
	if owner, ok := cornerOwner[from]; ok && owner != playerID {
		return 0
	}
	best := 0
	for _, e := range from.Edges() {
		if !owned[e] || visited[e] {
			continue
		}
		visited[e] = true
		if l := 1 + extendRoad(owned, cornerOwner, playerID, visited, e.OtherCorner(from)); l > best {
			best = l
		}
		delete(visited, e)
	}
	return best
}

// recomputeLongestRoad refreshes the player's road length after a road
// placement and re-evaluates the title.
func (g *Game) recomputeLongestRoad(p *Player) {
	length := FindLongestRoad(g.Buildings, p.ID)
	if length != p.LongestRoad {
		p.LongestRoad = length
		g.touch(p)
	}
	g.evaluateRoadTitle()
}

// checkForBrokenRoad refreshes every third party whose road network touches
// the corner a settlement was just placed on; splitting a road can shorten
// it and move the title.
func (g *Game) checkForBrokenRoad(corner Corner, placerID string) {
	affected := make(map[string]bool)
	for _, e := range corner.Edges() {
		if r := g.roadAt(e); r != nil && r.Owner != placerID {
			affected[r.Owner] = true
		}
	}
	for id := range affected {
		p, err := g.Player(id)
		if err != nil {
			continue
		}
		length := FindLongestRoad(g.Buildings, id)
		if length != p.LongestRoad {
			p.LongestRoad = length
			g.touch(p)
		}
	}
	if len(affected) > 0 {
		g.evaluateRoadTitle()
	}
}

// evaluateRoadTitle applies the longest-road transfer rules: the title
// needs length >= 5, ties keep the current holder, and a broken road with
// several players tied at the new maximum leaves the title unheld until one
// player is strictly longest.
func (g *Game) evaluateRoadTitle() {
	g.evaluateTitle(TitleLongestRoad, LongestRoadMinimum,
		func(p *Player) int { return p.LongestRoad },
		func(p *Player) bool { return p.HasLongestRoad },
		func(p *Player, held bool) { p.HasLongestRoad = held },
	)
}

// evaluateTitle implements the shared transfer logic for longest road and
// largest army. Grant is applied (and recorded in the change set) before
// the revoke so a partial failure at commit time leaves the new holder in
// place rather than no holder.
func (g *Game) evaluateTitle(title Title, minimum int, score func(*Player) int, holds func(*Player) bool, setHeld func(*Player, bool)) {
	var holder *Player
	maxScore := 0
	var leaders []*Player
	for _, p := range g.Players {
		if holds(p) {
			holder = p
		}
		if !p.Active {
			continue
		}
		s := score(p)
		if s > maxScore {
			maxScore = s
			leaders = []*Player{p}
		} else if s == maxScore && s > 0 {
			leaders = append(leaders, p)
		}
	}

	// Ties keep the current holder.
	if holder != nil && maxScore >= minimum && score(holder) == maxScore {
		return
	}

	var next *Player
	if maxScore >= minimum && len(leaders) == 1 {
		next = leaders[0]
	}
	if next == holder {
		return
	}

	transfer := TitleTransfer{Title: title}
	if next != nil {
		setHeld(next, true)
		next.VictoryPoints += TitleBonusPoints
		g.touch(next)
		transfer.To = next.ID
	}
	if holder != nil {
		setHeld(holder, false)
		holder.VictoryPoints -= TitleBonusPoints
		g.touch(holder)
		transfer.From = holder.ID
	}
	g.pendingTitles = append(g.pendingTitles, transfer)
}
